package config

const ManifestFileExt = ".yaml"

// ManifestFileExtensions are all recognized module manifest extensions
var ManifestFileExtensions = []string{".yaml", ".yml"}

// IsTestMode indicates if the program is running in test mode.
// This is set once at startup in main.go when handling test command.
var IsTestMode = false

// ParameterGroup protocol names. Must stay in sync with the protocol
// definition built by symbols.ParameterGroupProtocol.
const (
	ParameterGroupProtocolName = "ParameterGroup"
	ParameterTypeName          = "Parameter"
	UpdateMethodName           = "update"
	GradientsParamLabel        = "withGradients"
	GradientsParamName         = "gradients"
	UpdaterParamName           = "updater"
	SelfName                   = "self"
)

// Built-in type names
const (
	FloatTypeName  = "Float"
	IntTypeName    = "Int"
	BoolTypeName   = "Bool"
	TensorTypeName = "Tensor"
	StringTypeName = "String"
)

// BuiltinTypeNames lists every type a manifest may reference without
// declaring it.
var BuiltinTypeNames = []string{
	FloatTypeName,
	IntTypeName,
	BoolTypeName,
	TensorTypeName,
	StringTypeName,
}
