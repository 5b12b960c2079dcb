package derive

import (
	"fmt"

	"github.com/tensil-lang/tensil/internal/ast"
	"github.com/tensil-lang/tensil/internal/config"
	"github.com/tensil-lang/tensil/internal/typesystem"
)

// fieldParameterType returns the "parameter type" of a stored field.
// If the field's declared type conforms to ParameterGroup, this is the
// conformance's Parameter type witness, instantiated for the field's type.
// Otherwise it is the field's declared type unchanged.
func fieldParameterType(ctx *Context, field *ast.FieldDecl) typesystem.Type {
	ref, ok := ctx.Conformances.Lookup(field.Type, config.ParameterGroupProtocolName)
	if !ok {
		return field.Type
	}
	witness, ok := ref.TypeWitness(config.ParameterTypeName)
	if !ok {
		panic(fmt.Sprintf("derive: conformance of %s to %s has no %s type witness",
			field.Type.String(), config.ParameterGroupProtocolName, config.ParameterTypeName))
	}
	return witness
}

// inferParameterType unifies the parameter types of all stored fields.
// Returns nil if the struct has no stored fields, or if any two fields
// resolve to different parameter types. Only exact type identity is
// accepted; there is no most-general-unifier computation.
func inferParameterType(ctx *Context, nominal *ast.StructDecl) typesystem.Type {
	fields := nominal.StoredFields()
	if len(fields) == 0 {
		return nil
	}
	var sameMemberType typesystem.Type
	for _, field := range fields {
		parameterType := fieldParameterType(ctx, field)
		if sameMemberType == nil {
			sameMemberType = parameterType
			continue
		}
		if !typesystem.Equal(parameterType, sameMemberType) {
			return nil
		}
	}
	return sameMemberType
}

// CanDeriveParameterGroup reports whether a ParameterGroup conformance can
// be derived for the struct.
func CanDeriveParameterGroup(ctx *Context, nominal *ast.StructDecl) bool {
	return inferParameterType(ctx, nominal) != nil
}
