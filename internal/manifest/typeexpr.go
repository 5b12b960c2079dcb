package manifest

import (
	"fmt"

	"github.com/tensil-lang/tensil/internal/typesystem"
)

// parseTypeExpr parses a type expression of the form Name or Name<T1, T2>.
// Names in vars parse as type variables; names in known parse as type
// constructors. With collect set, unrecognized names are added to vars
// instead of rejected (used for conformance targets, where the document has
// no explicit type-parameter list).
func parseTypeExpr(input string, vars, known map[string]bool, collect bool) (typesystem.Type, error) {
	p := &typeExprParser{input: input, vars: vars, known: known, collect: collect}
	t, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("unexpected %q at offset %d", p.input[p.pos:], p.pos)
	}
	return t, nil
}

type typeExprParser struct {
	input   string
	pos     int
	vars    map[string]bool
	known   map[string]bool
	collect bool
}

func (p *typeExprParser) parse() (typesystem.Type, error) {
	p.skipSpace()
	name := p.scanName()
	if name == "" {
		return nil, fmt.Errorf("expected a type name at offset %d", p.pos)
	}

	isVar := p.vars[name]
	if !isVar && !p.known[name] {
		if !p.collect {
			return nil, fmt.Errorf("unknown type name %q", name)
		}
		p.vars[name] = true
		isVar = true
	}

	p.skipSpace()
	if p.pos >= len(p.input) || p.input[p.pos] != '<' {
		if isVar {
			return typesystem.TVar{Name: name}, nil
		}
		return typesystem.TCon{Name: name}, nil
	}
	if isVar {
		return nil, fmt.Errorf("type variable %q cannot take type arguments", name)
	}

	p.pos++ // consume '<'
	var args []typesystem.Type
	for {
		arg, err := p.parse()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skipSpace()
		if p.pos >= len(p.input) {
			return nil, fmt.Errorf("unterminated type arguments for %q", name)
		}
		switch p.input[p.pos] {
		case ',':
			p.pos++
		case '>':
			p.pos++
			return typesystem.TApp{Constructor: typesystem.TCon{Name: name}, Args: args}, nil
		default:
			return nil, fmt.Errorf("expected ',' or '>' at offset %d", p.pos)
		}
	}
}

func (p *typeExprParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *typeExprParser) scanName() string {
	start := p.pos
	for p.pos < len(p.input) && isNameChar(p.input[p.pos], p.pos > start) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func isNameChar(c byte, interior bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		return true
	case c >= '0' && c <= '9':
		return interior
	default:
		return false
	}
}
