package tools

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// argValidator runs go-playground/validator's single-variable checks
// (Var, not Struct) against each property in a tool's schema, since
// tool arguments arrive as a decoded map[string]any rather than a
// fixed Go struct.
var argValidator = validator.New()

// validateArgs checks every required argument is present and, for
// declared scalar types, that it decoded to the expected Go type.
func (r *Registry) validateArgs(tool *Tool, args map[string]any) error {
	for _, required := range tool.Schema.Required {
		if _, ok := args[required]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingRequiredArg, required)
		}
	}

	for name, prop := range tool.Schema.Properties {
		val, present := args[name]
		if !present {
			continue
		}
		tag := validatorTagFor(prop)
		if tag == "" {
			continue
		}
		if err := argValidator.Var(val, tag); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidArgType, name, err)
		}
	}
	return nil
}

// validatorTagFor maps a JSON-schema property type to the validator
// tag that checks a decoded any value actually has that Go shape.
func validatorTagFor(p Property) string {
	switch p.Type {
	case "string":
		return "omitempty"
	case "integer", "number":
		return "omitempty,number"
	case "boolean":
		return "omitempty"
	default:
		return ""
	}
}
