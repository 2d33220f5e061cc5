package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports the first offending field of a malformed template
// structure. Validation is pure: it never touches storage and is never
// partially applied.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid template structure: %s: %s", e.Field, e.Message)
}

var hexColor6 = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Strict 6-hex-digit colors only; the 3-digit shorthand is rejected.
	v.RegisterValidation("hexcolor6", func(fl validator.FieldLevel) bool {
		return hexColor6.MatchString(fl.Field().String())
	})
	return v
}

// ValidateStructure checks a template structure against the schema rules:
// placeholder ids/names/types present, style enums in range, colors strictly
// 6-hex-digit, geometry non-negative.
func ValidateStructure(s *Structure) error {
	if s == nil {
		return &ValidationError{Field: "structure", Message: "structure is required"}
	}

	seen := make(map[string]bool, len(s.Placeholders)+len(s.TextBlocks))

	for i, p := range s.Placeholders {
		field := fmt.Sprintf("placeholders[%d]", i)
		if err := validateStruct(field, p); err != nil {
			return err
		}
		if seen[p.ID] {
			return &ValidationError{Field: field + ".id", Message: "duplicate element id " + p.ID}
		}
		seen[p.ID] = true
	}

	for i, tb := range s.TextBlocks {
		field := fmt.Sprintf("textBlocks[%d]", i)
		if err := validateStruct(field, tb); err != nil {
			return err
		}
		if seen[tb.ID] {
			return &ValidationError{Field: field + ".id", Message: "duplicate element id " + tb.ID}
		}
		seen[tb.ID] = true
	}

	if s.LogoSettings != nil {
		if err := validateStruct("logoSettings", *s.LogoSettings); err != nil {
			return err
		}
	}
	if err := validateStruct("documentSettings", s.DocumentSettings); err != nil {
		return err
	}

	return nil
}

// ValidateElements checks the flatter custom-template element array. An
// empty sequence is rejected outright.
func ValidateElements(elements []Element) error {
	if len(elements) == 0 {
		return &ValidationError{Field: "elements", Message: "at least one element is required"}
	}

	seen := make(map[string]bool, len(elements))
	for i, el := range elements {
		field := fmt.Sprintf("elements[%d]", i)
		if err := validateStruct(field, el); err != nil {
			return err
		}
		if seen[el.ID] {
			return &ValidationError{Field: field + ".id", Message: "duplicate element id " + el.ID}
		}
		seen[el.ID] = true

		switch el.Type {
		case ElementTypeImage:
			if el.ImageURL == "" {
				return &ValidationError{Field: field + ".imageUrl", Message: "image elements require imageUrl"}
			}
		case ElementTypeData:
			if el.DataFieldKey == "" {
				return &ValidationError{Field: field + ".dataFieldKey", Message: "data elements require dataFieldKey"}
			}
		}
	}

	return nil
}

// validateStruct translates the first validator.v10 failure into the
// package's ValidationError naming the offending field.
func validateStruct(prefix string, v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		return &ValidationError{
			Field:   prefix + "." + jsonFieldName(fe),
			Message: tagMessage(fe),
		}
	}
	return &ValidationError{Field: prefix, Message: err.Error()}
}

func jsonFieldName(fe validator.FieldError) string {
	// StructNamespace looks like "Placeholder.Styles.Color"; drop the root
	// type and lower-case the leading letter of each segment to match the
	// wire names.
	ns := fe.StructNamespace()
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToLower(p[:1]) + p[1:]
	}
	return strings.Join(parts, ".")
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	case "hexcolor6":
		return "must be a 6-hex-digit color like #1a2b3c"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
