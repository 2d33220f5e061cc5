package binding

import (
	"fmt"
	"strconv"
	"strings"

	"AFD-SVC/internal/layout"
	"AFD-SVC/internal/schema"
)

// Reason classifies why a placeholder failed to bind.
type Reason string

const ReasonMissingRequiredField Reason = "MISSING_REQUIRED_FIELD"

// BindingError records one unresolvable placeholder. Bind collects every
// error in a single pass rather than failing on the first, so a caller sees
// the complete list of missing fields at once.
type BindingError struct {
	Field  string `json:"field"`
	Reason Reason `json:"reason"`
}

func (e BindingError) Error() string {
	return fmt.Sprintf("binding failed for %q: %s", e.Field, e.Reason)
}

// SignatureDirective tells the renderer to draw a signature label and line.
// Signature placeholders never receive a literal value from the context;
// this directive is driven entirely by the template's signatureSettings.
type SignatureDirective struct {
	Label    string          `json:"label"`
	Position schema.Position `json:"position"`
}

// ResolvedDocument is the renderer-ready output of binding: a flat map of
// resolved placeholder literals keyed by placeholder name, paired with the
// page-grouped element layout.
type ResolvedDocument struct {
	Values    map[string]string          `json:"values"`
	Pages     map[int]layout.PageContent `json:"pages"`
	PageCount int                        `json:"pageCount"`
	Signature *SignatureDirective        `json:"signature,omitempty"`
	Logo      *schema.LogoSettings       `json:"logo,omitempty"`
	Header    *schema.HeaderFooter       `json:"header,omitempty"`
	Footer    *schema.HeaderFooter       `json:"footer,omitempty"`
	Settings  schema.DocumentSettings    `json:"settings"`
}

// Bind resolves every named placeholder of a structure against a data
// context. Absent values fall back to the placeholder's default; absent
// required values are recorded as errors while resolution continues. The
// partial document is always returned so callers can preview; only final
// generation treats a non-empty error list as fatal.
func Bind(s *schema.Structure, context map[string]interface{}) (*ResolvedDocument, []BindingError) {
	doc := &ResolvedDocument{
		Values:    make(map[string]string, len(s.Placeholders)),
		Pages:     layout.GroupByPage(s),
		PageCount: layout.PageCount(s),
		Logo:      s.LogoSettings,
		Header:    s.Header,
		Footer:    s.Footer,
		Settings:  s.DocumentSettings,
	}

	if s.SignatureSettings.Enabled {
		doc.Signature = &SignatureDirective{
			Label:    s.SignatureSettings.Label,
			Position: s.SignatureSettings.Position,
		}
	}

	var errs []BindingError

	for _, p := range s.Placeholders {
		// Signature slots are resolved through the directive path above,
		// independent of the generic placeholder lookup.
		if p.Type == schema.PlaceholderTypeSignature {
			continue
		}

		raw, ok := context[p.Name]
		if !ok || raw == nil || raw == "" {
			if p.DefaultValue != "" {
				doc.Values[p.Name] = coerce(p.Type, p.DefaultValue)
				continue
			}
			doc.Values[p.Name] = ""
			if p.Required {
				errs = append(errs, BindingError{Field: p.Name, Reason: ReasonMissingRequiredField})
			}
			continue
		}

		doc.Values[p.Name] = coerce(p.Type, raw)
	}

	return doc, errs
}

// coerce normalizes a context value for its placeholder type. Checkbox
// values collapse to "true"/"false"; date values pass through unchanged —
// the caller controls the display format.
func coerce(t schema.PlaceholderType, raw interface{}) string {
	if t == schema.PlaceholderTypeCheckbox {
		return strconv.FormatBool(truthy(raw))
	}
	return stringify(raw)
}

func truthy(raw interface{}) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "on", "checked":
			return true
		}
		return false
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return false
	}
}

func stringify(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
