package schema

import "encoding/json"

type PlaceholderType string

const (
	PlaceholderTypeText      PlaceholderType = "text"
	PlaceholderTypeDate      PlaceholderType = "date"
	PlaceholderTypeCheckbox  PlaceholderType = "checkbox"
	PlaceholderTypeSignature PlaceholderType = "signature"
)

type ElementType string

const (
	ElementTypeText  ElementType = "text"
	ElementTypeImage ElementType = "image"
	ElementTypeData  ElementType = "data"
)

// Position is expressed in page points, anchored at the page's top-left
// corner. Page is carried as a float because persisted structures may hold
// fractional values; consumers floor it (see layout.PageOf).
type Position struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Page float64 `json:"page,omitempty"`
}

type Size struct {
	Width  float64 `json:"width" validate:"gte=0"`
	Height float64 `json:"height" validate:"gte=0"`
}

type Styles struct {
	FontSize   float64 `json:"fontSize,omitempty" validate:"gte=0"`
	FontWeight string  `json:"fontWeight,omitempty" validate:"omitempty,oneof=normal bold"`
	FontStyle  string  `json:"fontStyle,omitempty" validate:"omitempty,oneof=normal italic"`
	TextAlign  string  `json:"textAlign,omitempty" validate:"omitempty,oneof=left center right"`
	Color      string  `json:"color,omitempty" validate:"omitempty,hexcolor6"`
}

// Placeholder is a named, typed slot bound at generation time. Name is the
// binding key looked up in the data context.
type Placeholder struct {
	ID           string          `json:"id" validate:"required"`
	Name         string          `json:"name" validate:"required"`
	Type         PlaceholderType `json:"type" validate:"required,oneof=text date checkbox signature"`
	Required     bool            `json:"required"`
	DefaultValue string          `json:"defaultValue,omitempty"`
	Position     *Position       `json:"position,omitempty"`
	Styles       *Styles         `json:"styles,omitempty"`
	Description  string          `json:"description,omitempty"`
}

// TextBlock is static content placed at an absolute position.
type TextBlock struct {
	ID       string    `json:"id" validate:"required"`
	Content  string    `json:"content"`
	Position Position  `json:"position"`
	Styles   *Styles   `json:"styles,omitempty"`
}

type LogoSettings struct {
	Path     string   `json:"path" validate:"required"`
	Position Position `json:"position"`
	Size     Size     `json:"size"`
}

type SignatureSettings struct {
	Enabled  bool     `json:"enabled"`
	Label    string   `json:"label"`
	Position Position `json:"position"`
}

type DocumentSettings struct {
	PageSize    string `json:"pageSize" validate:"omitempty,oneof=letter legal A4"`
	Orientation string `json:"orientation" validate:"omitempty,oneof=portrait landscape"`
}

type HeaderFooter struct {
	Text string `json:"text"`
}

// Structure is the persisted shape of a template: positioned placeholders
// and text blocks plus document-level settings.
type Structure struct {
	Placeholders      []Placeholder     `json:"placeholders"`
	TextBlocks        []TextBlock       `json:"textBlocks"`
	LogoSettings      *LogoSettings     `json:"logoSettings,omitempty"`
	SignatureSettings SignatureSettings `json:"signatureSettings"`
	DocumentSettings  DocumentSettings  `json:"documentSettings"`
	Header            *HeaderFooter     `json:"header,omitempty"`
	Footer            *HeaderFooter     `json:"footer,omitempty"`
}

// Element is the flatter custom-template shape: a single positioned item
// discriminated by Type.
type Element struct {
	ID           string      `json:"id" validate:"required"`
	Type         ElementType `json:"type" validate:"required,oneof=text image data"`
	Content      string      `json:"content,omitempty"`
	X            float64     `json:"x"`
	Y            float64     `json:"y"`
	Page         float64     `json:"page,omitempty"`
	Width        float64     `json:"width" validate:"gte=0"`
	Height       float64     `json:"height" validate:"gte=0"`
	FontSize     float64     `json:"fontSize,omitempty" validate:"gte=0"`
	FontWeight   string      `json:"fontWeight,omitempty" validate:"omitempty,oneof=normal bold"`
	FontStyle    string      `json:"fontStyle,omitempty" validate:"omitempty,oneof=normal italic"`
	TextAlign    string      `json:"textAlign,omitempty" validate:"omitempty,oneof=left center right"`
	Color        string      `json:"color,omitempty" validate:"omitempty,hexcolor6"`
	ImageURL     string      `json:"imageUrl,omitempty"`
	DataFieldKey string      `json:"dataFieldKey,omitempty"`
}

// Clone returns a deep, independent copy of the structure. Clones never
// alias the source: mutating one must not affect the other.
func (s *Structure) Clone() *Structure {
	if s == nil {
		return nil
	}

	out := &Structure{
		SignatureSettings: s.SignatureSettings,
		DocumentSettings:  s.DocumentSettings,
	}

	if s.Placeholders != nil {
		out.Placeholders = make([]Placeholder, len(s.Placeholders))
		for i, p := range s.Placeholders {
			cp := p
			if p.Position != nil {
				pos := *p.Position
				cp.Position = &pos
			}
			if p.Styles != nil {
				st := *p.Styles
				cp.Styles = &st
			}
			out.Placeholders[i] = cp
		}
	}

	if s.TextBlocks != nil {
		out.TextBlocks = make([]TextBlock, len(s.TextBlocks))
		for i, tb := range s.TextBlocks {
			cb := tb
			if tb.Styles != nil {
				st := *tb.Styles
				cb.Styles = &st
			}
			out.TextBlocks[i] = cb
		}
	}

	if s.LogoSettings != nil {
		logo := *s.LogoSettings
		out.LogoSettings = &logo
	}
	if s.Header != nil {
		h := *s.Header
		out.Header = &h
	}
	if s.Footer != nil {
		f := *s.Footer
		out.Footer = &f
	}

	return out
}

// ParseStructure decodes and validates a raw persisted structure. It is the
// only entry point through which untyped JSON becomes a typed Structure.
func ParseStructure(raw []byte) (*Structure, error) {
	var s Structure
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, &ValidationError{Field: "structure", Message: "malformed JSON: " + err.Error()}
	}
	if err := ValidateStructure(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
