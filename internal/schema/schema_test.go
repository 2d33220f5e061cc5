package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validStructure() *Structure {
	return &Structure{
		Placeholders: []Placeholder{
			{ID: "ph-1", Name: "patientName", Type: PlaceholderTypeText, Required: true,
				Position: &Position{X: 100, Y: 100, Page: 1}},
			{ID: "ph-2", Name: "visitDate", Type: PlaceholderTypeDate,
				Position: &Position{X: 100, Y: 140, Page: 1},
				Styles:   &Styles{FontSize: 11, FontWeight: "bold", TextAlign: "left", Color: "#1a2b3c"}},
		},
		TextBlocks: []TextBlock{
			{ID: "tb-1", Content: "I hereby affirm", Position: Position{X: 72, Y: 200}},
		},
		SignatureSettings: SignatureSettings{Enabled: true, Label: "Provider Signature", Position: Position{X: 72, Y: 700}},
		DocumentSettings:  DocumentSettings{PageSize: "letter", Orientation: "portrait"},
	}
}

func TestValidateStructure_Valid(t *testing.T) {
	require.NoError(t, ValidateStructure(validStructure()))
}

func TestValidateStructure_FirstOffendingFieldNamed(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Structure)
		wantField string
	}{
		{
			name:      "missing placeholder name",
			mutate:    func(s *Structure) { s.Placeholders[0].Name = "" },
			wantField: "placeholders[0].name",
		},
		{
			name:      "unknown placeholder type",
			mutate:    func(s *Structure) { s.Placeholders[1].Type = "dropdown" },
			wantField: "placeholders[1].type",
		},
		{
			name:      "three digit color shorthand rejected",
			mutate:    func(s *Structure) { s.Placeholders[1].Styles.Color = "#abc" },
			wantField: "placeholders[1].styles.color",
		},
		{
			name:      "color without hash rejected",
			mutate:    func(s *Structure) { s.Placeholders[1].Styles.Color = "11aa22g" },
			wantField: "placeholders[1].styles.color",
		},
		{
			name:      "bad font weight",
			mutate:    func(s *Structure) { s.Placeholders[1].Styles.FontWeight = "heavy" },
			wantField: "placeholders[1].styles.fontWeight",
		},
		{
			name:      "missing text block id",
			mutate:    func(s *Structure) { s.TextBlocks[0].ID = "" },
			wantField: "textBlocks[0].id",
		},
		{
			name:      "duplicate element id",
			mutate:    func(s *Structure) { s.TextBlocks[0].ID = "ph-1" },
			wantField: "textBlocks[0].id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validStructure()
			tt.mutate(s)

			err := ValidateStructure(s)
			require.Error(t, err)

			verr, ok := err.(*ValidationError)
			require.True(t, ok, "expected *ValidationError, got %T", err)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestValidateElements(t *testing.T) {
	t.Run("empty sequence rejected", func(t *testing.T) {
		err := ValidateElements(nil)
		require.Error(t, err)
		verr := err.(*ValidationError)
		assert.Equal(t, "elements", verr.Field)
	})

	t.Run("data element requires dataFieldKey", func(t *testing.T) {
		elements := []Element{
			{ID: "e1", Type: ElementTypeData, X: 10, Y: 10, Width: 100, Height: 20},
		}
		err := ValidateElements(elements)
		require.Error(t, err)
		assert.Equal(t, "elements[0].dataFieldKey", err.(*ValidationError).Field)
	})

	t.Run("negative height rejected", func(t *testing.T) {
		elements := []Element{
			{ID: "e1", Type: ElementTypeText, Content: "hi", X: 10, Y: 10, Width: 100, Height: -5},
		}
		err := ValidateElements(elements)
		require.Error(t, err)
		assert.Equal(t, "elements[0].height", err.(*ValidationError).Field)
	})

	t.Run("valid mixed elements", func(t *testing.T) {
		elements := []Element{
			{ID: "e1", Type: ElementTypeText, Content: "Affidavit of Service", X: 72, Y: 72, Width: 200, Height: 20, FontWeight: "bold", Color: "#000000"},
			{ID: "e2", Type: ElementTypeImage, ImageURL: "https://example.com/seal.png", X: 400, Y: 40, Width: 80, Height: 80},
			{ID: "e3", Type: ElementTypeData, DataFieldKey: "patientName", X: 72, Y: 120, Width: 200, Height: 16},
		}
		require.NoError(t, ValidateElements(elements))
	})
}

func TestParseStructure_MalformedJSON(t *testing.T) {
	_, err := ParseStructure([]byte("{not json"))
	require.Error(t, err)
	assert.Equal(t, "structure", err.(*ValidationError).Field)
}

func TestClone_DeepIndependentCopy(t *testing.T) {
	source := validStructure()
	clone := source.Clone()

	require.Equal(t, source, clone)

	// Mutating the clone must not leak into the source.
	clone.Placeholders[0].Position.X = 999
	clone.Placeholders[1].Styles.Color = "#ff0000"
	clone.TextBlocks[0].Content = "changed"

	assert.Equal(t, 100.0, source.Placeholders[0].Position.X)
	assert.Equal(t, "#1a2b3c", source.Placeholders[1].Styles.Color)
	assert.Equal(t, "I hereby affirm", source.TextBlocks[0].Content)
}
