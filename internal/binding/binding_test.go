package binding

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AFD-SVC/internal/schema"
)

func affidavitStructure() *schema.Structure {
	return &schema.Structure{
		Placeholders: []schema.Placeholder{
			{ID: "ph-1", Name: "patientName", Type: schema.PlaceholderTypeText, Required: true},
			{ID: "ph-2", Name: "providerName", Type: schema.PlaceholderTypeText, Required: true},
			{ID: "ph-3", Name: "visitDate", Type: schema.PlaceholderTypeDate},
			{ID: "ph-4", Name: "consentGiven", Type: schema.PlaceholderTypeCheckbox},
			{ID: "ph-5", Name: "caseNumber", Type: schema.PlaceholderTypeText, DefaultValue: "N/A"},
			{ID: "ph-6", Name: "providerSig", Type: schema.PlaceholderTypeSignature},
		},
		TextBlocks: []schema.TextBlock{
			{ID: "tb-1", Content: "Sworn before me", Position: schema.Position{X: 72, Y: 300}},
		},
		SignatureSettings: schema.SignatureSettings{Enabled: true, Label: "Provider Signature", Position: schema.Position{X: 72, Y: 700}},
		DocumentSettings:  schema.DocumentSettings{PageSize: "letter", Orientation: "portrait"},
	}
}

func TestBind_ResolvesContextValues(t *testing.T) {
	doc, errs := Bind(affidavitStructure(), map[string]interface{}{
		"patientName":  "John Doe",
		"providerName": "Dr. Reyes",
	})

	assert.Empty(t, errs)
	assert.Equal(t, "John Doe", doc.Values["patientName"])
	assert.Equal(t, "Dr. Reyes", doc.Values["providerName"])
}

func TestBind_CollectsEveryMissingRequiredField(t *testing.T) {
	doc, errs := Bind(affidavitStructure(), map[string]interface{}{})

	// Two required fields missing, so exactly two errors in one pass.
	require.Len(t, errs, 2)
	fields := []string{errs[0].Field, errs[1].Field}
	assert.Contains(t, fields, "patientName")
	assert.Contains(t, fields, "providerName")
	for _, be := range errs {
		assert.Equal(t, ReasonMissingRequiredField, be.Reason)
	}

	// Partial document is still returned for preview, with zero resolved
	// text for the missing fields.
	require.NotNil(t, doc)
	assert.Equal(t, "", doc.Values["patientName"])
	assert.Equal(t, "", doc.Values["providerName"])
}

func TestBind_DefaultValueSatisfiesMissingInput(t *testing.T) {
	doc, errs := Bind(affidavitStructure(), map[string]interface{}{
		"patientName":  "John Doe",
		"providerName": "Dr. Reyes",
	})

	assert.Empty(t, errs)
	assert.Equal(t, "N/A", doc.Values["caseNumber"])
}

func TestBind_CheckboxCoercion(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"string true", "true", "true"},
		{"string yes", "Yes", "true"},
		{"string one", "1", "true"},
		{"string no", "no", "false"},
		{"number nonzero", float64(2), "true"},
		{"number zero", float64(0), "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, _ := Bind(affidavitStructure(), map[string]interface{}{
				"patientName":  "p",
				"providerName": "q",
				"consentGiven": tt.value,
			})
			assert.Equal(t, tt.want, doc.Values["consentGiven"])
		})
	}
}

func TestBind_DatePassesThroughUnchanged(t *testing.T) {
	for _, raw := range []string{"2024-03-15", "March 15, 2024"} {
		doc, _ := Bind(affidavitStructure(), map[string]interface{}{
			"patientName":  "p",
			"providerName": "q",
			"visitDate":    raw,
		})
		assert.Equal(t, raw, doc.Values["visitDate"])
	}
}

func TestBind_SignatureResolvedAsDirective(t *testing.T) {
	doc, errs := Bind(affidavitStructure(), map[string]interface{}{
		"patientName":  "p",
		"providerName": "q",
		"providerSig":  "should be ignored",
	})

	assert.Empty(t, errs)
	// Signature slots never take a literal from the context.
	_, resolved := doc.Values["providerSig"]
	assert.False(t, resolved)
	require.NotNil(t, doc.Signature)
	assert.Equal(t, "Provider Signature", doc.Signature.Label)
	assert.Equal(t, 72.0, doc.Signature.Position.X)
}

func TestBind_DisabledSignatureOmitsDirective(t *testing.T) {
	s := affidavitStructure()
	s.SignatureSettings.Enabled = false

	doc, _ := Bind(s, map[string]interface{}{"patientName": "p", "providerName": "q"})
	assert.Nil(t, doc.Signature)
}

func TestBind_Idempotent(t *testing.T) {
	context := map[string]interface{}{
		"patientName":  "John Doe",
		"providerName": "Dr. Reyes",
		"visitDate":    "2024-03-15",
		"consentGiven": true,
	}

	first, errs1 := Bind(affidavitStructure(), context)
	second, errs2 := Bind(affidavitStructure(), context)

	assert.Equal(t, errs1, errs2)

	// Byte-identical: no hidden timestamps inside the resolved output.
	b1, err := json.Marshal(first)
	require.NoError(t, err)
	b2, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestBind_CloneResolvesIdentically(t *testing.T) {
	context := map[string]interface{}{
		"patientName":  "John Doe",
		"providerName": "Dr. Reyes",
	}

	source := affidavitStructure()
	clone := source.Clone()

	fromSource, errsSource := Bind(source, context)
	fromClone, errsClone := Bind(clone, context)

	assert.Equal(t, errsSource, errsClone)
	assert.Equal(t, fromSource, fromClone)
}

func TestBind_LayoutCarriedIntoResolvedDocument(t *testing.T) {
	s := affidavitStructure()
	s.Placeholders[0].Position = &schema.Position{X: 100, Y: 100, Page: 2}

	doc, _ := Bind(s, map[string]interface{}{"patientName": "p", "providerName": "q"})

	assert.Equal(t, 2, doc.PageCount)
	require.Len(t, doc.Pages[2].Placeholders, 1)
	assert.Equal(t, "patientName", doc.Pages[2].Placeholders[0].Name)
}
