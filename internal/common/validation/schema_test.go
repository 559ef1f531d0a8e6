package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contactSchema = JSONSchema{
	Type: "object",
	Properties: map[string]Property{
		"email": {Type: "string", Format: "email"},
		"tags": {
			Type:     "array",
			Items:    &Property{Type: "string"},
			MinItems: Int(1),
		},
	},
	Required: []string{"email"},
}

func TestValidator_ValidateJSON(t *testing.T) {
	v, err := Compile(contactSchema)
	require.NoError(t, err)

	tests := []struct {
		name      string
		doc       string
		wantValid bool
		wantField string
	}{
		{"valid", `{"email":"a@b.co","tags":["x"]}`, true, ""},
		{"missing email", `{"tags":["x"]}`, false, "(root)"},
		{"bad email", `{"email":"nope"}`, false, "email"},
		{"empty tags", `{"email":"a@b.co","tags":[]}`, false, "tags"},
		{"malformed", `{"email":`, false, "(root)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.ValidateJSON([]byte(tt.doc))
			assert.Equal(t, tt.wantValid, res.Valid, res.GetErrorMessages())
			if tt.wantField != "" {
				assert.True(t, res.HasErrors(tt.wantField), res.GetErrorMessages())
			}
		})
	}
}

func TestValidateMailbox(t *testing.T) {
	assert.True(t, ValidateMailbox("ops@example.com"))
	assert.True(t, ValidateMailbox("KOK-OS System <onboarding@resend.dev>"))
	assert.False(t, ValidateMailbox("KOK-OS System"))
	assert.False(t, ValidateEmail("a@b"))
}
