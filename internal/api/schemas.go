package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "kokos-intake/internal/common/errors"
	"kokos-intake/internal/common/validation"
)

var answerValue = validation.Property{
	OneOf: []validation.Property{
		{Type: "string"},
		{Type: "array", Items: &validation.Property{Type: "string"}},
	},
}

var (
	answerSchema = validation.MustCompile(validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"questionId": {Type: "string", MinLength: validation.Int(1)},
			"value":      answerValue,
		},
		Required: []string{"questionId", "value"},
	})

	conditionalSchema = validation.MustCompile(validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"value": answerValue,
		},
		Required: []string{"value"},
	})

	// submissionSchema is the input contract of a direct submission: the
	// fields the operator email needs must be present.
	submissionSchema = validation.MustCompile(validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"answers": {
				Type: "object",
				Properties: map[string]validation.Property{
					"businessName":  {Type: "string", MinLength: validation.Int(1)},
					"email":         {Type: "string", Format: "email"},
					"contactPerson": {Type: "string"},
					"phone":         {Type: "string"},
					"goal":          answerValue,
				},
				Required:             []string{"businessName", "email", "contactPerson", "phone", "goal"},
				AdditionalProperties: &answerValue,
			},
			"conditionalAnswers": {
				Type:                 "object",
				AdditionalProperties: &answerValue,
			},
		},
		Required: []string{"answers"},
	})
)

// decodeValidated reads a size-limited body, checks it against schema and
// decodes it into dst.
func decodeValidated(w http.ResponseWriter, r *http.Request, limit int64, schema *validation.Validator, dst interface{}) *apperrors.StandardError {
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.NewValidationError(fmt.Sprintf("request body exceeds %d bytes", limit))
		}
		return apperrors.NewValidationError(err.Error())
	}

	res := schema.ValidateJSON(body)
	if !res.Valid {
		return apperrors.NewValidationError(strings.Join(res.GetErrorMessages(), "; ")).
			WithMetadata("errors", res.Errors)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	return nil
}
