package api

import (
	"net/http"

	"kokos-intake/internal/models"
)

type submissionRequest struct {
	Answers            models.AnswerSet            `json:"answers"`
	ConditionalAnswers models.ConditionalAnswerSet `json:"conditionalAnswers"`
}

// SubmitIntake handles POST /api/intakes
func (h *SessionHandler) SubmitIntake(w http.ResponseWriter, r *http.Request) {
	var req submissionRequest
	if stdErr := decodeValidated(w, r, h.maxBody, submissionSchema, &req); stdErr != nil {
		ErrorResponse(w, stdErr)
		return
	}
	if req.ConditionalAnswers == nil {
		req.ConditionalAnswers = models.ConditionalAnswerSet{}
	}

	res := h.submit(r.Context(), models.SubmissionPayload{
		Answers:            req.Answers,
		ConditionalAnswers: req.ConditionalAnswers,
		CompletedAt:        h.now().UTC(),
	})
	JSONResponse(w, resultStatus(res), res)
}

// Catalog handles GET /api/catalog
func (h *SessionHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	JSONResponse(w, http.StatusOK, catalogResponse{
		Groups:    h.cat.Groups(),
		Questions: h.cat.Questions(),
	})
}
