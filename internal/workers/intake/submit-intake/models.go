package submitintake

import "kokos-intake/internal/models"

// Input is the job variables: the submission payload as produced by the
// wizard export.
type Input struct {
	Answers            models.AnswerSet            `json:"answers"`
	ConditionalAnswers models.ConditionalAnswerSet `json:"conditionalAnswers"`
}

type Output struct {
	IntakeRecordID string `json:"intakeRecordId"`
	IntakeStatus   string `json:"intakeStatus"`
	Message        string `json:"message"`
	EmailStatus    string `json:"emailStatus"`
}
