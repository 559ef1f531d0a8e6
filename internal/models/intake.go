// internal/models/intake.go
package models

import "time"

// Well-known answer ids read by the submission pipeline.
const (
	FieldBusinessName  = "businessName"
	FieldEmail         = "email"
	FieldContactPerson = "contactPerson"
	FieldPhone         = "phone"
	FieldGoal          = "goal"
)

const (
	IntakeStatusPending  = "pending"
	IntakeStatusApproved = "approved"
	IntakeStatusRejected = "rejected"
)

// ExportVersion is stamped on every export document.
const ExportVersion = "1.0"

// SubmissionPayload is built once from a completed wizard and handed to the
// gateway. It is not mutated afterwards.
type SubmissionPayload struct {
	Answers            AnswerSet            `json:"answers"`
	ConditionalAnswers ConditionalAnswerSet `json:"conditionalAnswers"`
	CompletedAt        time.Time            `json:"completedAt"`
}

func (p SubmissionPayload) BusinessName() string  { return p.Answers.Text(FieldBusinessName) }
func (p SubmissionPayload) ContactEmail() string  { return p.Answers.Text(FieldEmail) }
func (p SubmissionPayload) ContactPerson() string { return p.Answers.Text(FieldContactPerson) }
func (p SubmissionPayload) Phone() string         { return p.Answers.Text(FieldPhone) }

// Goal joins multiple goals with ", ".
func (p SubmissionPayload) Goal() string { return p.Answers.Text(FieldGoal) }

// EffectStatus is the outcome of one side effect of a submission.
type EffectStatus string

const (
	EffectDone    EffectStatus = "done"
	EffectFailed  EffectStatus = "failed"
	EffectSkipped EffectStatus = "skipped"
)

// Effect records what happened to a single side effect.
type Effect struct {
	Name   string       `json:"name"`
	Status EffectStatus `json:"status"`
	Error  string       `json:"error,omitempty"`
}

// SubmissionResult is what callers of the gateway see. Success depends only
// on the durable effect; advisory effects are informational.
type SubmissionResult struct {
	Success   bool     `json:"success"`
	Message   string   `json:"message"`
	RecordID  string   `json:"recordId,omitempty"`
	ErrorCode string   `json:"errorCode,omitempty"`
	Durable   Effect   `json:"durable"`
	Advisory  []Effect `json:"advisory,omitempty"`
}

// IntakeRecord is the row written to the intakes table.
type IntakeRecord struct {
	ID           string    `json:"id"`
	BusinessName string    `json:"businessName"`
	ContactEmail string    `json:"contactEmail"`
	Payload      []byte    `json:"-"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Snapshot is the save-and-continue artifact.
type Snapshot struct {
	Answers            AnswerSet            `json:"answers"`
	ConditionalAnswers ConditionalAnswerSet `json:"conditionalAnswers"`
	CurrentQuestion    int                  `json:"currentQuestion"`
	Timestamp          time.Time            `json:"timestamp"`
}

// Export is the downloadable document produced on completion.
type Export struct {
	Answers            AnswerSet            `json:"answers"`
	ConditionalAnswers ConditionalAnswerSet `json:"conditionalAnswers"`
	ExportedAt         time.Time            `json:"exportedAt"`
	Version            string               `json:"version"`
}
