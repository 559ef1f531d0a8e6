package api

import (
	"kokos-intake/internal/intake/catalog"
	"kokos-intake/internal/intake/wizard"
	"kokos-intake/internal/models"
)

// SessionView is what the client renders for one wizard step.
type SessionView struct {
	Session            models.IntakeSession        `json:"session"`
	Question           *catalog.Question           `json:"question,omitempty"`
	Conditional        bool                        `json:"conditional"`
	ConditionalStep    int                         `json:"conditionalStep,omitempty"`
	QuestionIndex      int                         `json:"questionIndex"`
	QuestionCount      int                         `json:"questionCount"`
	Progress           float64                     `json:"progress"`
	Groups             []wizard.GroupStatus        `json:"groups"`
	PendingInput       *models.Value               `json:"pendingInput,omitempty"`
	Logs               []wizard.LogEntry           `json:"logs"`
	Complete           bool                        `json:"complete"`
	Answers            models.AnswerSet            `json:"answers"`
	ConditionalAnswers models.ConditionalAnswerSet `json:"conditionalAnswers"`
}

func newSessionView(sess models.IntakeSession, eng *wizard.Engine) SessionView {
	v := SessionView{
		Session:            sess,
		QuestionIndex:      eng.CurrentIndex(),
		QuestionCount:      eng.Catalog().Len(),
		Progress:           eng.Progress(),
		Groups:             eng.Groups(),
		Logs:               eng.Logs(),
		Complete:           eng.Complete(),
		Answers:            eng.Answers(),
		ConditionalAnswers: eng.ConditionalAnswers(),
	}
	if q, ok := eng.Current(); ok {
		v.Question = &q
	}
	if step, ok := eng.ConditionalIndex(); ok {
		v.Conditional = true
		v.ConditionalStep = step
	}
	if p, ok := eng.PendingInput(); ok {
		v.PendingInput = &p
	}
	return v
}

type answerRequest struct {
	QuestionID string       `json:"questionId"`
	Value      models.Value `json:"value"`
}

type conditionalRequest struct {
	Value models.Value `json:"value"`
}

type resumeRequest struct {
	SessionID string           `json:"sessionId,omitempty"`
	Snapshot  *models.Snapshot `json:"snapshot,omitempty"`
}

type catalogResponse struct {
	Groups    []catalog.Group    `json:"groups"`
	Questions []catalog.Question `json:"questions"`
}
