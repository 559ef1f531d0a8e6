// Package wizard implements the intake questionnaire state machine. All
// operations are synchronous and validate before they mutate, so a rejected
// call leaves the state untouched.
//
// An Engine is owned by a single session and is not safe for concurrent use.
package wizard

import (
	"fmt"
	"time"

	"kokos-intake/internal/intake/catalog"
	"kokos-intake/internal/models"
)

type Engine struct {
	cat   *catalog.Catalog
	now   func() time.Time
	state State
}

type Option func(*Engine)

// WithClock overrides the clock used for log and snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New starts a fresh wizard at the first question.
func New(cat *catalog.Catalog, opts ...Option) *Engine {
	e := newEngine(cat, opts)
	e.state = State{
		Answers:            models.AnswerSet{},
		ConditionalAnswers: models.ConditionalAnswerSet{},
	}
	e.log(msgBoot, LogSystem)
	e.log(msgCollect, LogInfo)
	return e
}

func newEngine(cat *catalog.Catalog, opts []Option) *Engine {
	e := &Engine{cat: cat, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Restore rebuilds an engine from a save-and-continue snapshot.
func Restore(cat *catalog.Catalog, snap models.Snapshot, opts ...Option) (*Engine, error) {
	if snap.CurrentQuestion < 0 || snap.CurrentQuestion >= cat.Len() {
		return nil, fmt.Errorf("%w: question index %d out of range [0,%d)", ErrInvalidState, snap.CurrentQuestion, cat.Len())
	}

	e := New(cat, opts...)
	e.state.CurrentIndex = snap.CurrentQuestion
	if snap.Answers != nil {
		e.state.Answers = snap.Answers.Clone()
	}
	if snap.ConditionalAnswers != nil {
		e.state.ConditionalAnswers = snap.ConditionalAnswers.Clone()
	}
	e.restorePending()
	return e, nil
}

// Resume rebuilds an engine from a full state, checking its invariants.
func Resume(cat *catalog.Catalog, st State, opts ...Option) (*Engine, error) {
	if st.CurrentIndex < 0 || st.CurrentIndex >= cat.Len() {
		return nil, fmt.Errorf("%w: question index %d out of range [0,%d)", ErrInvalidState, st.CurrentIndex, cat.Len())
	}
	if st.ConditionalIndex != nil {
		q := cat.Question(st.CurrentIndex)
		if st.Complete || q.Conditional == nil {
			return nil, fmt.Errorf("%w: conditional branch active on %q", ErrInvalidState, q.ID)
		}
		if ci := *st.ConditionalIndex; ci < 0 || ci >= len(q.Conditional.FollowUps) {
			return nil, fmt.Errorf("%w: follow-up index %d out of range for %q", ErrInvalidState, ci, q.ID)
		}
	}

	e := newEngine(cat, opts)
	e.state = st.clone()
	if e.state.Answers == nil {
		e.state.Answers = models.AnswerSet{}
	}
	if e.state.ConditionalAnswers == nil {
		e.state.ConditionalAnswers = models.ConditionalAnswerSet{}
	}
	return e, nil
}

// Answer records the answer to the current question. When the question's
// trigger matches, the engine enters its follow-up branch instead of
// advancing.
func (e *Engine) Answer(questionID string, v models.Value) error {
	if e.state.Complete {
		return ErrComplete
	}
	if e.state.ConditionalIndex != nil {
		return ErrConditionalActive
	}

	q := e.cat.Question(e.state.CurrentIndex)
	if q.ID != questionID {
		return fmt.Errorf("%w: expected %q, got %q", ErrWrongQuestion, q.ID, questionID)
	}
	if err := q.Input.Check(v, q.Required); err != nil {
		return fmt.Errorf("%s: %w", q.ID, err)
	}

	e.state.Answers[q.ID] = v
	e.state.PendingInput = nil
	e.log(logMessage(q), LogSuccess)

	if q.Conditional != nil && q.Conditional.Trigger.Satisfied(v) {
		first := 0
		e.state.ConditionalIndex = &first
		return nil
	}

	e.advance()
	return nil
}

// AnswerConditional records the answer to the active follow-up question.
func (e *Engine) AnswerConditional(v models.Value) error {
	if e.state.Complete {
		return ErrComplete
	}
	if e.state.ConditionalIndex == nil {
		return ErrNoConditional
	}

	followUps := e.cat.Question(e.state.CurrentIndex).Conditional.FollowUps
	step := *e.state.ConditionalIndex
	f := followUps[step]
	if err := f.Input.Check(v, f.Required); err != nil {
		return fmt.Errorf("%s: %w", f.ID, err)
	}

	e.state.ConditionalAnswers[f.ID] = v
	e.state.PendingInput = nil
	e.log(fmt.Sprintf("%s: %s", f.Label, v.String()), LogInfo)

	if step < len(followUps)-1 {
		next := step + 1
		e.state.ConditionalIndex = &next
		return nil
	}

	e.state.ConditionalIndex = nil
	e.advance()
	return nil
}

// Skip records the missing marker for a skippable question and advances.
// It never opens a follow-up branch.
func (e *Engine) Skip() error {
	if e.state.Complete {
		return ErrComplete
	}
	if e.state.ConditionalIndex != nil {
		return ErrConditionalActive
	}

	q := e.cat.Question(e.state.CurrentIndex)
	if !q.Skippable {
		return fmt.Errorf("%w: %q", ErrNotSkippable, q.ID)
	}

	e.state.Answers[q.ID] = models.Text(models.Missing)
	e.state.PendingInput = nil
	e.log(fmt.Sprintf("%s: %s", q.Label, msgSkipped), LogWarning)
	e.advance()
	return nil
}

// Back steps to the previous follow-up, out of the active branch, or to the
// previous question. Recorded answers are kept.
func (e *Engine) Back() error {
	if e.state.Complete {
		return ErrComplete
	}

	if ci := e.state.ConditionalIndex; ci != nil {
		if *ci > 0 {
			prev := *ci - 1
			e.state.ConditionalIndex = &prev
		} else {
			e.state.ConditionalIndex = nil
		}
		e.restorePending()
		return nil
	}

	if e.state.CurrentIndex == 0 {
		return ErrAtStart
	}
	e.state.CurrentIndex--
	e.restorePending()
	return nil
}

func (e *Engine) advance() {
	if e.state.CurrentIndex < e.cat.Len()-1 {
		e.state.CurrentIndex++
		e.restorePending()
		return
	}
	e.state.Complete = true
	e.state.PendingInput = nil
	e.log(msgCollected, LogSuccess)
	e.log(msgSummary, LogSystem)
}

// restorePending exposes the previously recorded answer of the displayed
// question so a client can prefill its input.
func (e *Engine) restorePending() {
	e.state.PendingInput = nil
	q, ok := e.Current()
	if !ok {
		return
	}
	answers := e.state.Answers
	if e.state.ConditionalIndex != nil {
		answers = e.state.ConditionalAnswers
	}
	if v, ok := answers[q.ID]; ok {
		e.state.PendingInput = &v
	}
}

func (e *Engine) log(msg string, level LogLevel) {
	e.state.Logs = append(e.state.Logs, LogEntry{Message: msg, Level: level, Time: e.now()})
}

func logMessage(q catalog.Question) string {
	if q.LogMessage != "" {
		return q.LogMessage
	}
	return q.Label
}

// SaveForLater returns a snapshot and records the save in the log. Writing
// the snapshot somewhere is the caller's job.
func (e *Engine) SaveForLater() models.Snapshot {
	snap := e.Snapshot()
	e.log(msgSaved, LogSuccess)
	return snap
}

// Snapshot returns the save-and-continue artifact.
func (e *Engine) Snapshot() models.Snapshot {
	return models.Snapshot{
		Answers:            e.state.Answers.Clone(),
		ConditionalAnswers: e.state.ConditionalAnswers.Clone(),
		CurrentQuestion:    e.state.CurrentIndex,
		Timestamp:          e.now().UTC(),
	}
}

// State returns a deep copy of the full wizard state.
func (e *Engine) State() State { return e.state.clone() }

func (e *Engine) Catalog() *catalog.Catalog { return e.cat }

// Current returns the question to display: the active follow-up while
// branching, otherwise the question at the cursor. It reports false once the
// wizard is complete.
func (e *Engine) Current() (catalog.Question, bool) {
	if e.state.Complete {
		return catalog.Question{}, false
	}
	q := e.cat.Question(e.state.CurrentIndex)
	if ci := e.state.ConditionalIndex; ci != nil {
		return q.Conditional.FollowUps[*ci], true
	}
	return q, true
}

func (e *Engine) CurrentIndex() int { return e.state.CurrentIndex }

// ConditionalIndex reports the active follow-up sub-step, if any.
func (e *Engine) ConditionalIndex() (int, bool) {
	if e.state.ConditionalIndex == nil {
		return 0, false
	}
	return *e.state.ConditionalIndex, true
}

func (e *Engine) InConditional() bool { return e.state.ConditionalIndex != nil }

func (e *Engine) Complete() bool { return e.state.Complete }

// Progress is (currentIndex+1)/questionCount.
func (e *Engine) Progress() float64 {
	return float64(e.state.CurrentIndex+1) / float64(e.cat.Len())
}

// Group returns the group covering the cursor.
func (e *Engine) Group() catalog.Group {
	g, _ := e.cat.GroupAt(e.state.CurrentIndex)
	return g
}

// Groups reports per-group answer counts.
func (e *Engine) Groups() []GroupStatus {
	groups := e.cat.Groups()
	out := make([]GroupStatus, 0, len(groups))
	for _, g := range groups {
		answered := 0
		for idx := g.From; idx <= g.To; idx++ {
			if _, ok := e.state.Answers[e.cat.Question(idx).ID]; ok {
				answered++
			}
		}
		out = append(out, GroupStatus{
			ID:        g.ID,
			Label:     g.Label,
			Icon:      g.Icon,
			Answered:  answered,
			Total:     g.Size(),
			Active:    !e.state.Complete && g.Contains(e.state.CurrentIndex),
			Completed: e.state.Complete || e.state.CurrentIndex > g.To,
		})
	}
	return out
}

func (e *Engine) Answers() models.AnswerSet { return e.state.Answers.Clone() }

func (e *Engine) ConditionalAnswers() models.ConditionalAnswerSet {
	return e.state.ConditionalAnswers.Clone()
}

func (e *Engine) Logs() []LogEntry {
	return append([]LogEntry(nil), e.state.Logs...)
}

// PendingInput is the previously recorded answer of the displayed question.
func (e *Engine) PendingInput() (models.Value, bool) {
	if e.state.PendingInput == nil {
		return models.Value{}, false
	}
	return *e.state.PendingInput, true
}
