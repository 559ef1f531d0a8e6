package catalog

import "kokos-intake/internal/models"

// DefaultNegatives are the answers that mean "no" for free-text link fields.
var DefaultNegatives = []string{"yok", "Hayır"}

// Trigger decides whether a parent answer opens its follow-up questions.
type Trigger interface {
	Satisfied(v models.Value) bool
	doc() triggerDoc
}

const (
	triggerAlways   = "always"
	triggerEquals   = "equals"
	triggerContains = "contains"
	triggerNonEmpty = "non-empty"
)

// AlwaysShow opens the follow-ups for any recorded answer.
type AlwaysShow struct{}

// EqualsLiteral matches a scalar answer equal to Value.
type EqualsLiteral struct {
	Value string
}

// ContainsLiteral matches a list answer holding Value, or a scalar equal to it.
type ContainsLiteral struct {
	Value string
}

// NonEmptyAndNotNegative matches any non-empty answer that is not one of the
// negative literals.
type NonEmptyAndNotNegative struct {
	Negatives []string
}

func (AlwaysShow) Satisfied(models.Value) bool { return true }

func (t EqualsLiteral) Satisfied(v models.Value) bool {
	return !v.IsList() && v.Scalar() == t.Value
}

func (t ContainsLiteral) Satisfied(v models.Value) bool {
	return v.Contains(t.Value)
}

func (t NonEmptyAndNotNegative) Satisfied(v models.Value) bool {
	if v.IsEmpty() {
		return false
	}
	if v.IsList() {
		return true
	}
	return !contains(t.negatives(), v.Scalar())
}

func (t NonEmptyAndNotNegative) negatives() []string {
	if len(t.Negatives) == 0 {
		return DefaultNegatives
	}
	return t.Negatives
}

func (AlwaysShow) doc() triggerDoc { return triggerDoc{Kind: triggerAlways} }

func (t EqualsLiteral) doc() triggerDoc {
	return triggerDoc{Kind: triggerEquals, Value: t.Value}
}

func (t ContainsLiteral) doc() triggerDoc {
	return triggerDoc{Kind: triggerContains, Value: t.Value}
}

func (t NonEmptyAndNotNegative) doc() triggerDoc {
	return triggerDoc{Kind: triggerNonEmpty, Negatives: append([]string(nil), t.Negatives...)}
}
