// Package catalog holds the immutable question definitions that drive the
// intake wizard: typed inputs, conditional follow-ups and progress groups.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidCatalog wraps every structural problem found while building a
// catalog.
var ErrInvalidCatalog = errors.New("INVALID_CATALOG")

type Question struct {
	ID          string
	Group       int
	Label       string
	Input       Input
	Required    bool
	Skippable   bool
	LogMessage  string
	Conditional *Conditional
}

// Conditional lists follow-up questions asked only when Trigger matches the
// parent answer.
type Conditional struct {
	Trigger   Trigger
	FollowUps []Question
}

// Group is an inclusive index range over the flat question list.
type Group struct {
	ID    string
	Label string
	Icon  string
	From  int
	To    int
}

func (g Group) Contains(i int) bool { return i >= g.From && i <= g.To }

func (g Group) Size() int { return g.To - g.From + 1 }

// Catalog is safe for concurrent use; nothing mutates it after New.
type Catalog struct {
	groups    []Group
	questions []Question
	index     map[string]int
}

// New validates and freezes a catalog.
func New(groups []Group, questions []Question) (*Catalog, error) {
	c := &Catalog{
		groups:    append([]Group(nil), groups...),
		questions: append([]Question(nil), questions...),
		index:     make(map[string]int, len(questions)),
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNew panics on an invalid catalog. Intended for package-level defaults.
func MustNew(groups []Group, questions []Question) *Catalog {
	c, err := New(groups, questions)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) validate() error {
	if len(c.questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrInvalidCatalog)
	}

	ids := make(map[string]struct{})
	claim := func(id string) error {
		if id == "" {
			return fmt.Errorf("%w: question without id", ErrInvalidCatalog)
		}
		if _, dup := ids[id]; dup {
			return fmt.Errorf("%w: duplicate question id %q", ErrInvalidCatalog, id)
		}
		ids[id] = struct{}{}
		return nil
	}

	for i, q := range c.questions {
		if err := claim(q.ID); err != nil {
			return err
		}
		if err := checkQuestion(q); err != nil {
			return err
		}
		c.index[q.ID] = i

		if q.Conditional == nil {
			continue
		}
		if q.Conditional.Trigger == nil {
			return fmt.Errorf("%w: %s: conditional without trigger", ErrInvalidCatalog, q.ID)
		}
		if len(q.Conditional.FollowUps) == 0 {
			return fmt.Errorf("%w: %s: conditional without follow-ups", ErrInvalidCatalog, q.ID)
		}
		for _, f := range q.Conditional.FollowUps {
			if err := claim(f.ID); err != nil {
				return err
			}
			if err := checkQuestion(f); err != nil {
				return err
			}
			if f.Conditional != nil {
				return fmt.Errorf("%w: %s: follow-ups cannot branch", ErrInvalidCatalog, f.ID)
			}
		}
	}

	return c.validateGroups()
}

func checkQuestion(q Question) error {
	if q.Input == nil {
		return fmt.Errorf("%w: %s: missing input", ErrInvalidCatalog, q.ID)
	}
	switch in := q.Input.(type) {
	case SingleSelect:
		if len(in.Options) == 0 {
			return fmt.Errorf("%w: %s: select without options", ErrInvalidCatalog, q.ID)
		}
	case MultiSelect:
		if len(in.Options) == 0 {
			return fmt.Errorf("%w: %s: multi-select without options", ErrInvalidCatalog, q.ID)
		}
	}
	return nil
}

func (c *Catalog) validateGroups() error {
	if len(c.groups) == 0 {
		return fmt.Errorf("%w: no groups", ErrInvalidCatalog)
	}
	next := 0
	for i, g := range c.groups {
		if g.From != next {
			return fmt.Errorf("%w: group %q starts at %d, want %d", ErrInvalidCatalog, g.ID, g.From, next)
		}
		if g.To < g.From {
			return fmt.Errorf("%w: group %q has an empty range", ErrInvalidCatalog, g.ID)
		}
		for idx := g.From; idx <= g.To && idx < len(c.questions); idx++ {
			if c.questions[idx].Group != i {
				return fmt.Errorf("%w: question %q is in group %d but positioned in %q",
					ErrInvalidCatalog, c.questions[idx].ID, c.questions[idx].Group, g.ID)
			}
		}
		next = g.To + 1
	}
	if next != len(c.questions) {
		return fmt.Errorf("%w: groups cover %d of %d questions", ErrInvalidCatalog, next, len(c.questions))
	}
	return nil
}

func (c *Catalog) Len() int { return len(c.questions) }

// Question returns the question at position i. It panics when i is out of range.
func (c *Catalog) Question(i int) Question { return c.questions[i] }

func (c *Catalog) Questions() []Question {
	return append([]Question(nil), c.questions...)
}

func (c *Catalog) Groups() []Group {
	return append([]Group(nil), c.groups...)
}

// Index returns the position of a top-level question id.
func (c *Catalog) Index(id string) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}

// GroupAt returns the group covering position i.
func (c *Catalog) GroupAt(i int) (Group, bool) {
	for _, g := range c.groups {
		if g.Contains(i) {
			return g, true
		}
	}
	return Group{}, false
}

// Lookup finds a question or follow-up by id.
func (c *Catalog) Lookup(id string) (Question, bool) {
	if i, ok := c.index[id]; ok {
		return c.questions[i], true
	}
	for _, q := range c.questions {
		if q.Conditional == nil {
			continue
		}
		for _, f := range q.Conditional.FollowUps {
			if f.ID == id {
				return f, true
			}
		}
	}
	return Question{}, false
}

func (q Question) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.doc())
}

func (g Group) MarshalJSON() ([]byte, error) {
	return json.Marshal(groupDoc{ID: g.ID, Label: g.Label, Icon: g.Icon, Range: [2]int{g.From, g.To}})
}
