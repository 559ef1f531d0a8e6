package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type catalogDoc struct {
	Groups    []groupDoc    `yaml:"groups" json:"groups"`
	Questions []questionDoc `yaml:"questions" json:"questions"`
}

type groupDoc struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	Icon  string `yaml:"icon,omitempty" json:"icon,omitempty"`
	Range [2]int `yaml:"range,flow" json:"range"`
}

type questionDoc struct {
	ID          string          `yaml:"id" json:"id"`
	Group       int             `yaml:"group" json:"group"`
	Label       string          `yaml:"label" json:"label"`
	Type        Kind            `yaml:"type" json:"type"`
	Placeholder string          `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Options     []string        `yaml:"options,omitempty,flow" json:"options,omitempty"`
	Required    bool            `yaml:"required" json:"required"`
	Skip        bool            `yaml:"skip,omitempty" json:"skip,omitempty"`
	Log         string          `yaml:"log,omitempty" json:"log,omitempty"`
	Conditional *conditionalDoc `yaml:"conditional,omitempty" json:"conditional,omitempty"`
}

type conditionalDoc struct {
	Trigger   triggerDoc    `yaml:"trigger" json:"trigger"`
	FollowUps []questionDoc `yaml:"followUps" json:"followUps"`
}

type triggerDoc struct {
	Kind      string   `yaml:"kind" json:"kind"`
	Value     string   `yaml:"value,omitempty" json:"value,omitempty"`
	Negatives []string `yaml:"negatives,omitempty,flow" json:"negatives,omitempty"`
}

// LoadFile reads a YAML (or JSON) catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML document into a validated catalog. JSON input is
// accepted as well.
func Parse(data []byte) (*Catalog, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	groups := make([]Group, 0, len(doc.Groups))
	for _, g := range doc.Groups {
		groups = append(groups, Group{ID: g.ID, Label: g.Label, Icon: g.Icon, From: g.Range[0], To: g.Range[1]})
	}

	questions := make([]Question, 0, len(doc.Questions))
	for _, qd := range doc.Questions {
		q, err := qd.build(false)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	return New(groups, questions)
}

// Marshal renders the catalog as YAML in the same format Parse accepts.
func Marshal(c *Catalog) ([]byte, error) {
	doc := catalogDoc{
		Groups:    make([]groupDoc, 0, len(c.groups)),
		Questions: make([]questionDoc, 0, len(c.questions)),
	}
	for _, g := range c.groups {
		doc.Groups = append(doc.Groups, groupDoc{ID: g.ID, Label: g.Label, Icon: g.Icon, Range: [2]int{g.From, g.To}})
	}
	for _, q := range c.questions {
		doc.Questions = append(doc.Questions, q.doc())
	}
	return yaml.Marshal(doc)
}

func (q Question) doc() questionDoc {
	var d questionDoc
	if q.Input != nil {
		d = q.Input.doc()
	}
	d.ID = q.ID
	d.Group = q.Group
	d.Label = q.Label
	d.Required = q.Required
	d.Skip = q.Skippable
	d.Log = q.LogMessage

	if q.Conditional != nil {
		cd := &conditionalDoc{FollowUps: make([]questionDoc, 0, len(q.Conditional.FollowUps))}
		if q.Conditional.Trigger != nil {
			cd.Trigger = q.Conditional.Trigger.doc()
		}
		for _, f := range q.Conditional.FollowUps {
			cd.FollowUps = append(cd.FollowUps, f.doc())
		}
		d.Conditional = cd
	}
	return d
}

func (d questionDoc) build(followUp bool) (Question, error) {
	in, err := d.input()
	if err != nil {
		return Question{}, err
	}

	q := Question{
		ID:         d.ID,
		Group:      d.Group,
		Label:      d.Label,
		Input:      in,
		Required:   d.Required,
		Skippable:  d.Skip,
		LogMessage: d.Log,
	}
	if followUp {
		q.Required = true
		q.Skippable = false
	}

	if d.Conditional != nil {
		if followUp {
			return Question{}, fmt.Errorf("%w: %s: follow-ups cannot branch", ErrInvalidCatalog, d.ID)
		}
		trigger, err := d.Conditional.Trigger.build()
		if err != nil {
			return Question{}, fmt.Errorf("%s: %w", d.ID, err)
		}
		cond := &Conditional{Trigger: trigger}
		for _, fd := range d.Conditional.FollowUps {
			fd.Group = d.Group
			f, err := fd.build(true)
			if err != nil {
				return Question{}, err
			}
			cond.FollowUps = append(cond.FollowUps, f)
		}
		q.Conditional = cond
	}
	return q, nil
}

func (d questionDoc) input() (Input, error) {
	switch d.Type {
	case KindShortText, KindLongText:
		if len(d.Options) > 0 {
			return nil, fmt.Errorf("%w: %s: %s input cannot have options", ErrInvalidCatalog, d.ID, d.Type)
		}
		if d.Type == KindShortText {
			return ShortText{Placeholder: d.Placeholder}, nil
		}
		return LongText{Placeholder: d.Placeholder}, nil
	case KindSingleSelect:
		return SingleSelect{Options: append([]string(nil), d.Options...)}, nil
	case KindMultiSelect:
		return MultiSelect{Options: append([]string(nil), d.Options...)}, nil
	default:
		return nil, fmt.Errorf("%w: %s: unknown input type %q", ErrInvalidCatalog, d.ID, d.Type)
	}
}

func (d triggerDoc) build() (Trigger, error) {
	switch d.Kind {
	case triggerAlways:
		return AlwaysShow{}, nil
	case triggerEquals:
		return EqualsLiteral{Value: d.Value}, nil
	case triggerContains:
		return ContainsLiteral{Value: d.Value}, nil
	case triggerNonEmpty:
		return NonEmptyAndNotNegative{Negatives: append([]string(nil), d.Negatives...)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown trigger kind %q", ErrInvalidCatalog, d.Kind)
	}
}
