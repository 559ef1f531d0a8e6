package catalog

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kokos-intake/internal/models"
)

func TestDefault_Shape(t *testing.T) {
	c := Default()

	assert.Equal(t, 38, c.Len())
	assert.Len(t, c.Groups(), 6)

	last, ok := c.GroupAt(37)
	require.True(t, ok)
	assert.Equal(t, "setup", last.ID)

	i, ok := c.Index("kvkk")
	require.True(t, ok)
	assert.Equal(t, 36, i)

	f, ok := c.Lookup("cmsType")
	require.True(t, ok)
	assert.True(t, f.Required)
	assert.Equal(t, KindShortText, f.Input.Kind())
}

func TestDefault_Triggers(t *testing.T) {
	c := Default()

	tests := []struct {
		id    string
		value models.Value
		want  bool
	}{
		{"whatsappActive", models.Text("Evet"), true},
		{"whatsappActive", models.Text("Hayır"), false},
		{"googleBusiness", models.Text("https://g.page/acme"), true},
		{"googleBusiness", models.Text("yok"), false},
		{"googleBusiness", models.Text("Hayır"), false},
		{"googleBusiness", models.Text(""), false},
		{"website", models.Text("acme.com / Hostinger"), true},
		{"paymentNeeds", models.List("Havale", "İyzico/Stripe"), true},
		{"paymentNeeds", models.List("Havale"), false},
	}

	for _, tt := range tests {
		t.Run(tt.id+"/"+tt.value.String(), func(t *testing.T) {
			q, ok := c.Lookup(tt.id)
			require.True(t, ok)
			require.NotNil(t, q.Conditional)
			assert.Equal(t, tt.want, q.Conditional.Trigger.Satisfied(tt.value))
		})
	}
}

func TestTriggers(t *testing.T) {
	assert.True(t, AlwaysShow{}.Satisfied(models.Text("")))

	assert.False(t, EqualsLiteral{Value: "Evet"}.Satisfied(models.List("Evet")))
	assert.True(t, ContainsLiteral{Value: "Evet"}.Satisfied(models.Text("Evet")))

	custom := NonEmptyAndNotNegative{Negatives: []string{"none"}}
	assert.True(t, custom.Satisfied(models.Text("yok")))
	assert.False(t, custom.Satisfied(models.Text("none")))
	assert.True(t, custom.Satisfied(models.List("x")))
	assert.False(t, custom.Satisfied(models.List()))
}

func TestInputs_Check(t *testing.T) {
	tests := []struct {
		name     string
		input    Input
		value    models.Value
		required bool
		wantErr  bool
	}{
		{"short text ok", ShortText{}, models.Text("Acme"), true, false},
		{"short text blank", ShortText{}, models.Text("  "), false, true},
		{"short text list", ShortText{}, models.List("a"), true, true},
		{"long text optional blank", LongText{}, models.Text(""), false, false},
		{"long text required blank", LongText{}, models.Text(""), true, true},
		{"select option", SingleSelect{Options: []string{"Evet", "Hayır"}}, models.Text("Evet"), true, false},
		{"select unknown", SingleSelect{Options: []string{"Evet", "Hayır"}}, models.Text("Belki"), true, true},
		{"multi ok", MultiSelect{Options: []string{"a", "b"}}, models.List("b", "a"), true, false},
		{"multi empty", MultiSelect{Options: []string{"a", "b"}}, models.List(), true, true},
		{"multi scalar", MultiSelect{Options: []string{"a", "b"}}, models.Text("a"), true, true},
		{"multi duplicate", MultiSelect{Options: []string{"a", "b"}}, models.List("a", "a"), true, true},
		{"multi unknown", MultiSelect{Options: []string{"a", "b"}}, models.List("c"), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Check(tt.value, tt.required)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidValue))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNew_RejectsBadGroups(t *testing.T) {
	qs := []Question{
		{ID: "a", Group: 0, Input: ShortText{}},
		{ID: "b", Group: 1, Input: ShortText{}},
	}

	_, err := New([]Group{{ID: "g0", From: 0, To: 0}}, qs)
	assert.True(t, errors.Is(err, ErrInvalidCatalog), "uncovered question")

	_, err = New([]Group{{ID: "g0", From: 0, To: 0}, {ID: "g1", From: 2, To: 2}}, qs)
	assert.True(t, errors.Is(err, ErrInvalidCatalog), "gap between groups")

	_, err = New([]Group{{ID: "g0", From: 0, To: 1}}, qs)
	assert.True(t, errors.Is(err, ErrInvalidCatalog), "question group index mismatch")

	_, err = New([]Group{{ID: "g0", From: 0, To: 0}, {ID: "g1", From: 1, To: 1}}, qs)
	assert.NoError(t, err)
}

func TestNew_RejectsDuplicateIDs(t *testing.T) {
	qs := []Question{
		{ID: "a", Input: SingleSelect{Options: []string{"x"}}, Conditional: &Conditional{
			Trigger:   AlwaysShow{},
			FollowUps: []Question{{ID: "a", Input: ShortText{}}},
		}},
	}
	_, err := New([]Group{{ID: "g", From: 0, To: 0}}, qs)
	assert.True(t, errors.Is(err, ErrInvalidCatalog))
}

func TestNew_RejectsSelectWithoutOptions(t *testing.T) {
	_, err := New([]Group{{ID: "g", From: 0, To: 0}}, []Question{{ID: "a", Input: SingleSelect{}}})
	assert.True(t, errors.Is(err, ErrInvalidCatalog))
}

func TestParse_RejectsOptionsOnText(t *testing.T) {
	doc := `
groups:
  - {id: g, label: G, range: [0, 0]}
questions:
  - id: name
    group: 0
    label: Name
    type: text
    options: [a, b]
    required: true
`
	_, err := Parse([]byte(doc))
	assert.True(t, errors.Is(err, ErrInvalidCatalog))
}

func TestParse_FollowUpsAreRequired(t *testing.T) {
	doc := `
groups:
  - {id: g, label: G, range: [0, 0]}
questions:
  - id: site
    group: 0
    label: Site
    type: text
    skip: true
    conditional:
      trigger: {kind: non-empty}
      followUps:
        - {id: cms, label: CMS, type: text}
`
	c, err := Parse([]byte(doc))
	require.NoError(t, err)

	q := c.Question(0)
	require.NotNil(t, q.Conditional)
	assert.Equal(t, NonEmptyAndNotNegative{}, q.Conditional.Trigger)
	assert.True(t, q.Conditional.FollowUps[0].Required)
	assert.False(t, q.Conditional.Trigger.Satisfied(models.Text("yok")))
}

func TestMarshal_RoundTrip(t *testing.T) {
	orig := Default()

	data, err := Marshal(orig)
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)

	if diff := cmp.Diff(orig.Questions(), parsed.Questions()); diff != "" {
		t.Errorf("questions differ after round trip (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(orig.Groups(), parsed.Groups()); diff != "" {
		t.Errorf("groups differ after round trip (-want +got):\n%s", diff)
	}
}
