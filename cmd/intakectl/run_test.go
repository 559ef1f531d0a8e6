package main

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kokos-intake/internal/intake/catalog"
	"kokos-intake/internal/intake/wizard"
	"kokos-intake/internal/models"
)

func smallCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(
		[]catalog.Group{{ID: "all", Label: "All", From: 0, To: 2}},
		[]catalog.Question{
			{ID: "businessName", Label: "Name", Input: catalog.ShortText{}, Required: true},
			{
				ID:       "channels",
				Label:    "Channels",
				Input:    catalog.MultiSelect{Options: []string{"WhatsApp", "Instagram", "E-posta"}},
				Required: true,
				Conditional: &catalog.Conditional{
					Trigger: catalog.ContainsLiteral{Value: "WhatsApp"},
					FollowUps: []catalog.Question{
						{ID: "waBusiness", Label: "Business?", Input: catalog.SingleSelect{Options: []string{"Evet", "Hayır"}}, Required: true},
					},
				},
			},
			{ID: "notes", Label: "Notes", Input: catalog.LongText{}, Skippable: true},
		},
	)
	require.NoError(t, err)
	return c
}

func newPrompter(t *testing.T, input string) (*prompter, *bytes.Buffer, *[]models.Snapshot) {
	t.Helper()
	var out bytes.Buffer
	var saved []models.Snapshot
	return &prompter{
		engine: wizard.New(smallCatalog(t)),
		in:     bufio.NewScanner(strings.NewReader(input)),
		out:    &out,
		save: func(s models.Snapshot) error {
			saved = append(saved, s)
			return nil
		},
	}, &out, &saved
}

func TestPrompter_CompletesWithOptionNumbers(t *testing.T) {
	p, _, _ := newPrompter(t, "Acme\n1, 3\n1\n:skip\n")

	require.NoError(t, p.loop())
	require.True(t, p.engine.Complete())

	answers := p.engine.Answers()
	assert.Equal(t, "Acme", answers.Text("businessName"))
	assert.Equal(t, []string{"WhatsApp", "E-posta"}, answers["channels"].Items())
	assert.Equal(t, models.Missing, answers.Text("notes"))
	assert.Equal(t, "Evet", p.engine.ConditionalAnswers().Text("waBusiness"))
}

func TestPrompter_InvalidAnswerIsReportedAndRetried(t *testing.T) {
	p, out, _ := newPrompter(t, "\nAcme\n:back\n:back\nAcme Ltd\n2\nnotes\n")

	require.NoError(t, p.loop())
	assert.Equal(t, "Acme Ltd", p.engine.Answers().Text("businessName"))
	assert.Contains(t, out.String(), "✗")
	assert.Contains(t, out.String(), wizard.ErrAtStart.Error())
}

func TestPrompter_QuitSavesDraft(t *testing.T) {
	p, _, saved := newPrompter(t, "Acme\n:save\n:quit\n")

	err := p.loop()
	assert.ErrorIs(t, err, errQuit)
	require.Len(t, *saved, 2)
	assert.Equal(t, 1, (*saved)[1].CurrentQuestion)
	assert.Equal(t, "Acme", (*saved)[1].Answers.Text("businessName"))
}

func TestPrompter_EOFBeforeCompletion(t *testing.T) {
	p, _, _ := newPrompter(t, "Acme\n")
	assert.ErrorIs(t, p.loop(), io.ErrUnexpectedEOF)
}

func TestParseAnswer(t *testing.T) {
	single := catalog.SingleSelect{Options: []string{"Yok", "Temel"}}
	multi := catalog.MultiSelect{Options: []string{"A", "B", "C"}}

	tests := []struct {
		name string
		in   catalog.Input
		line string
		want models.Value
	}{
		{"single by number", single, "2", models.Text("Temel")},
		{"single by text", single, "Yok", models.Text("Yok")},
		{"single out of range stays literal", single, "7", models.Text("7")},
		{"multi mixed", multi, "1, C,,", models.List("A", "C")},
		{"short text", catalog.ShortText{}, "3", models.Text("3")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseAnswer(tt.in, tt.line)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}
