package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"kokos-intake/internal/intake/catalog"
	"kokos-intake/internal/intake/summary"
	"kokos-intake/internal/intake/wizard"
	"kokos-intake/internal/models"
)

const (
	cmdBack = ":back"
	cmdSkip = ":skip"
	cmdSave = ":save"
	cmdQuit = ":quit"
)

var errQuit = errors.New("quit")

var (
	runOut    string
	runDraft  string
	runResume string
	runSubmit bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Answer the intake questionnaire interactively",
	Long: `Walks through the catalog one question at a time.

Commands at the prompt:
  :back   previous question
  :skip   skip an optional question
  :save   write a draft and continue
  :quit   write a draft and exit

Select questions accept the option number or its text; multi-select
questions take a comma separated list.`,
	RunE: runWizard,
}

func init() {
	runCmd.Flags().StringVar(&runOut, "out", ".", "directory for the completed export")
	runCmd.Flags().StringVar(&runDraft, "draft", "intake-draft.json", "draft file written by :save and :quit")
	runCmd.Flags().StringVar(&runResume, "resume", "", "continue from a draft file")
	runCmd.Flags().BoolVar(&runSubmit, "submit", false, "submit the completed intake to the datastore")
}

func runWizard(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	engine := wizard.New(cat)
	if runResume != "" {
		var snap models.Snapshot
		if err := readJSON(runResume, &snap); err != nil {
			return err
		}
		if engine, err = wizard.Restore(cat, snap); err != nil {
			return fmt.Errorf("restore %s: %w", runResume, err)
		}
	}

	p := &prompter{
		engine: engine,
		in:     bufio.NewScanner(cmd.InOrStdin()),
		out:    cmd.OutOrStdout(),
		save: func(snap models.Snapshot) error {
			return writeJSON(runDraft, snap)
		},
	}
	if err := p.loop(); err != nil {
		if errors.Is(err, errQuit) {
			fmt.Fprintln(p.out, groupStyle.Render("Taslak kaydedildi: "+runDraft))
			return nil
		}
		return err
	}

	now := time.Now()
	export, err := engine.Export(now)
	if err != nil {
		return err
	}
	path := filepath.Join(runOut, wizard.ExportFilename(export.Answers.Text(models.FieldBusinessName), now))
	if err := writeJSON(path, export); err != nil {
		return err
	}
	fmt.Fprintln(p.out, okStyle.Render("Dışa aktarıldı: "+path))

	printSummary(p.out, summary.Build(export.Answers, export.ConditionalAnswers))

	if !runSubmit {
		return nil
	}
	payload, err := engine.Payload(now)
	if err != nil {
		return err
	}
	return submitPayload(cmd.Context(), cmd.OutOrStdout(), payload)
}

// prompter drives an engine from line-oriented input.
type prompter struct {
	engine *wizard.Engine
	in     *bufio.Scanner
	out    io.Writer
	save   func(models.Snapshot) error
}

// loop returns nil once the wizard is complete and errQuit on :quit.
func (p *prompter) loop() error {
	for {
		q, ok := p.engine.Current()
		if !ok {
			return nil
		}
		p.ask(q)

		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return err
			}
			return io.ErrUnexpectedEOF
		}
		line := strings.TrimSpace(p.in.Text())

		if err := p.handle(q, line); err != nil {
			if errors.Is(err, errQuit) {
				return err
			}
			fmt.Fprintln(p.out, errStyle.Render("  ✗ "+err.Error()))
		}
	}
}

func (p *prompter) handle(q catalog.Question, line string) error {
	switch line {
	case cmdBack:
		return p.engine.Back()
	case cmdSkip:
		return p.engine.Skip()
	case cmdSave, cmdQuit:
		if err := p.save(p.engine.SaveForLater()); err != nil {
			return err
		}
		if line == cmdQuit {
			return errQuit
		}
		fmt.Fprintln(p.out, groupStyle.Render("  taslak kaydedildi"))
		return nil
	}

	v := parseAnswer(q.Input, line)
	if p.engine.InConditional() {
		return p.engine.AnswerConditional(v)
	}
	return p.engine.Answer(q.ID, v)
}

func (p *prompter) ask(q catalog.Question) {
	g := p.engine.Group()
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, groupStyle.Render(fmt.Sprintf("%s %s · %d/%d · %%%.0f",
		g.Icon, g.Label, p.engine.CurrentIndex()+1, p.engine.Catalog().Len(), p.engine.Progress()*100)))

	label := q.Label
	if p.engine.InConditional() {
		label = "↳ " + label
	}
	fmt.Fprintln(p.out, titleStyle.Render(label))

	for i, opt := range catalog.Options(q.Input) {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, opt)
	}
	if prev, ok := p.engine.PendingInput(); ok {
		fmt.Fprintln(p.out, groupStyle.Render("  önceki cevap: "+prev.String()))
	}
	if q.Skippable {
		fmt.Fprintln(p.out, groupStyle.Render("  (:skip ile geçilebilir)"))
	}
	fmt.Fprint(p.out, "> ")
}

// parseAnswer turns a prompt line into a value for in. Option numbers are
// 1-based; anything else is taken literally and left to the engine to check.
func parseAnswer(in catalog.Input, line string) models.Value {
	opts := catalog.Options(in)
	switch in.Kind() {
	case catalog.KindSingleSelect:
		return models.Text(resolveOption(opts, line))
	case catalog.KindMultiSelect:
		var items []string
		for _, part := range strings.Split(line, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			items = append(items, resolveOption(opts, part))
		}
		return models.List(items...)
	default:
		return models.Text(line)
	}
}

func resolveOption(opts []string, s string) string {
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= len(opts) {
		return opts[n-1]
	}
	return s
}

func printSummary(w io.Writer, s summary.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Kurulum Özeti: "+s.BusinessName))
	for _, c := range s.AutomationCandidates {
		fmt.Fprintf(w, "  • %s: %s\n", c.Name, c.Description)
	}
	if len(s.Checklist) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Yapılacaklar"))
		for _, item := range s.Checklist {
			fmt.Fprintf(w, "  ☐ %s\n", item)
		}
	}
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
