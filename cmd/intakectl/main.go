// Command intakectl runs the intake wizard in a terminal and operates on the
// intake datastore.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"kokos-intake/internal/common/config"
	apperrors "kokos-intake/internal/common/errors"
	"kokos-intake/internal/common/logger"
	"kokos-intake/internal/intake/catalog"
)

var (
	configPath  string
	catalogPath string
	verbose     bool
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	groupStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var rootCmd = &cobra.Command{
	Use:           "intakectl",
	Short:         "KÖK-OS business intake tooling",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: configs/config.yaml lookup)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "question catalog YAML (default: built-in catalog)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(questionsCmd, validateCatalogCmd, runCmd, submitCmd, checkDBCmd, showCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("error: "+describeError(err)))
		os.Exit(1)
	}
}

// describeError spells out StandardErrors, whose Error() omits the details.
func describeError(err error) string {
	stdErr, ok := apperrors.AsStandardError(err)
	if !ok {
		return err.Error()
	}
	if stdErr.Details == "" {
		return fmt.Sprintf("%s [%s]", stdErr.Message, stdErr.Code)
	}
	return fmt.Sprintf("%s [%s]: %s", stdErr.Message, stdErr.Code, stdErr.Details)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

func newLogger() logger.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.NewStructured(level, "console")
}

func loadCatalog() (*catalog.Catalog, error) {
	if catalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(catalogPath)
}
