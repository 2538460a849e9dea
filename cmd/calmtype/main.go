// Package main provides the CLI entrypoint for calmtype.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/calmtype/internal/config"
	"github.com/verte-zerg/calmtype/internal/generator"
	"github.com/verte-zerg/calmtype/internal/model"
	"github.com/verte-zerg/calmtype/internal/source"
	"github.com/verte-zerg/calmtype/internal/stats"
	"github.com/verte-zerg/calmtype/internal/store"
	"github.com/verte-zerg/calmtype/internal/tui"
)

const (
	defaultWords       = 30
	defaultCaps        = 0.2
	defaultPunct       = 0.2
	defaultWeakTop     = 6
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultCurveWindow = 20
	defaultHistoryRows = 20
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := defaultPracticeConfig()
	rootCmd := &cobra.Command{
		Use:          "calmtype [file.txt]",
		Short:        "Calm typing practice in the terminal",
		Long:         "Practice typing a text file, or a passage drawn from your word list, without timers or pressure.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPractice(cmd, args, &cfg)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&cfg.WordListPath, "wordlist", cfg.WordListPath, "word list used when no file is given")
	flags.IntVar(&cfg.Words, "words", cfg.Words, "words per generated passage")
	flags.Float64Var(&cfg.CapsPct, "caps", cfg.CapsPct, "probability of a capitalized word (0-1)")
	flags.Float64Var(&cfg.PunctPct, "punct", cfg.PunctPct, "probability of trailing punctuation (0-1)")
	flags.BoolVar(&cfg.FocusWeak, "focus-weak", cfg.FocusWeak, "favor words with your weakest characters")
	flags.IntVar(&cfg.WeakTop, "weak-top", cfg.WeakTop, "number of weak characters to focus on")
	flags.Float64Var(&cfg.WeakFactor, "weak-factor", cfg.WeakFactor, "weight factor for weak characters")
	flags.IntVar(&cfg.WeakWindow, "weak-window", cfg.WeakWindow, "recent sessions used to find weak characters")
	flags.BoolVar(&cfg.History, "history", cfg.History, "save finished runs to the history database")
	flags.StringVar(&cfg.FinishMessage, "finish-message", cfg.FinishMessage, "mustache template shown after finishing")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newExportCmd())
	return rootCmd
}

func defaultPracticeConfig() model.Config {
	return model.Config{
		WordListPath: config.DefaultWordListPath(),
		Words:        defaultWords,
		CapsPct:      defaultCaps,
		PunctPct:     defaultPunct,
		WeakTop:      defaultWeakTop,
		WeakFactor:   defaultWeakFactor,
		WeakWindow:   defaultWeakWindow,
		History:      true,
	}
}

func runPractice(cmd *cobra.Command, args []string, cfg *model.Config) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFileConfig(cmd, cfg, fileCfg.Practice)
	if err := validateConfig(*cfg); err != nil {
		return err
	}

	var st *store.Store
	if cfg.History || cfg.FocusWeak {
		st, err = store.Open(config.DefaultDBPath())
		if err != nil {
			logErrf("history unavailable: %v\n", err)
			st = nil
		} else {
			defer func() {
				if cerr := st.Close(); cerr != nil {
					logErrf("failed to close db: %v\n", cerr)
				}
			}()
		}
	}

	var text source.Text
	if len(args) == 1 {
		text, err = source.LoadFile(args[0])
		if err != nil {
			return err
		}
	} else {
		text, err = generatePassage(cmd.Context(), *cfg, st)
		if err != nil {
			return err
		}
	}

	opts := tui.Options{Text: text, FinishMessage: cfg.FinishMessage}
	if st != nil && cfg.History {
		opts.Recorder = st
	}
	practice, err := tui.NewModel(opts)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	program := tea.NewProgram(practice, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// generatePassage builds the fallback text from the word list, biased toward
// weak characters when requested and history is available.
func generatePassage(ctx context.Context, cfg model.Config, st *store.Store) (source.Text, error) {
	path := expandHome(cfg.WordListPath)
	words, err := source.LoadWords(path)
	if err != nil {
		return source.Text{}, wordListLoadError(path, err)
	}

	opts := generator.Options{
		Words:      cfg.Words,
		CapsPct:    cfg.CapsPct,
		PunctPct:   cfg.PunctPct,
		WeakFactor: cfg.WeakFactor,
	}
	if cfg.FocusWeak && st != nil {
		aggs, err := st.GetWeakChars(ctx, cfg.WeakWindow)
		if err != nil {
			logErrf("failed to load weak chars: %v\n", err)
		} else {
			opts.Weak = stats.SelectWeakChars(aggs, cfg.WeakTop)
			if len(opts.Weak) == 0 {
				logErrln("no history for weak-char focus yet; using plain word choice")
			}
		}
	}

	body := source.Clean(generator.New().Passage(words, opts))
	if body == "" {
		return source.Text{}, source.ErrEmptyText
	}
	return source.Text{Body: body, Label: filepath.Base(path)}, nil
}

func applyFileConfig(cmd *cobra.Command, cfg *model.Config, file config.PracticeConfig) {
	applyConfig(cmd, "wordlist", &cfg.WordListPath, file.WordList)
	applyConfig(cmd, "words", &cfg.Words, file.Words)
	applyConfig(cmd, "caps", &cfg.CapsPct, file.CapsPct)
	applyConfig(cmd, "punct", &cfg.PunctPct, file.PunctPct)
	applyConfig(cmd, "focus-weak", &cfg.FocusWeak, file.FocusWeak)
	applyConfig(cmd, "weak-top", &cfg.WeakTop, file.WeakTop)
	applyConfig(cmd, "weak-factor", &cfg.WeakFactor, file.WeakFactor)
	applyConfig(cmd, "weak-window", &cfg.WeakWindow, file.WeakWindow)
	applyConfig(cmd, "history", &cfg.History, file.History)
	applyConfig(cmd, "finish-message", &cfg.FinishMessage, file.FinishMessage)
}

// applyConfig copies a file value into target unless the flag was set explicitly.
func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validateConfig(cfg model.Config) error {
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	if strings.TrimSpace(cfg.WordListPath) == "" {
		return fmt.Errorf("--wordlist must not be empty")
	}
	return nil
}

func wordListLoadError(path string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("no word list at %s\nPass a text file (calmtype notes.txt) or create the list with one word per line", path)
	}
	return fmt.Errorf("failed to load word list: %w", err)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := config.DefaultConfigPath()
			if err := ensureConfigFile(path); err != nil {
				return err
			}
			return openEditor(path)
		},
	}
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func openEditor(path string) error {
	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# calmtype configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# wordlist = %q
# words = %d              # Words per generated passage
# caps = %.2f             # Probability of a capitalized word (0-1)
# punct = %.2f            # Probability of trailing punctuation (0-1)
# focus-weak = false      # Favor words with your weakest characters
# weak-top = %d           # Number of weak characters to focus on
# weak-factor = %.1f      # Weight factor for weak characters
# weak-window = %d        # Recent sessions used to find weak characters
# history = true          # Save finished runs
# finish-message = """
# Done. {{wpm}} WPM at {{accuracy}}%% accuracy.
# """
`,
		config.DefaultWordListPath(),
		defaultWords,
		defaultCaps,
		defaultPunct,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
	)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
