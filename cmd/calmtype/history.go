package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/calmtype/internal/config"
	"github.com/verte-zerg/calmtype/internal/export"
	"github.com/verte-zerg/calmtype/internal/model"
	"github.com/verte-zerg/calmtype/internal/stats"
	"github.com/verte-zerg/calmtype/internal/statsui"
	"github.com/verte-zerg/calmtype/internal/store"
)

type statsFlags struct {
	source      string
	since       string
	last        int
	curveWindow int
	plain       bool
}

func (f statsFlags) config(now time.Time) (model.StatsConfig, error) {
	cfg := model.StatsConfig{
		Source:      f.source,
		Last:        f.last,
		CurveWindow: f.curveWindow,
	}
	if f.last < 0 {
		return cfg, fmt.Errorf("--last must be >= 0")
	}
	if f.curveWindow <= 0 {
		return cfg, fmt.Errorf("--curve-window must be > 0")
	}
	if f.since != "" {
		since, err := stats.ParseSince(f.since, now)
		if err != nil {
			return cfg, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &since
	}
	return cfg, nil
}

func newStatsCmd() *cobra.Command {
	var flags statsFlags
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show practice history and per-character stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.config(time.Now())
			if err != nil {
				return err
			}
			return withStore(func(st *store.Store) error {
				out := cmd.OutOrStdout()
				if flags.plain || !isTerminal(out) {
					report, err := stats.BuildReport(cmd.Context(), st, cfg)
					if err != nil {
						return err
					}
					return report.Render(out, time.Now())
				}
				load := func(ctx context.Context, cfg model.StatsConfig) (stats.Report, error) {
					return stats.BuildReport(ctx, st, cfg)
				}
				program := tea.NewProgram(statsui.NewModel(load, cfg, time.Now), tea.WithAltScreen())
				if _, err := program.Run(); err != nil {
					return fmt.Errorf("failed to run stats TUI: %w", err)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&flags.source, "source", "", "only runs practiced from this source label")
	cmd.Flags().StringVar(&flags.since, "since", "", `start date ("2024-11-01", "yesterday", "last week")`)
	cmd.Flags().IntVar(&flags.last, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&flags.curveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&flags.plain, "plain", false, "print a plain-text report instead of the viewer")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var (
		limit int
		since string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent practice runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			cfg, err := statsFlags{since: since, curveWindow: 1}.config(now)
			if err != nil {
				return err
			}
			return withStore(func(st *store.Store) error {
				sessions, err := st.ListSessions(cmd.Context(), cfg)
				if err != nil {
					return fmt.Errorf("failed to list sessions: %w", err)
				}
				return stats.RenderHistory(cmd.OutOrStdout(), sessions, limit, now)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", defaultHistoryRows, "number of runs to show (0 for all)")
	cmd.Flags().StringVar(&since, "since", "", "only runs ended after this date")
	return cmd
}

func newExportCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export history as canonical JSON Lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(func(st *store.Store) error {
				records, err := st.ListRecords(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to list records: %w", err)
				}
				if outPath == "" || outPath == "-" {
					return export.Write(cmd.OutOrStdout(), records)
				}
				return writeExportFile(outPath, records)
			})
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

func writeExportFile(path string, records []model.SessionRecord) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	if err := export.Write(f, records); err != nil {
		return err
	}
	logErrf("Exported %d runs to %s\n", len(records), path)
	return nil
}

func withStore(fn func(st *store.Store) error) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	return fn(st)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
