package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/calmtype/internal/config"
	"github.com/verte-zerg/calmtype/internal/model"
	"github.com/verte-zerg/calmtype/internal/source"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*model.Config) {}},
		{name: "zero words", mutate: func(c *model.Config) { c.Words = 0 }, wantErr: "--words"},
		{name: "caps above one", mutate: func(c *model.Config) { c.CapsPct = 1.5 }, wantErr: "--caps"},
		{name: "negative punct", mutate: func(c *model.Config) { c.PunctPct = -0.1 }, wantErr: "--punct"},
		{name: "negative weak top", mutate: func(c *model.Config) { c.WeakTop = -1 }, wantErr: "--weak-top"},
		{name: "negative factor", mutate: func(c *model.Config) { c.WeakFactor = -1 }, wantErr: "--weak-factor"},
		{name: "negative window", mutate: func(c *model.Config) { c.WeakWindow = -1 }, wantErr: "--weak-window"},
		{name: "blank wordlist", mutate: func(c *model.Config) { c.WordListPath = " " }, wantErr: "--wordlist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultPracticeConfig()
			tt.mutate(&cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %s, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFileConfigDoesNotOverrideFlags(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Flags().Set("words", "12"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	cfg := defaultPracticeConfig()
	cfg.Words = 12
	words := 99
	history := false
	msg := "done {{wpm}}"
	applyFileConfig(cmd, &cfg, config.PracticeConfig{Words: &words, History: &history, FinishMessage: &msg})
	if cfg.Words != 12 {
		t.Fatalf("expected flag value to win, got %d", cfg.Words)
	}
	if cfg.History || cfg.FinishMessage != msg {
		t.Fatalf("expected file values for unset flags, got %+v", cfg)
	}
	if cfg.CapsPct != defaultCaps {
		t.Fatalf("expected default caps when file is silent, got %v", cfg.CapsPct)
	}
}

func TestConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calmtype", "config.toml")
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensure config: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("template should decode: %v", err)
	}
	if cfg.Practice.Words != nil {
		t.Fatalf("template values should be commented out")
	}

	if err := os.WriteFile(path, []byte("[practice]\nwords = 7\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensure existing config: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "[practice]\nwords = 7\n" {
		t.Fatalf("existing config was overwritten: %q", data)
	}
}

func TestGeneratePassageFromWordList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("calm\nriver\n\nstone\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := defaultPracticeConfig()
	cfg.WordListPath = path
	cfg.Words = 10
	cfg.CapsPct = 0
	cfg.PunctPct = 0
	text, err := generatePassage(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := len(strings.Fields(text.Body)); got != 10 {
		t.Fatalf("expected 10 words, got %d in %q", got, text.Body)
	}
	if text.Label != "words.txt" {
		t.Fatalf("unexpected label %q", text.Label)
	}
	for _, w := range strings.Fields(text.Body) {
		if w != "calm" && w != "river" && w != "stone" {
			t.Fatalf("unexpected word %q", w)
		}
	}
}

func TestGeneratePassageMissingWordList(t *testing.T) {
	cfg := defaultPracticeConfig()
	cfg.WordListPath = filepath.Join(t.TempDir(), "missing.txt")
	_, err := generatePassage(context.Background(), cfg, nil)
	if err == nil || !strings.Contains(err.Error(), "no word list at") {
		t.Fatalf("expected missing word list hint, got %v", err)
	}
}

func TestStatsFlagsConfig(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	cfg, err := statsFlags{since: "2026-03-01", curveWindow: 5, source: "a.txt"}.config(now)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Since == nil || cfg.Since.Day() != 1 || cfg.Source != "a.txt" || cfg.CurveWindow != 5 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if _, err := (statsFlags{curveWindow: 0}).config(now); err == nil {
		t.Fatalf("expected curve window error")
	}
	if _, err := (statsFlags{curveWindow: 1, last: -1}).config(now); err == nil {
		t.Fatalf("expected last error")
	}
	if _, err := (statsFlags{curveWindow: 1, since: "not a date at all"}).config(now); err == nil {
		t.Fatalf("expected since error")
	}
}

func TestWriteExportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	records := []model.SessionRecord{
		{RunID: "a", Source: "x.txt", StartedAt: time.Unix(0, 0), EndedAt: time.Unix(60, 0)},
		{RunID: "b", Source: "y.txt", StartedAt: time.Unix(100, 0), EndedAt: time.Unix(160, 0)},
	}
	if err := writeExportFile(path, records); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], `"run_id":"a"`) {
		t.Fatalf("unexpected export: %q", data)
	}
}

func TestWordListErrorWrapsOtherFailures(t *testing.T) {
	err := wordListLoadError("/tmp/words.txt", source.ErrEmptyText)
	if !errors.Is(err, source.ErrEmptyText) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
