package cmd

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/krau/floravision/classifier"
)

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, classifier.Result{
		{Label: "tulip", Confidence: 0.7},
		{Label: "rose", Confidence: 0.1},
	})
	want := bold + "tulip: 70.00%" + reset + "\nrose: 10.00%\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestPrintResult_Empty(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, classifier.Result{})
	if buf.String() != "No predictions\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "floravision" {
		t.Fatalf("Use = %q", rootCmd.Use)
	}
	if rootCmd.Short != "FloraVision: flower species recognition from photos" {
		t.Fatalf("Short = %q", rootCmd.Short)
	}
	for _, name := range []string{"serve", "classify", "labels"} {
		if c, _, err := rootCmd.Find([]string{name}); err != nil || c.Name() != name {
			t.Fatalf("subcommand %q not registered: %v", name, err)
		}
	}
}
