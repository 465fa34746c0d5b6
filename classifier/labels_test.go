package classifier

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParseLabels(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Labels
	}{
		{"plain", "rose\ntulip\ndaisy", Labels{"rose", "tulip", "daisy"}},
		{"trailing newline", "rose\ntulip\n", Labels{"rose", "tulip"}},
		{"trailing blank lines", "rose\ntulip\n\n\n", Labels{"rose", "tulip"}},
		{"crlf", "rose\r\ntulip\r\n", Labels{"rose", "tulip"}},
		{"lone cr", "rose\rtulip\r", Labels{"rose", "tulip"}},
		{"mixed endings", "rose\r\rtulip\ndaisy", Labels{"rose", "", "tulip", "daisy"}},
		{"interior blank kept", "rose\n\ntulip", Labels{"rose", "", "tulip"}},
		{"whitespace kept", " rose \ntulip", Labels{" rose ", "tulip"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseLabels(strings.NewReader(tc.in))
			if err != nil {
				t.Fatalf("ParseLabels: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseLabels_Empty(t *testing.T) {
	for _, in := range []string{"", "\n\n"} {
		if _, err := ParseLabels(strings.NewReader(in)); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestLoadLabels(t *testing.T) {
	p := filepath.Join(t.TempDir(), "labels.txt")
	if err := os.WriteFile(p, []byte("rose\ntulip\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadLabels(p)
	if err != nil {
		t.Fatalf("LoadLabels: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %q", got)
	}

	if _, err := LoadLabels(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
