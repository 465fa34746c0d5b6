package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c != Default() {
		t.Fatalf("expected defaults, got %+v", c)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.toml")
	data := `
port = "9090"
sessions = 4
labels_file_name = "flowers.txt"
`
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Port != "9090" || c.Sessions != 4 || c.LabelsFileName != "flowers.txt" {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if c.TopK != 3 || c.Host != "0.0.0.0" {
		t.Fatalf("defaults lost: %+v", c)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"syntax":   `port = `,
		"sessions": `sessions = 0`,
		"top_k":    `top_k = -1`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(p); err == nil {
				t.Fatalf("expected error for %q", data)
			}
		})
	}
}
