package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	yerrors "github.com/simon/yati/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Missing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(cfg, &Config{}) {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "yati.toml", `
copy_files = [".env", "config/"]
exclude = ["*.log", "config/secret.json"]
post_create = ["npm install"]
pre_teardown = ["docker compose down"]

[[tmux.windows]]
name = "edit"

[[tmux.windows]]
name = "run"
command = "npm start"
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &Config{
		CopyFiles:   []string{".env", "config/"},
		Exclude:     []string{"*.log", "config/secret.json"},
		PostCreate:  []string{"npm install"},
		PreTeardown: []string{"docker compose down"},
		Tmux: TmuxConfig{Windows: []Window{
			{Name: "edit"},
			{Name: "run", Command: "npm start"},
		}},
		Path: filepath.Join(dir, "yati.toml"),
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Load() =\n%+v\nwant\n%+v", cfg, want)
	}
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "yati.yaml", `
post_create:
  - make deps
tmux:
  windows:
    - name: shell
    - name: test
      command: go test ./...
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.PostCreate) != 1 || cfg.PostCreate[0] != "make deps" {
		t.Errorf("unexpected post_create %v", cfg.PostCreate)
	}
	if len(cfg.Tmux.Windows) != 2 || cfg.Tmux.Windows[1].Command != "go test ./..." {
		t.Errorf("unexpected windows %+v", cfg.Tmux.Windows)
	}
}

func TestLoad_TOMLPreferredOverYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "yati.toml", `post_create = ["from-toml"]`)
	writeFile(t, dir, "yati.yml", "post_create: [from-yaml]\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PostCreate[0] != "from-toml" {
		t.Errorf("expected yati.toml to win, got %v", cfg.PostCreate)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad toml", "yati.toml", "copy_files = [unterminated"},
		{"bad yaml", "yati.yaml", "tmux: [oops: \n"},
		{"window without name", "yati.toml", "[[tmux.windows]]\ncommand = \"ls\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)
			if _, err := Load(dir); !yerrors.Is(err, yerrors.KindConfig) {
				t.Errorf("expected KindConfig, got %v", err)
			}
		})
	}
}
