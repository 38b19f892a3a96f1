package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ListenAddr != "0.0.0.0:3000" {
		t.Errorf("listen_addr = %s", cfg.ListenAddr)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Errorf("max_upload_bytes = %d", cfg.MaxUploadBytes)
	}
	if cfg.MinTextChars != 50 || cfg.PreviewChars != 500 {
		t.Errorf("text limits = %d/%d", cfg.MinTextChars, cfg.PreviewChars)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "listen_addr: 127.0.0.1:8080\ncatalogue_path: /etc/ingest/catalogue.yaml\npreview_chars: 200\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ListenAddr != "127.0.0.1:8080" {
		t.Errorf("listen_addr = %s", cfg.ListenAddr)
	}
	if cfg.CataloguePath != "/etc/ingest/catalogue.yaml" {
		t.Errorf("catalogue_path = %s", cfg.CataloguePath)
	}
	if cfg.PreviewChars != 200 {
		t.Errorf("preview_chars = %d", cfg.PreviewChars)
	}
	if cfg.MinTextChars != 50 {
		t.Errorf("min_text_chars should keep its default, got %d", cfg.MinTextChars)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml", nil); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}

func TestLoadFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("listen_addr: 127.0.0.1:8080\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("listen_addr", "", "")
	if err := flags.Parse([]string{"--listen_addr", "127.0.0.1:9999"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, flags)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:9999" {
		t.Errorf("listen_addr = %s, want flag value", cfg.ListenAddr)
	}
}
