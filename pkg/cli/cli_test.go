package cli

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/vango-dev/pagetree"
	"github.com/vango-dev/pagetree/internal/config"
	"github.com/vango-dev/pagetree/pkg/render"
)

func baseConfig() pagetree.Config {
	return pagetree.Config{
		FS: fstest.MapFS{
			"routes/+view.go":          {Data: []byte("package routes")},
			"routes/docs/+view.go":     {Data: []byte("package docs")},
			"routes/docs/+view.css":    {Data: []byte("p{}")},
			"routes/api/items/+get.go": {Data: []byte("package items")},
			"routes/api/items/+put.go": {Data: []byte("package items")},
		},
		Catalog: pagetree.NewCatalog().
			View("/", func(pagetree.Props) (string, error) { return "home", nil }).
			View("/docs", func(pagetree.Props) (string, error) { return "docs", nil }).
			API("/api/items", pagetree.GET, func(pagetree.Ctx, pagetree.Props) (any, error) { return nil, nil }).
			API("/api/items", pagetree.PUT, func(pagetree.Ctx, pagetree.Props) (any, error) { return nil, nil }),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Minifier: render.Identity{},
	}
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	cmd := New(baseConfig())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", t.TempDir()}, args...))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out.String()
}

func TestRoutesCommand(t *testing.T) {
	out := run(t, "routes")

	for _, want := range []string{"PATH", "/docs", "body,style", "/api/items", "GET,PUT", "layout: default"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestExportCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	out := run(t, "export", "--dir", dir)

	if !strings.Contains(out, "Exported 2 pages") {
		t.Fatalf("output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "index.html")); err != nil {
		t.Fatalf("index.html: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "docs", "index.html")); err != nil {
		t.Fatalf("docs/index.html: %v", err)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	fc, err := loadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if fc.Port != config.DefaultPort {
		t.Fatalf("Port = %d, want %d", fc.Port, config.DefaultPort)
	}
}

func TestLoadConfigInvalidFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(dir); err == nil {
		t.Fatal("expected error for invalid pagetree.json")
	}
}

func TestAppConfigMerge(t *testing.T) {
	fc := config.New()
	fc.Root = "site"
	fc.Dev = true
	fc.Props.Values = map[string]any{"a": 1}

	cfg := appConfig(pagetree.Config{}, fc)
	if cfg.Root != "site" || !cfg.DevMode || cfg.Props.Values["a"] != 1 {
		t.Fatalf("merged = %+v", cfg)
	}

	kept := appConfig(pagetree.Config{Root: "other", Props: pagetree.PropsConfig{Values: map[string]any{"b": 2}}}, fc)
	if kept.Root != "other" || kept.Props.Values["b"] != 2 {
		t.Fatalf("base settings should win: %+v", kept)
	}
}

func TestObservability(t *testing.T) {
	fc := config.New()
	if n := len(observability(fc)); n != 0 {
		t.Fatalf("middleware = %d, want 0", n)
	}
	fc.Tracing.Enabled = true
	fc.Metrics.Addr = ":0"
	if n := len(observability(fc)); n != 2 {
		t.Fatalf("middleware = %d, want 2", n)
	}
}

func TestPublisherChoice(t *testing.T) {
	fc := config.New()
	if _, target := publisher(fc); target != "dist" {
		t.Fatalf("target = %q, want dist", target)
	}
	fc.Export.Bucket = "site"
	if _, target := publisher(fc); target != "s3://site" {
		t.Fatalf("target = %q, want s3://site", target)
	}
}
