package dev

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestClassifyChange(t *testing.T) {
	tests := []struct {
		path string
		want ChangeType
	}{
		{"main.go", ChangeGo},
		{"site/routes/+view.go", ChangeGo},
		{"site/routes/+view.css", ChangeArtifact},
		{"site/routes/+view.js", ChangeArtifact},
		{"site/+root.css", ChangeArtifact},
		{"README.md", ChangeOther},
		{"site/routes/style.css", ChangeOther},
	}

	for _, tt := range tests {
		if got := classifyChange(tt.path); got != tt.want {
			t.Errorf("classifyChange(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestDiff(t *testing.T) {
	t0 := time.Unix(100, 0)
	t1 := time.Unix(200, 0)

	before := map[string]time.Time{
		"a.go":  t0,
		"b.css": t0,
		"gone":  t0,
	}
	after := map[string]time.Time{
		"a.go":  t1,
		"b.css": t0,
		"new":   t0,
	}

	changes := Diff(before, after)
	if len(changes) != 3 {
		t.Fatalf("changes = %+v, want 3", changes)
	}
	if changes[0].Path != "a.go" || changes[1].Path != "gone" || changes[2].Path != "new" {
		t.Fatalf("changes not sorted: %+v", changes)
	}
	if !changes[1].Removed || changes[0].Removed {
		t.Fatalf("Removed flags wrong: %+v", changes)
	}
}

func TestSnapshotIgnores(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{
		"main.go",
		"main_test.go",
		"site/routes/+view.go",
		"site/catalog/catalog_gen.go",
		".pagetree/app",
		"node_modules/x/index.js",
	} {
		full := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	snap := NewWatcher(WatcherConfig{Paths: []string{dir}}).Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot = %v, want main.go and +view.go", snap)
	}
	if _, ok := snap[filepath.Join(dir, "site", "routes", "+view.go")]; !ok {
		t.Fatalf("snapshot missing +view.go: %v", snap)
	}
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name    string
		changes []Change
		want    Action
	}{
		{"none", nil, Action{}},
		{"stylesheet", []Change{{Path: "site/routes/+view.css", Type: ChangeArtifact}}, Action{Restart: true}},
		{"helper", []Change{{Path: "main.go", Type: ChangeGo}}, Action{Rebuild: true, Restart: true}},
		{"new view", []Change{{Path: "site/routes/x/+view.go", Type: ChangeGo}}, Action{Regenerate: true, Rebuild: true, Restart: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Plan(tt.changes); got != tt.want {
				t.Fatalf("Plan = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBuilderDefaults(t *testing.T) {
	b := NewBuilder(BuilderConfig{ProjectPath: "/project"})

	want := filepath.Join("/project", ".pagetree", "app")
	if runtime.GOOS == "windows" {
		want += ".exe"
	}
	if b.BinaryPath() != want {
		t.Fatalf("BinaryPath() = %q, want %q", b.BinaryPath(), want)
	}
	if len(b.config.Args) != 2 || b.config.Args[0] != "serve" {
		t.Fatalf("Args = %v, want [serve --dev]", b.config.Args)
	}
	if b.IsRunning() {
		t.Fatal("IsRunning() = true before Start")
	}
}

func TestNewRunnerNeedsModule(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/app\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewRunner(Options{ProjectDir: dir, Root: "site"}); err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
}
