package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/pagetree/internal/codegen"
	"github.com/vango-dev/pagetree/internal/errors"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"minimal", false},
		{"full", false},
		{"api", false},
		{"nonexistent", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Get(tt.name)
			if tt.wantErr {
				if errors.CodeOf(err) != "E145" {
					t.Fatalf("error = %v, want E145", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if tmpl.Name != tt.name {
				t.Errorf("Name = %q, want %q", tmpl.Name, tt.name)
			}
		})
	}
}

func TestList(t *testing.T) {
	got := strings.Join(List(), ",")
	if got != "api,full,minimal" {
		t.Fatalf("List() = %q, want api,full,minimal", got)
	}
}

func TestCreate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "blog")
	tmpl, _ := Get("minimal")
	if err := tmpl.Create(dir, Config{ProjectName: "blog", ModulePath: "example.com/blog"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, p := range tmpl.Paths() {
		if _, err := os.Stat(filepath.Join(dir, p)); err != nil {
			t.Errorf("%s: %v", p, err)
		}
	}

	gomod, _ := os.ReadFile(filepath.Join(dir, "go.mod"))
	if !strings.Contains(string(gomod), "module example.com/blog") || !strings.Contains(string(gomod), "go 1.23") {
		t.Fatalf("go.mod = %q", gomod)
	}
	main, _ := os.ReadFile(filepath.Join(dir, "main.go"))
	if !strings.Contains(string(main), `"example.com/blog/site/catalog"`) {
		t.Fatalf("main.go = %q", main)
	}
}

func TestCreateRejectsNonEmptyDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "keep"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	tmpl, _ := Get("api")
	err := tmpl.Create(dir, Config{ProjectName: "x", ModulePath: "example.com/x"})
	if errors.CodeOf(err) != "E146" {
		t.Fatalf("error = %v, want E146", err)
	}
}

func TestTemplatesBindCleanly(t *testing.T) {
	for _, name := range List() {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			tmpl, _ := Get(name)
			if err := tmpl.Create(dir, Config{ProjectName: "demo", ModulePath: "example.com/demo"}); err != nil {
				t.Fatalf("Create: %v", err)
			}

			g, err := codegen.New(filepath.Join(dir, SiteDir))
			if err != nil {
				t.Fatalf("codegen.New: %v", err)
			}
			bindings, err := g.Scan()
			if err != nil {
				t.Fatalf("Scan: %v", err)
			}
			if len(bindings) == 0 {
				t.Fatal("no bindings")
			}
			if _, err := g.Generate(bindings); err != nil {
				t.Fatalf("Generate: %v", err)
			}
		})
	}
}
