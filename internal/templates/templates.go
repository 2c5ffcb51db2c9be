package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/natefinch/atomic"

	"github.com/vango-dev/pagetree/internal/errors"
)

// SiteDir is the application root inside a generated project.
const SiteDir = "site"

// Config contains template configuration.
type Config struct {
	// ProjectName is the name of the project.
	ProjectName string

	// ModulePath is the Go module path.
	ModulePath string

	// Description is a short project description.
	Description string

	// GoVersion is written to the go directive. Default: 1.23.
	GoVersion string
}

// Template represents a project template.
type Template struct {
	// Name is the template name.
	Name string

	// Description describes the template.
	Description string

	// Files is a map of relative paths to file contents.
	Files map[string]string
}

var templates = map[string]*Template{
	"minimal": minimalTemplate(),
	"full":    fullTemplate(),
	"api":     apiTemplate(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.New("E145").
			WithDetail("Template '" + name + "' not found").
			WithSuggestion("Available templates: api, full, minimal")
	}
	return tmpl, nil
}

// List returns all available template names, sorted.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Paths returns the template's file paths, sorted.
func (t *Template) Paths() []string {
	paths := make([]string, 0, len(t.Files))
	for p := range t.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Create generates a project from the template. dir must be missing or
// empty.
func (t *Template) Create(dir string, cfg Config) error {
	if entries, err := os.ReadDir(dir); err == nil && len(entries) > 0 {
		return errors.New("E146").WithDetail(dir)
	}
	if cfg.GoVersion == "" {
		cfg.GoVersion = "1.23"
	}

	for _, relPath := range t.Paths() {
		tmpl, err := template.New(relPath).Parse(t.Files[relPath])
		if err != nil {
			return errors.Newf(errors.CategoryCLI, "invalid template %s: %v", relPath, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return errors.Newf(errors.CategoryCLI, "template execute error %s: %v", relPath, err)
		}

		fullPath := filepath.Join(dir, filepath.FromSlash(relPath))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return err
		}
		if err := atomic.WriteFile(fullPath, &buf); err != nil {
			return err
		}
	}

	return nil
}

// common holds the files every template shares.
func common() map[string]string {
	return map[string]string{
		"go.mod": `module {{.ModulePath}}

go {{.GoVersion}}
`,
		"pagetree.json": `{
  "name": "{{.ProjectName}}",
  "root": "` + SiteDir + `",
  "port": 3000
}
`,
		"main.go": `// Command {{.ProjectName}}{{if .Description}}: {{.Description}}{{end}}
package main

import (
	"github.com/vango-dev/pagetree"
	"github.com/vango-dev/pagetree/pkg/cli"

	"{{.ModulePath}}/` + SiteDir + `/catalog"
)

func main() {
	cli.Execute(pagetree.Config{
		Catalog: catalog.Catalog(),
	})
}
`,
		".gitignore": `/dist
/{{.ProjectName}}
`,
	}
}

func with(files map[string]string) map[string]string {
	out := common()
	for k, v := range files {
		out[k] = v
	}
	return out
}

func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "One page with a root layout",
		Files: with(map[string]string{
			SiteDir + "/+root.go": `package site

import "github.com/vango-dev/pagetree"

func Layout(props pagetree.LayoutProps) (string, error) {
	return "<!DOCTYPE html><html><head><title>{{.ProjectName}}</title></head><body>" +
		props.Body + "</body></html>", nil
}
`,
			SiteDir + "/+root.css": `body {
  font-family: system-ui, sans-serif;
  margin: 2rem;
}
`,
			SiteDir + "/routes/+view.go": `package routes

import "github.com/vango-dev/pagetree"

func View(props pagetree.Props) (string, error) {
	return "<h1>Welcome to {{.ProjectName}}</h1>", nil
}
`,
		}),
	}
}

func fullTemplate() *Template {
	files := minimalTemplate().Files
	delete(files, SiteDir+"/routes/+view.go")
	for k, v := range map[string]string{
		SiteDir + "/+error.go": `package site

import (
	"fmt"

	"github.com/vango-dev/pagetree"
)

func Error(props pagetree.ErrorProps) (string, error) {
	return fmt.Sprintf("<h1>Not found</h1><p>Status %d</p>", props.Status), nil
}
`,
		SiteDir + "/+error.css": `h1 {
  color: #b91c1c;
}
`,
		SiteDir + "/routes/+view.go": `package routes

import "github.com/vango-dev/pagetree"

const Head = "<meta name=\"description\" content=\"{{.ProjectName}}\">"

func View(props pagetree.Props) (string, error) {
	return "<h1>Welcome to {{.ProjectName}}</h1>" +
		"<p><a href=\"/about\">About</a></p>" +
		"<button id=\"hello\">Say hello</button>", nil
}
`,
		SiteDir + "/routes/+view.js": `document.getElementById("hello").addEventListener("click", () => {
  fetch("/api/hello").then((r) => r.json()).then((d) => alert(d.message));
});
`,
		SiteDir + "/routes/about/+view.go": `package about

import "github.com/vango-dev/pagetree"

func View(props pagetree.Props) (string, error) {
	return "<h1>About</h1><p>Built with pagetree.</p>", nil
}
`,
		SiteDir + "/routes/about/+view.css": `p {
  max-width: 40rem;
}
`,
		SiteDir + "/routes/api/hello/+get.go": `package hello

import "github.com/vango-dev/pagetree"

func GET(ctx pagetree.Ctx, props pagetree.Props) (any, error) {
	return map[string]string{"message": "Hello from {{.ProjectName}}"}, nil
}
`,
	} {
		files[k] = v
	}
	return &Template{
		Name:        "full",
		Description: "Pages, a script, an error page and a JSON API",
		Files:       files,
	}
}

func apiTemplate() *Template {
	return &Template{
		Name:        "api",
		Description: "JSON endpoints only",
		Files: with(map[string]string{
			SiteDir + "/routes/api/health/+get.go": `package health

import "github.com/vango-dev/pagetree"

func GET(ctx pagetree.Ctx, props pagetree.Props) (any, error) {
	return map[string]string{"status": "ok"}, nil
}
`,
			SiteDir + "/routes/api/items/+get.go": `package items

import "github.com/vango-dev/pagetree"

func GET(ctx pagetree.Ctx, props pagetree.Props) (any, error) {
	return []string{"first", "second"}, nil
}
`,
			SiteDir + "/routes/api/items/+post.go": `package items

import "github.com/vango-dev/pagetree"

func POST(ctx pagetree.Ctx, props pagetree.Props) (any, error) {
	return map[string]bool{"created": true}, nil
}
`,
		}),
	}
}
