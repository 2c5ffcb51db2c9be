package router

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/vango-dev/pagetree/internal/errors"
	"github.com/vango-dev/pagetree/pkg/server"
)

func okView(body string) ViewFunc {
	return func(server.Props) (string, error) { return body, nil }
}

func okAPI(v any) APIFunc {
	return func(server.Ctx, server.Props) (any, error) { return v, nil }
}

func file(s string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(s)}
}

func TestScanViews(t *testing.T) {
	fsys := fstest.MapFS{
		"routes/+view.go":            file("package routes"),
		"routes/blog/post/+view.go":  file("package post"),
		"routes/blog/post/+view.js":  file("console.log(1)"),
		"routes/blog/post/+view.css": file("h1{color:red}"),
		"routes/blog/post/notes.txt": file("ignored"),
	}
	catalog := NewCatalog().
		View("/", okView("home")).
		View("/blog/post", okView("post")).
		Head("/blog/post", "  <title>Post</title>\n")

	reg, err := NewScanner(fsys, catalog).Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if reg.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", reg.Len())
	}

	ep, ok := reg.Lookup("/blog/post")
	if !ok {
		t.Fatal("/blog/post not found")
	}
	if ep.Kind() != KindView || ep.API() != nil {
		t.Fatalf("kind = %v, want view", ep.Kind())
	}
	v := ep.View()
	if got, _ := v.Body(server.Props{}); got != "post" {
		t.Errorf("Body = %q, want post", got)
	}
	if s, ok := v.Script.Get(); !ok || s != "console.log(1)" {
		t.Errorf("Script = %q, %v", s, ok)
	}
	if s, ok := v.Style.Get(); !ok || s != "h1{color:red}" {
		t.Errorf("Style = %q, %v", s, ok)
	}
	if s, ok := v.Head.Get(); !ok || s != "<title>Post</title>" {
		t.Errorf("Head = %q, %v (want trimmed)", s, ok)
	}
	if len(ep.Files()) != 3 {
		t.Errorf("Files() = %v, want 3 artifacts", ep.Files())
	}

	home, ok := reg.Lookup("/")
	if !ok {
		t.Fatal("/ not found")
	}
	if home.View().Head.Present() {
		t.Error("Head should be absent when the catalog has none")
	}
}

func TestScanAPIMethods(t *testing.T) {
	fsys := fstest.MapFS{
		"routes/api/items/+post.go": file(""),
		"routes/api/items/+get.go":  file(""),
		"routes/api/items/+GET.go":  file("wrong case, ignored"),
	}
	catalog := NewCatalog().
		API("/api/items", MethodGet, okAPI("list")).
		API("/api/items", MethodPost, okAPI("created"))

	reg, err := NewScanner(fsys, catalog).Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	ep, ok := reg.Lookup("/api/items/")
	if !ok {
		t.Fatal("/api/items not found")
	}
	if ep.Kind() != KindAPI || ep.View() != nil {
		t.Fatalf("kind = %v, want api", ep.Kind())
	}
	got := ep.API().Methods()
	want := []Method{MethodGet, MethodPost}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Methods() = %v, want %v", got, want)
	}
	if ep.API().Handler(MethodPut) != nil {
		t.Error("PUT should be absent")
	}
}

func TestScanKindConflict(t *testing.T) {
	fsys := fstest.MapFS{
		"routes/items/+view.go": file(""),
		"routes/items/+get.go":  file(""),
	}
	catalog := NewCatalog().
		View("/items", okView("")).
		API("/items", MethodGet, okAPI(nil))

	_, err := NewScanner(fsys, catalog).Scan()
	var multi *MultiValidationError
	if !stderrors.As(err, &multi) {
		t.Fatalf("err = %v, want *MultiValidationError", err)
	}
	if len(multi.Errors) != 1 || multi.Errors[0].Type != ErrorKindConflict {
		t.Fatalf("Errors = %v, want one KIND_CONFLICT", multi.Errors)
	}
	if errors.CodeOf(err) != "E101" {
		t.Fatalf("CodeOf = %q, want E101", errors.CodeOf(err))
	}
	if errors.CategoryOf(err) != errors.CategoryDiscovery {
		t.Fatalf("CategoryOf = %q, want discovery", errors.CategoryOf(err))
	}
}

func TestScanUnboundArtifact(t *testing.T) {
	fsys := fstest.MapFS{
		"routes/+view.go":       file(""),
		"routes/api/+delete.go": file(""),
		"+root.go":              file(""),
	}

	_, err := NewScanner(fsys, NewCatalog()).Scan()
	var multi *MultiValidationError
	if !stderrors.As(err, &multi) {
		t.Fatalf("err = %v, want *MultiValidationError", err)
	}
	if len(multi.Errors) != 3 {
		t.Fatalf("Errors = %d, want 3: %v", len(multi.Errors), multi.Errors)
	}
	for _, e := range multi.Errors {
		if e.Type != ErrorUnboundArtifact || e.Code() != "E102" {
			t.Errorf("error %v, want UNBOUND_ARTIFACT/E102", e)
		}
	}
}

func TestScanUnroutableSegment(t *testing.T) {
	tests := []struct {
		dir  string
		path string
	}{
		{"items/{id}", "/items/{id}"},
		{"files/*", "/files/*"},
		{"users/:name", "/users/:name"},
	}

	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			fsys := fstest.MapFS{
				"routes/" + tt.dir + "/+view.go":  file(""),
				"routes/" + tt.dir + "/+view.css": file("p{}"),
			}
			catalog := NewCatalog().View(tt.path, okView(""))

			_, err := NewScanner(fsys, catalog).Scan()
			var multi *MultiValidationError
			if !stderrors.As(err, &multi) {
				t.Fatalf("err = %v, want *MultiValidationError", err)
			}
			if len(multi.Errors) != 1 {
				t.Fatalf("Errors = %d, want 1: %v", len(multi.Errors), multi.Errors)
			}
			e := multi.Errors[0]
			if e.Type != ErrorUnroutableSegment || e.Path != tt.path || len(e.Files) != 2 {
				t.Fatalf("error = %+v, want UNROUTABLE_SEGMENT for %s with 2 files", e, tt.path)
			}
			if errors.CodeOf(err) != "E104" {
				t.Fatalf("CodeOf = %q, want E104", errors.CodeOf(err))
			}
		})
	}
}

func TestScanUnusedCatalogEntryWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	fsys := fstest.MapFS{"routes/+view.go": file("")}
	catalog := NewCatalog().
		View("/", okView("")).
		View("/gone", okView(""))

	if _, err := NewScanner(fsys, catalog).WithLogger(logger).Scan(); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "/gone") {
		t.Fatalf("expected warn for /gone, got: %s", buf.String())
	}
}

func TestScanRootTemplates(t *testing.T) {
	fsys := fstest.MapFS{
		"routes/+view.go": file(""),
		"+root.go":        file(""),
		"+root.css":       file("body{margin:0}"),
		"+error.go":       file(""),
		"+error.css":      file("h1{color:red}"),
	}
	layout := func(p server.LayoutProps) (string, error) { return "<main>" + p.Body + "</main>", nil }
	errPage := func(server.ErrorProps) (string, error) { return "oops", nil }
	catalog := NewCatalog().View("/", okView("")).Layout(layout).Error(errPage)

	reg, err := NewScanner(fsys, catalog).Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	tpl := reg.Templates()
	if out, _ := tpl.Layout(server.LayoutProps{Body: "x"}); out != "<main>x</main>" {
		t.Errorf("Layout = %q", out)
	}
	if out, _ := tpl.Error(server.ErrorProps{}); out != "oops" {
		t.Errorf("Error = %q", out)
	}
	if s, _ := tpl.Style.Get(); s != "body{margin:0}" {
		t.Errorf("Style = %q", s)
	}
	if s, _ := tpl.ErrorStyle.Get(); s != "h1{color:red}" {
		t.Errorf("ErrorStyle = %q", s)
	}
}

func TestScanDefaultTemplates(t *testing.T) {
	fsys := fstest.MapFS{
		"routes/+view.go": file(""),
		"+error.css":      file("h1{color:red}"),
	}
	reg, err := NewScanner(fsys, NewCatalog().View("/", okView(""))).Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	tpl := reg.Templates()

	out, _ := tpl.Layout(server.LayoutProps{Body: "<p>hi</p>"})
	if out != "<!DOCTYPE html><html><head></head><body><p>hi</p></body></html>" {
		t.Errorf("default layout = %q", out)
	}
	out, _ = tpl.Error(server.ErrorProps{Status: 500})
	if out != "<h1>404</h1>" {
		t.Errorf("default error = %q, want <h1>404</h1>", out)
	}
	if tpl.ErrorStyle.Present() {
		t.Error("default error page has no stylesheet")
	}
	if tpl.Style.Present() {
		t.Error("root stylesheet should be absent")
	}
}

func TestScanMissingRoutes(t *testing.T) {
	_, err := NewScanner(fstest.MapFS{}, NewCatalog()).Scan()
	if errors.CodeOf(err) != "E100" {
		t.Fatalf("CodeOf(err) = %q, want E100 (err = %v)", errors.CodeOf(err), err)
	}
}

func TestDiscoverOnDisk(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "routes", "blog", "post")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	viewFile := filepath.Join(dir, "+view.go")
	if err := os.WriteFile(viewFile, []byte("package post"), 0644); err != nil {
		t.Fatal(err)
	}

	reg, err := Discover(root, NewCatalog().View("/blog/post", okView("p")))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if _, ok := reg.Lookup("/blog/post"); !ok {
		t.Fatal("/blog/post not found")
	}

	p, err := EndpointPath(root, viewFile)
	if err != nil || p != "/blog/post" {
		t.Fatalf("EndpointPath = %q, %v", p, err)
	}
}
