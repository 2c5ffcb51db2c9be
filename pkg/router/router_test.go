package router

import (
	"reflect"
	"testing"

	"github.com/vango-dev/pagetree/pkg/server"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{".", "/"},
		{"blog", "/blog"},
		{"/blog/", "/blog"},
		{"blog//post/", "/blog/post"},
		{`blog\post`, "/blog/post"},
	}
	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEndpointPath(t *testing.T) {
	tests := []struct {
		root string
		file string
		want string
	}{
		{"/app", "/app/routes/blog/post/+view.go", "/blog/post"},
		{"/app", "/app/routes/+view.go", "/"},
		{"/app/", "/app/routes/api/items/+get.go", "/api/items"},
	}
	for _, tt := range tests {
		got, err := EndpointPath(tt.root, tt.file)
		if err != nil {
			t.Fatalf("EndpointPath(%q, %q): %v", tt.root, tt.file, err)
		}
		if got != tt.want {
			t.Errorf("EndpointPath(%q, %q) = %q, want %q", tt.root, tt.file, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		role   Role
		method Method
		ok     bool
	}{
		{"+view.go", RoleViewCode, 0, true},
		{"+view.js", RoleViewScript, 0, true},
		{"+view.css", RoleViewStyle, 0, true},
		{"+get.go", RoleAPI, MethodGet, true},
		{"+head.go", RoleAPI, MethodHead, true},
		{"+patch.go", RoleAPI, MethodPatch, true},
		{"+options.go", RoleAPI, MethodOptions, true},
		{"+delete.go", RoleAPI, MethodDelete, true},
		{"+post.go", RoleAPI, MethodPost, true},
		{"+put.go", RoleAPI, MethodPut, true},
		{"+trace.go", 0, 0, false},
		{"+Get.go", 0, 0, false},
		{"+view.ts", 0, 0, false},
		{"view.go", 0, 0, false},
		{"+root.go", 0, 0, false},
	}
	for _, tt := range tests {
		role, m, ok := Classify(tt.name)
		if ok != tt.ok || role != tt.role || m != tt.method {
			t.Errorf("Classify(%q) = %v, %v, %v; want %v, %v, %v",
				tt.name, role, m, ok, tt.role, tt.method, tt.ok)
		}
	}
}

func TestAPIFileName(t *testing.T) {
	for _, m := range AllMethods() {
		role, got, ok := Classify(APIFileName(m))
		if !ok || role != RoleAPI || got != m {
			t.Errorf("Classify(APIFileName(%v)) = %v, %v, %v", m, role, got, ok)
		}
	}
}

func TestMethodOrder(t *testing.T) {
	var names []string
	for _, m := range AllMethods() {
		names = append(names, m.String())
	}
	want := []string{"GET", "HEAD", "PATCH", "OPTIONS", "DELETE", "POST", "PUT"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("AllMethods() = %v, want %v", names, want)
	}
}

func TestText(t *testing.T) {
	var absent Text
	if _, ok := absent.Get(); ok {
		t.Error("zero Text should be absent")
	}
	empty := SomeText("")
	if v, ok := empty.Get(); !ok || v != "" {
		t.Errorf("SomeText(\"\").Get() = %q, %v", v, ok)
	}
}

func TestBuilderMergesArtifacts(t *testing.T) {
	b := NewBuilder()
	b.View("/blog/", "routes/blog/+view.go").Body = okView("b")
	b.View("blog", "routes/blog/+view.css").Style = SomeText("p{}")

	if b.API("/blog", "routes/blog/+get.go") != nil {
		t.Fatal("API() on a view path should return nil")
	}

	reg := b.Freeze()
	if reg.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", reg.Len())
	}
	ep, _ := reg.Lookup("/blog")
	if ep.View().Body == nil || !ep.View().Style.Present() {
		t.Fatal("artifacts of one directory should merge into one endpoint")
	}
}

func TestRegistryEndpointsSorted(t *testing.T) {
	b := NewBuilder()
	b.View("/z", "")
	b.API("/a", "").Set(MethodGet, okAPI(nil))
	b.View("/", "")

	var paths []string
	for _, ep := range b.Freeze().Endpoints() {
		paths = append(paths, ep.Path())
	}
	want := []string{"/", "/a", "/z"}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("Endpoints() = %v, want %v", paths, want)
	}
}

func TestValidatorCollectsAll(t *testing.T) {
	artifacts := []Artifact{
		{File: "routes/x/+view.go", Path: "/x", Role: RoleViewCode},
		{File: "routes/x/+post.go", Path: "/x", Role: RoleAPI, Method: MethodPost},
		{File: "+error.go", Role: RoleError},
		{File: "+root.css", Role: RoleRootStyle},
	}
	err := NewValidator(artifacts, NewCatalog()).Validate()
	multi, ok := err.(*MultiValidationError)
	if !ok {
		t.Fatalf("err = %T, want *MultiValidationError", err)
	}
	// one conflict plus three unbound code artifacts
	if len(multi.Errors) != 4 {
		t.Fatalf("Errors = %d, want 4: %v", len(multi.Errors), multi)
	}
	if len(multi.Unwrap()) != 4 {
		t.Fatalf("Unwrap() = %d errors, want 4", len(multi.Unwrap()))
	}
}

func TestCatalogUnbound(t *testing.T) {
	c := NewCatalog().
		View("/a", okView("")).
		API("/b", MethodPut, okAPI(nil)).
		Error(func(server.ErrorProps) (string, error) { return "", nil })

	got := c.unbound([]Artifact{{Path: "/a", Role: RoleViewCode}})
	want := []string{"PUT /b", "error"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unbound = %v, want %v", got, want)
	}
}
