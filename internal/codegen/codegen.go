package codegen

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/natefinch/atomic"
	"golang.org/x/mod/modfile"

	"github.com/vango-dev/pagetree/internal/errors"
	"github.com/vango-dev/pagetree/pkg/router"
)

const (
	// OutputPackage is the package name of the generated file.
	OutputPackage = "catalog"

	// OutputFile is the generated file name.
	OutputFile = "catalog_gen.go"
)

// Binding is one code artifact and the symbols it exports.
type Binding struct {
	router.Artifact

	// ImportPath is the Go import path of the artifact's package.
	ImportPath string

	// Alias is the import alias used in the generated file.
	Alias string

	// HasHead is set when a +view.go also exports a Head string.
	HasHead bool
}

// Symbol returns the function the artifact must export.
func (b Binding) Symbol() string {
	switch b.Role {
	case router.RoleViewCode:
		return "View"
	case router.RoleAPI:
		return b.Method.String()
	case router.RoleLayout:
		return "Layout"
	case router.RoleError:
		return "Error"
	}
	return ""
}

// Generator scans an application tree and writes its catalog.
type Generator struct {
	root       string
	modulePath string
	moduleDir  string
}

// New creates a generator for the application rooted at root. The
// enclosing module is found by walking up to the nearest go.mod.
func New(root string) (*Generator, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	dir := abs
	for {
		data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil {
			mod := modfile.ModulePath(data)
			if mod == "" {
				return nil, errors.Newf(errors.CategoryCodegen, "module declaration not found in %s", filepath.Join(dir, "go.mod"))
			}
			return &Generator{root: abs, modulePath: mod, moduleDir: dir}, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, errors.Newf(errors.CategoryCodegen, "no go.mod found above %s", abs)
		}
		dir = parent
	}
}

// ModulePath returns the module path read from go.mod.
func (g *Generator) ModulePath() string { return g.modulePath }

// OutputPath returns the default location of the generated file.
func (g *Generator) OutputPath() string {
	return filepath.Join(g.root, OutputPackage, OutputFile)
}

// Scan finds every code artifact and checks it exports the symbol its
// file name requires. All problems are returned together.
func (g *Generator) Scan() ([]Binding, error) {
	artifacts, err := router.NewScanner(os.DirFS(g.root), nil).Artifacts()
	if err != nil {
		return nil, err
	}

	var bindings []Binding
	var errs []error
	for _, a := range artifacts {
		if !a.Role.IsCode() {
			continue
		}
		b, err := g.bind(a)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		bindings = append(bindings, b)
	}
	if len(errs) > 0 {
		return nil, stderrors.Join(errs...)
	}

	sort.SliceStable(bindings, func(i, j int) bool {
		if bindings[i].Path != bindings[j].Path {
			return bindings[i].Path < bindings[j].Path
		}
		return bindings[i].File < bindings[j].File
	})
	return bindings, nil
}

func (g *Generator) bind(a router.Artifact) (Binding, error) {
	file := filepath.Join(g.root, filepath.FromSlash(a.File))
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, file, nil, parser.SkipObjectResolution)
	if err != nil {
		return Binding{}, errors.New("E151").WithDetail(a.File).Wrap(err)
	}

	dir := path.Dir(a.File)
	b := Binding{
		Artifact:   a,
		ImportPath: g.importPath(dir),
		Alias:      alias(dir),
	}

	funcs, values := exports(f)
	if !funcs[b.Symbol()] {
		return Binding{}, errors.New("E150").
			WithDetail(fmt.Sprintf("%s must export func %s", a.File, b.Symbol())).
			WithLocation(file, 1, 0)
	}
	if a.Role == router.RoleViewCode {
		b.HasHead = values["Head"]
	}
	return b, nil
}

func (g *Generator) importPath(dir string) string {
	rel, err := filepath.Rel(g.moduleDir, filepath.Join(g.root, filepath.FromSlash(dir)))
	if err != nil || rel == "." {
		return g.modulePath
	}
	return g.modulePath + "/" + filepath.ToSlash(rel)
}

// exports returns the exported top-level functions and the exported
// package-level consts and vars of f.
func exports(f *ast.File) (funcs, values map[string]bool) {
	funcs = make(map[string]bool)
	values = make(map[string]bool)
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil && d.Name.IsExported() {
				funcs[d.Name.Name] = true
			}
		case *ast.GenDecl:
			if d.Tok != token.CONST && d.Tok != token.VAR {
				continue
			}
			for _, spec := range d.Specs {
				vs, ok := spec.(*ast.ValueSpec)
				if !ok {
					continue
				}
				for _, ident := range vs.Names {
					if ident.IsExported() {
						values[ident.Name] = true
					}
				}
			}
		}
	}
	return funcs, values
}

// alias derives an import alias from a directory relative to the
// application root: "." becomes root, "routes/api/users" routes_api_users.
func alias(dir string) string {
	if dir == "." {
		return "root"
	}
	var sb strings.Builder
	for _, r := range dir {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// Generate renders the catalog file for bindings.
func (g *Generator) Generate(bindings []Binding) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("// Code generated by pagetree gen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", OutputPackage)

	imports := make(map[string]string)
	for _, b := range bindings {
		imports[b.Alias] = b.ImportPath
	}
	aliases := make([]string, 0, len(imports))
	for a := range imports {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)

	buf.WriteString("import (\n")
	buf.WriteString("\t\"github.com/vango-dev/pagetree/pkg/router\"\n")
	if len(aliases) > 0 {
		buf.WriteString("\n")
	}
	for _, a := range aliases {
		fmt.Fprintf(&buf, "\t%s %q\n", a, imports[a])
	}
	buf.WriteString(")\n\n")

	buf.WriteString("// Catalog binds every code artifact of the application tree.\n")
	buf.WriteString("func Catalog() *router.Catalog {\n")
	buf.WriteString("\treturn router.NewCatalog()")
	for _, b := range bindings {
		for _, call := range calls(b) {
			buf.WriteString(".\n\t\t" + call)
		}
	}
	buf.WriteString("\n}\n")

	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Newf(errors.CategoryCodegen, "format generated catalog").Wrap(err)
	}
	return out, nil
}

func calls(b Binding) []string {
	switch b.Role {
	case router.RoleViewCode:
		out := []string{fmt.Sprintf("View(%q, %s.View)", b.Path, b.Alias)}
		if b.HasHead {
			out = append(out, fmt.Sprintf("Head(%q, %s.Head)", b.Path, b.Alias))
		}
		return out
	case router.RoleAPI:
		name := b.Method.String()
		constant := "Method" + name[:1] + strings.ToLower(name[1:])
		return []string{fmt.Sprintf("API(%q, router.%s, %s.%s)", b.Path, constant, b.Alias, name)}
	case router.RoleLayout:
		return []string{fmt.Sprintf("Layout(%s.Layout)", b.Alias)}
	case router.RoleError:
		return []string{fmt.Sprintf("Error(%s.Error)", b.Alias)}
	}
	return nil
}

// Run scans, generates and writes the catalog to output (OutputPath when
// empty). It returns the bindings that were written.
func (g *Generator) Run(output string) ([]Binding, error) {
	if output == "" {
		output = g.OutputPath()
	}

	bindings, err := g.Scan()
	if err != nil {
		return nil, err
	}
	code, err := g.Generate(bindings)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return nil, err
	}
	if err := atomic.WriteFile(output, bytes.NewReader(code)); err != nil {
		return nil, err
	}
	return bindings, nil
}
