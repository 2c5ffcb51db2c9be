// Package templates provides project scaffolding templates.
//
// Each template is a complete application: a go.mod, a main package that
// hands the generated catalog to pkg/cli, a pagetree.json and a route tree
// under site/.
//
// # Available Templates
//
//   - minimal: one page with a root layout and stylesheet
//   - full: pages, a script, a custom error page and a JSON API
//   - api: JSON endpoints only
//
// # Usage
//
//	tmpl, err := templates.Get("full")
//	if err != nil {
//	    return err
//	}
//	err = tmpl.Create(projectDir, templates.Config{
//	    ProjectName: "blog",
//	    ModulePath:  "example.com/blog",
//	})
//
// # Template Variables
//
//	{{.ProjectName}}  - Name of the project
//	{{.ModulePath}}   - Go module path
//	{{.Description}}  - Project description
//	{{.GoVersion}}    - go directive of the generated go.mod
package templates
