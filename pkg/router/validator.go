package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vango-dev/pagetree/internal/errors"
)

// Validator checks discovered artifacts for kind conflicts and missing
// catalog bindings.
type Validator struct {
	artifacts []Artifact
	catalog   *Catalog
	errors    []ValidationError
}

// ValidationError represents a single discovery problem.
type ValidationError struct {
	// Type is the error category
	Type ValidationErrorType

	// Message is the human-readable error message
	Message string

	// Files are the artifact files involved
	Files []string

	// Path is the endpoint path, "" for root artifacts
	Path string
}

func (e ValidationError) Error() string {
	if len(e.Files) > 0 {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, strings.Join(e.Files, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Code returns the registered error code of the problem.
func (e ValidationError) Code() string {
	switch e.Type {
	case ErrorKindConflict:
		return "E101"
	case ErrorUnboundArtifact:
		return "E102"
	case ErrorUnroutableSegment:
		return "E104"
	}
	return ""
}

// Structured returns the problem as a structured error.
func (e ValidationError) Structured() *errors.Error {
	err := errors.New(e.Code()).WithDetail(e.Message)
	switch e.Type {
	case ErrorKindConflict:
		err.WithSuggestion("Move the API artifacts to their own directory")
	case ErrorUnboundArtifact:
		err.WithSuggestion("Run 'pagetree gen' to regenerate the catalog")
	case ErrorUnroutableSegment:
		err.WithSuggestion("Rename the directory without " + unroutableChars + " characters")
	}
	return err
}

// ValidationErrorType categorizes validation errors.
type ValidationErrorType string

const (
	// ErrorKindConflict indicates a directory holds both view and API
	// artifacts. Example: routes/items/+view.go next to routes/items/+get.go
	ErrorKindConflict ValidationErrorType = "KIND_CONFLICT"

	// ErrorUnboundArtifact indicates a code artifact has no catalog entry.
	ErrorUnboundArtifact ValidationErrorType = "UNBOUND_ARTIFACT"

	// ErrorUnroutableSegment indicates a directory name the HTTP muxes
	// would read as a pattern. Example: routes/items/{id}/+view.go
	ErrorUnroutableSegment ValidationErrorType = "UNROUTABLE_SEGMENT"
)

// unroutableChars are pattern metacharacters for chi and echo.
const unroutableChars = "{}*:"

// MultiValidationError wraps multiple validation errors.
type MultiValidationError struct {
	Errors []ValidationError
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d route validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Unwrap exposes each problem as a structured error, so errors.As and
// errors.Print see the individual codes.
func (e *MultiValidationError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, v := range e.Errors {
		errs[i] = v.Structured()
	}
	return errs
}

// NewValidator creates a validator for artifacts bound against catalog.
func NewValidator(artifacts []Artifact, catalog *Catalog) *Validator {
	return &Validator{
		artifacts: artifacts,
		catalog:   catalog,
	}
}

// Validate checks all artifacts.
// Returns nil if all are valid, or a MultiValidationError with all errors.
func (v *Validator) Validate() error {
	v.errors = nil

	v.validatePaths()
	v.validateKinds()
	v.validateBindings()

	if len(v.errors) > 0 {
		return &MultiValidationError{Errors: v.errors}
	}
	return nil
}

// validatePaths rejects endpoint paths with pattern metacharacters, one
// error per path.
func (v *Validator) validatePaths() {
	files := make(map[string][]string)
	for _, a := range v.artifacts {
		if strings.ContainsAny(a.Path, unroutableChars) {
			files[a.Path] = append(files[a.Path], a.File)
		}
	}

	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		v.errors = append(v.errors, ValidationError{
			Type:    ErrorUnroutableSegment,
			Message: fmt.Sprintf("%s contains one of %q", path, unroutableChars),
			Path:    path,
			Files:   files[path],
		})
	}
}

// validateKinds checks that every directory holds a single endpoint kind.
func (v *Validator) validateKinds() {
	type group struct {
		view, api []string
	}
	byPath := make(map[string]*group)
	for _, a := range v.artifacts {
		kind := a.Role.Kind()
		if kind == 0 {
			continue
		}
		g, ok := byPath[a.Path]
		if !ok {
			g = &group{}
			byPath[a.Path] = g
		}
		if kind == KindView {
			g.view = append(g.view, a.File)
		} else {
			g.api = append(g.api, a.File)
		}
	}

	paths := make([]string, 0, len(byPath))
	for path := range byPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		g := byPath[path]
		if len(g.view) == 0 || len(g.api) == 0 {
			continue
		}
		files := append(append([]string{}, g.view...), g.api...)
		v.errors = append(v.errors, ValidationError{
			Type:    ErrorKindConflict,
			Message: fmt.Sprintf("%s has both view and API artifacts", path),
			Path:    path,
			Files:   files,
		})
	}
}

// validateBindings checks that every code artifact has a catalog entry.
func (v *Validator) validateBindings() {
	for _, a := range v.artifacts {
		if !a.Role.IsCode() || v.bound(a) {
			continue
		}
		msg := fmt.Sprintf("%s has no catalog binding", a.File)
		v.errors = append(v.errors, ValidationError{
			Type:    ErrorUnboundArtifact,
			Message: msg,
			Path:    a.Path,
			Files:   []string{a.File},
		})
	}
}

func (v *Validator) bound(a Artifact) bool {
	switch a.Role {
	case RoleViewCode:
		return v.catalog.view(a.Path) != nil
	case RoleAPI:
		return v.catalog.api(a.Path, a.Method) != nil
	case RoleLayout:
		return v.catalog.rootLayout() != nil
	case RoleError:
		return v.catalog.errorTemplate() != nil
	}
	return true
}
