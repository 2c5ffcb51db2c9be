package router

import (
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/vango-dev/pagetree/internal/errors"
)

// Scanner discovers endpoints in an application tree.
type Scanner struct {
	fsys    fs.FS
	catalog *Catalog
	logger  *slog.Logger
}

// NewScanner creates a scanner over fsys, whose root is the application
// root (the directory holding routes/ and the root artifacts).
func NewScanner(fsys fs.FS, catalog *Catalog) *Scanner {
	return &Scanner{
		fsys:    fsys,
		catalog: catalog,
		logger:  slog.Default(),
	}
}

// WithLogger sets the logger used for discovery diagnostics.
func (s *Scanner) WithLogger(logger *slog.Logger) *Scanner {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Discover scans the application rooted at root on the local filesystem.
func Discover(root string, catalog *Catalog) (*Registry, error) {
	return NewScanner(os.DirFS(root), catalog).Scan()
}

// Artifacts walks routes/ and the root directory and returns every
// recognized artifact in walk order. Unrecognized files are skipped.
func (s *Scanner) Artifacts() ([]Artifact, error) {
	var artifacts []Artifact

	err := fs.WalkDir(s.fsys, RoutesDir, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		role, m, ok := Classify(d.Name())
		if !ok {
			return nil
		}
		artifacts = append(artifacts, Artifact{
			File:   name,
			Path:   endpointPathFS(name),
			Role:   role,
			Method: m,
		})
		return nil
	})
	if err != nil {
		return nil, errors.New("E100").WithDetail(RoutesDir).Wrap(err)
	}

	for _, ra := range rootArtifacts {
		info, err := fs.Stat(s.fsys, ra.name)
		if stderrors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errors.New("E100").WithDetail(ra.name).Wrap(err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		artifacts = append(artifacts, Artifact{File: ra.name, Role: ra.role})
	}

	return artifacts, nil
}

// Scan discovers, validates and binds every artifact, then freezes the
// registry. Validation problems are returned together as a
// *MultiValidationError.
func (s *Scanner) Scan() (*Registry, error) {
	artifacts, err := s.Artifacts()
	if err != nil {
		return nil, err
	}

	if err := NewValidator(artifacts, s.catalog).Validate(); err != nil {
		return nil, err
	}

	for _, entry := range s.catalog.unbound(artifacts) {
		s.logger.Warn("catalog entry has no artifact", "entry", entry)
	}

	b := NewBuilder()
	var templates Templates

	for _, a := range artifacts {
		switch a.Role {
		case RoleViewCode:
			vh := b.View(a.Path, a.File)
			vh.Body = s.catalog.view(a.Path)
			if head, ok := s.catalog.head(a.Path); ok {
				vh.Head = SomeText(strings.TrimSpace(head))
			}
		case RoleViewScript:
			text, err := s.read(a.File)
			if err != nil {
				return nil, err
			}
			b.View(a.Path, a.File).Script = text
		case RoleViewStyle:
			text, err := s.read(a.File)
			if err != nil {
				return nil, err
			}
			b.View(a.Path, a.File).Style = text
		case RoleAPI:
			b.API(a.Path, a.File).Set(a.Method, s.catalog.api(a.Path, a.Method))
		case RoleLayout:
			templates.Layout = s.catalog.rootLayout()
		case RoleRootStyle:
			if templates.Style, err = s.read(a.File); err != nil {
				return nil, err
			}
		case RoleError:
			templates.Error = s.catalog.errorTemplate()
		case RoleErrorStyle:
			if templates.ErrorStyle, err = s.read(a.File); err != nil {
				return nil, err
			}
		}
	}

	b.SetTemplates(templates)
	reg := b.Freeze()

	views, apis := 0, 0
	for _, ep := range reg.Endpoints() {
		if ep.Kind() == KindView {
			views++
		} else {
			apis++
		}
	}
	s.logger.Info("routes discovered",
		"views", views,
		"apis", apis,
		"layout", templates.Layout != nil,
		"error_page", templates.Error != nil,
	)

	return reg, nil
}

func (s *Scanner) read(name string) (Text, error) {
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return Text{}, errors.New("E103").WithDetail(path.Clean(name)).Wrap(err)
	}
	return SomeText(string(data)), nil
}
