package router

import "sort"

// Catalog binds code artifacts to Go functions. Go cannot load source
// files at runtime, so every +view.go, +<method>.go, +root.go and
// +error.go file in the route tree needs a catalog entry keyed by its
// endpoint path. `pagetree gen` writes the catalog for a tree.
//
//	catalog := router.NewCatalog().
//	    Layout(root.Layout).
//	    View("/", routes.View).
//	    Head("/", routes.Head).
//	    API("/api/items", router.MethodGet, items.GET)
type Catalog struct {
	views     map[string]ViewFunc
	heads     map[string]string
	apis      map[string]*APIHandlers
	layout    LayoutFunc
	errorPage ErrorFunc
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		views: make(map[string]ViewFunc),
		heads: make(map[string]string),
		apis:  make(map[string]*APIHandlers),
	}
}

// View binds the +view.go of path.
func (c *Catalog) View(path string, fn ViewFunc) *Catalog {
	c.views[NormalizePath(path)] = fn
	return c
}

// Head binds the head fragment exported next to a view.
func (c *Catalog) Head(path, html string) *Catalog {
	c.heads[NormalizePath(path)] = html
	return c
}

// API binds the +<method>.go of path.
func (c *Catalog) API(path string, m Method, fn APIFunc) *Catalog {
	path = NormalizePath(path)
	h, ok := c.apis[path]
	if !ok {
		h = &APIHandlers{}
		c.apis[path] = h
	}
	h.Set(m, fn)
	return c
}

// Layout binds +root.go.
func (c *Catalog) Layout(fn LayoutFunc) *Catalog {
	c.layout = fn
	return c
}

// Error binds +error.go.
func (c *Catalog) Error(fn ErrorFunc) *Catalog {
	c.errorPage = fn
	return c
}

func (c *Catalog) view(path string) ViewFunc {
	if c == nil {
		return nil
	}
	return c.views[path]
}

func (c *Catalog) head(path string) (string, bool) {
	if c == nil {
		return "", false
	}
	h, ok := c.heads[path]
	return h, ok
}

func (c *Catalog) api(path string, m Method) APIFunc {
	if c == nil {
		return nil
	}
	h, ok := c.apis[path]
	if !ok {
		return nil
	}
	return h.Handler(m)
}

func (c *Catalog) rootLayout() LayoutFunc {
	if c == nil {
		return nil
	}
	return c.layout
}

func (c *Catalog) errorTemplate() ErrorFunc {
	if c == nil {
		return nil
	}
	return c.errorPage
}

// unbound returns the catalog entries that no artifact uses, formatted
// as "<kind> <path>", sorted.
func (c *Catalog) unbound(artifacts []Artifact) []string {
	if c == nil {
		return nil
	}
	used := make(map[string]bool)
	for _, a := range artifacts {
		used[bindingKey(a.Role, a.Path, a.Method)] = true
	}

	var out []string
	for path := range c.views {
		if !used[bindingKey(RoleViewCode, path, 0)] {
			out = append(out, "view "+path)
		}
	}
	for path := range c.heads {
		if !used[bindingKey(RoleViewCode, path, 0)] {
			out = append(out, "head "+path)
		}
	}
	for path, h := range c.apis {
		for _, m := range h.Methods() {
			if !used[bindingKey(RoleAPI, path, m)] {
				out = append(out, m.String()+" "+path)
			}
		}
	}
	if c.layout != nil && !used[bindingKey(RoleLayout, "", 0)] {
		out = append(out, "layout")
	}
	if c.errorPage != nil && !used[bindingKey(RoleError, "", 0)] {
		out = append(out, "error")
	}
	sort.Strings(out)
	return out
}

func bindingKey(role Role, path string, m Method) string {
	if role == RoleAPI {
		return role.String() + " " + m.String() + " " + path
	}
	return role.String() + " " + path
}
