package router

import "strings"

// Role is the part an artifact file plays in an endpoint.
type Role int

const (
	RoleViewCode Role = iota + 1
	RoleViewScript
	RoleViewStyle
	RoleAPI
	RoleLayout
	RoleRootStyle
	RoleError
	RoleErrorStyle
)

// Artifact file names.
const (
	FileViewCode   = "+view.go"
	FileViewScript = "+view.js"
	FileViewStyle  = "+view.css"
	FileLayout     = "+root.go"
	FileRootStyle  = "+root.css"
	FileError      = "+error.go"
	FileErrorStyle = "+error.css"
)

var roleNames = map[Role]string{
	RoleViewCode:   "view",
	RoleViewScript: "script",
	RoleViewStyle:  "style",
	RoleAPI:        "api",
	RoleLayout:     "layout",
	RoleRootStyle:  "root-style",
	RoleError:      "error",
	RoleErrorStyle: "error-style",
}

func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return "unknown"
}

// Kind returns the endpoint kind the role belongs to. Root roles have no
// kind and return 0.
func (r Role) Kind() Kind {
	switch r {
	case RoleViewCode, RoleViewScript, RoleViewStyle:
		return KindView
	case RoleAPI:
		return KindAPI
	}
	return 0
}

// IsCode reports whether the artifact is Go code that needs a catalog
// binding.
func (r Role) IsCode() bool {
	switch r {
	case RoleViewCode, RoleAPI, RoleLayout, RoleError:
		return true
	}
	return false
}

// Artifact is one recognized file of the application tree.
type Artifact struct {
	// File is the slash-separated path relative to the application root,
	// e.g. "routes/blog/+view.go".
	File string

	// Path is the endpoint path. It is "" for root artifacts.
	Path string

	Role Role

	// Method is set for RoleAPI.
	Method Method
}

// APIFileName returns the artifact file name for method m, e.g. "+get.go".
func APIFileName(m Method) string {
	return "+" + strings.ToLower(m.String()) + ".go"
}

// Classify maps a file name found under routes/ to its role. Files that
// match no convention report ok == false and are ignored.
func Classify(name string) (role Role, m Method, ok bool) {
	switch name {
	case FileViewCode:
		return RoleViewCode, 0, true
	case FileViewScript:
		return RoleViewScript, 0, true
	case FileViewStyle:
		return RoleViewStyle, 0, true
	}
	if strings.HasPrefix(name, "+") && strings.HasSuffix(name, ".go") {
		verb := strings.TrimSuffix(strings.TrimPrefix(name, "+"), ".go")
		if verb != strings.ToLower(verb) {
			return 0, 0, false
		}
		if m, ok := ParseMethod(verb); ok {
			return RoleAPI, m, true
		}
	}
	return 0, 0, false
}

// rootArtifacts are looked up directly under the application root.
var rootArtifacts = []struct {
	name string
	role Role
}{
	{FileLayout, RoleLayout},
	{FileRootStyle, RoleRootStyle},
	{FileError, RoleError},
	{FileErrorStyle, RoleErrorStyle},
}
