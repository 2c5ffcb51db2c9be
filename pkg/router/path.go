package router

import (
	"path"
	"path/filepath"
	"strings"
)

// RoutesDir is the directory under the application root that holds
// endpoint artifacts.
const RoutesDir = "routes"

// NormalizePath returns p with a leading slash, no trailing slash and
// no empty segments. The root path is "/".
//
//	NormalizePath("blog//post/") == "/blog/post"
//	NormalizePath("")            == "/"
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	segments := strings.Split(p, "/")
	kept := segments[:0]
	for _, s := range segments {
		if s == "" || s == "." {
			continue
		}
		kept = append(kept, s)
	}
	return "/" + strings.Join(kept, "/")
}

// EndpointPath returns the endpoint path of an artifact file given the
// application root: the file's directory relative to <root>/routes.
//
//	EndpointPath("/app", "/app/routes/blog/post/+view.go") == "/blog/post"
//	EndpointPath("/app", "/app/routes/+view.go")           == "/"
func EndpointPath(root, file string) (string, error) {
	rel, err := filepath.Rel(filepath.Join(root, RoutesDir), filepath.Dir(file))
	if err != nil {
		return "", err
	}
	return NormalizePath(filepath.ToSlash(rel)), nil
}

// endpointPathFS computes the endpoint path of a slash-separated fs.FS
// path such as "routes/blog/+view.go".
func endpointPathFS(name string) string {
	dir := path.Dir(name)
	dir = strings.TrimPrefix(dir, RoutesDir)
	return NormalizePath(dir)
}
