package pagetree

import (
	"context"

	"github.com/vango-dev/pagetree/pkg/export"
	"github.com/vango-dev/pagetree/pkg/router"
)

// ViewPaths returns the path of every view endpoint, sorted.
func (a *App) ViewPaths() ([]string, error) {
	if err := a.Init(); err != nil {
		return nil, err
	}
	var paths []string
	for _, ep := range a.registry.Endpoints() {
		if ep.Kind() == router.KindView {
			paths = append(paths, ep.Path())
		}
	}
	return paths, nil
}

// Export renders every view endpoint through the App and publishes each
// document as <path>/index.html.
func (a *App) Export(ctx context.Context, pub export.Publisher) (export.Result, error) {
	paths, err := a.ViewPaths()
	if err != nil {
		return export.Result{}, err
	}
	return export.New(a, a.logger).Export(ctx, paths, pub)
}
