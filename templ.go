package pagetree

import (
	"context"
	"strings"

	"github.com/a-h/templ"

	"github.com/vango-dev/pagetree/pkg/router"
	"github.com/vango-dev/pagetree/pkg/server"
)

// Templ adapts a templ component constructor to a view function.
//
//	catalog.View("/", pagetree.Templ(func(p pagetree.Props) templ.Component {
//	    return pages.Home(p.Value("title").(string))
//	}))
func Templ(fn func(Props) templ.Component) router.ViewFunc {
	return func(props server.Props) (string, error) {
		return renderComponent(props.Ctx, fn(props))
	}
}

// TemplLayout adapts a templ component constructor to a root layout.
// The body is already markup; pass it through templ.Raw.
func TemplLayout(fn func(LayoutProps) templ.Component) router.LayoutFunc {
	return func(props server.LayoutProps) (string, error) {
		return renderComponent(props.Ctx, fn(props))
	}
}

// TemplError adapts a templ component constructor to the error page.
func TemplError(fn func(ErrorProps) templ.Component) router.ErrorFunc {
	return func(props server.ErrorProps) (string, error) {
		return renderComponent(props.Ctx, fn(props))
	}
}

func renderComponent(ctx server.Ctx, c templ.Component) (string, error) {
	std := context.Background()
	if ctx != nil {
		std = ctx.StdContext()
	}
	var sb strings.Builder
	if err := c.Render(std, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
