// Package server defines the request-scoped values that pagetree hands to
// user code: the per-request Ctx, the Props bag passed to views and API
// handlers, the layout and error template props, and the two optional
// capabilities an application can plug in.
//
// # Invocation timing
//
//   - PayloadProvider runs once per request, before the view or API handler.
//   - RequestLogger runs once per request, after the response is finalized.
//
// # Context
//
// A *Context is created for every request by the App before any middleware
// runs and is attached to the request's context.Context:
//
//	func Dashboard(props server.Props) (string, error) {
//	    user := props.Payload.(*User)
//	    props.Ctx.Logger().Info("rendering dashboard", "user", user.ID)
//	    return "<h1>Hello " + html.EscapeString(user.Name) + "</h1>", nil
//	}
//
// Handlers that need the context from plain net/http code can use
// FromRequest.
package server
