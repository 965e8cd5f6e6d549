// Package server provides HTTP routing, middleware, the access control gate and server lifecycle.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns internally.
//
// # Access Control Gate
//
// [Gate] runs in front of page routes. It decodes the session cookie and applies [Decide],
// which sorts each request into one of three states (anonymous, onboarding incomplete,
// onboarding complete) and either allows it or redirects to /login, /onboarding or /.
// The gate never touches the database or the upstream auth service; it trusts the token's
// embedded claims. API routes under /api/ are skipped and check the session themselves.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
