// Package server provides HTTP routing, middleware, and the JSON API for the
// GenreSense analyzer.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns internally, so path wildcards
// such as {id} are read with [http.Request.PathValue].
//
// [CORS] must wrap the whole router rather than be registered with Use, since preflight OPTIONS
// requests never match a method pattern.
//
// # API
//
// [API] mounts the analyzer endpoints on a router:
//
//	GET  /health
//	GET  /api/session                 current state, result, history, quota and settings
//	POST /api/analyze                 multipart "file" upload
//	POST /api/session/reset           back to the upload view
//	GET  /api/history
//	POST /api/history/{id}/select     show a stored result
//	GET  /api/history/export?format=  csv, md or txt
//	GET  /api/quota
//	GET  /api/community?q=
//	POST /api/community
//	POST /api/community/from-result
//	GET  /api/settings
//	PUT  /api/settings
//
// Errors are returned as {"error": CODE, "message": text}. Upload guard and provider failures
// carry the localized message of the session's current language.
//
// [LoginHandler] answers POST /api/login with 501 until sign-in exists.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
