// Package middleware holds the global and route-specific middleware.
//
// They handle the cross-cutting concerns of every request: session
// authentication, request ids, request logging, tracing, CORS, login rate
// limiting, panic recovery and the final error funnel.
package middleware
