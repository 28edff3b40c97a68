// Package handler contains the HTTP handlers.
//
// Each endpoint is a plain function from a typed request to a typed
// response; Handle, HandleNoContent and HandleFile wrap it with binding,
// validation, logging and tracing, and write the response.
package handler
