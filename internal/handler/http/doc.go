// Package http implements the HTTP transport layer of the agricheck server.
//
// It exposes route wiring, request handlers, and middleware used by the REST
// API. Cross-cutting concerns such as bearer authentication, request
// tracing, access logging, CORS and per-request timeouts are handled in this
// package before requests are delegated to the service layer. Every error
// response has the shape {"status": <code>, "message": <text>}.
package http
