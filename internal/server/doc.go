// Package server implements the HTTP server for notes-server. It wires the
// note API routes, operational endpoints and static file serving onto a
// ServeMux, wraps them in middleware (request ids, access logging, security
// headers, rate limiting, compression) and provides lifecycle helpers used
// by tests and the production binary.
package server
