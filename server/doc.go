// Package server provides the service's HTTP server, a Gin engine served
// through h2c so HTTP/2 cleartext and HTTP/1.1 share one port.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: panic recovery handed to an error renderer
//   - RequestID: request ID generation and propagation
//   - Tracing: one OpenTelemetry span per request
//   - RequestLogger: request logging by status class
//   - Metrics: request duration histogram
//   - CORS and BodySizeLimit
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /health: component health aggregation
//   - /info: build version information
package server
