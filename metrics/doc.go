// Package metrics records Prometheus metrics for rendered error envelopes
// and handled requests, and exposes them over HTTP.
package metrics
