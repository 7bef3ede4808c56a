// Package handler is the HTTP error boundary. Every error a Gin handler
// records with c.Error, every recovered panic and every unmatched route is
// classified by an ordered rule list and rendered as one
// envelope.ErrorEnvelope whose status is also the response status.
//
//	b := handler.New(builder, log, handler.WithMetrics(collector))
//	engine.Use(b.Middleware())
//	engine.NoRoute(b.NoRoute())
//	engine.NoMethod(b.NoMethod())
package handler
