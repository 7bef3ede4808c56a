// Package observability wires OpenTelemetry tracing and reports service
// health.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, cfg, "usermodel", "1.0.0", "production")
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "users.create")
//	defer span.End()
//
// Health:
//
//	health := observability.NewServiceHealth("usermodel", "1.0.0")
//	health.AddComponent(checker.CheckHealth(ctx))
package observability
