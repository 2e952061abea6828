// Package observability wires OpenTelemetry tracing and metrics exporters and
// aggregates health checks of the remote services.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, cfg.Tracing, log)
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, cfg.Metrics, log)
//	defer mp.Shutdown(ctx)
//
// Both register themselves as the global providers, which the HTTP
// transports use unless a provider is injected.
//
// Health checks:
//
//	health := observability.CheckAll(ctx, "offctl", version.Version, checkers...)
package observability
