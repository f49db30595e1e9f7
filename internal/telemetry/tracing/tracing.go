package tracing

import (
	"github.com/honeycombio/otel-config-go/otelconfig"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var GlobalTracer = otel.Tracer("liftlog-backend")

// EndSpanWithErrCheck records err on the span (if any) and ends it. Meant
// for deferred use at the top of traced functions.
func EndSpanWithErrCheck(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Setup configures the OpenTelemetry SDK through the otel-config distro.
// When tracing is disabled it returns a no-op shutdown func.
func Setup(enabled bool, serviceName string) (shutdown func(), err error) {
	if !enabled {
		return func() {}, nil
	}
	return otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(serviceName),
	)
}
