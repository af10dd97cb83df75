package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewTracerProviderRecordsSpans(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp, err := NewTracerProvider(context.Background(), TracingOptions{
		ServiceName: "blockworld-test",
		SessionID:   "s-1",
	}, sdktrace.WithSyncer(exp))
	require.NoError(t, err)
	defer tp.Shutdown(context.Background())

	_, span := tp.Tracer("test").Start(context.Background(), "raycast")
	span.End()

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "raycast", spans[0].Name)

	attrs := spans[0].Resource.Attributes()
	var service, session string
	for _, kv := range attrs {
		switch kv.Key {
		case "service.name":
			service = kv.Value.AsString()
		case "blockworld.session_id":
			session = kv.Value.AsString()
		}
	}
	assert.Equal(t, "blockworld-test", service)
	assert.Equal(t, "s-1", session)
}

func TestSampleRatio(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp, err := NewTracerProvider(context.Background(), TracingOptions{SampleRatio: 1e-9}, sdktrace.WithSyncer(exp))
	require.NoError(t, err)
	defer tp.Shutdown(context.Background())

	for i := 0; i < 50; i++ {
		_, span := tp.Tracer("test").Start(context.Background(), "tick")
		span.End()
	}
	assert.Empty(t, exp.GetSpans(), "почти нулевая доля сэмплирования")
}

func TestInitTelemetrySetsGlobalProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	shutdown, err := InitTelemetry(context.Background(), TracingOptions{
		ServiceName: "blockworld-test",
		Endpoint:    "127.0.0.1:4318",
		Insecure:    true,
	})
	require.NoError(t, err)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)
	assert.NoError(t, shutdown(context.Background()), "без спанов экспорт не выполняется")
}
