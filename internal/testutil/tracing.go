// Package testutil provides shared test utilities for the web service.
package testutil

import (
	"math/rand/v2"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// NewRecordingProvider returns a tracer provider whose ended spans are kept
// in the returned recorder.
func NewRecordingProvider() (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return tp, recorder
}

// NewRecordingTracer returns a tracer whose ended spans are kept in the
// returned recorder.
func NewRecordingTracer() (trace.Tracer, *tracetest.SpanRecorder) {
	tp, recorder := NewRecordingProvider()
	return tp.Tracer("test"), recorder
}

// EndedSpansNamed returns the ended spans called name
func EndedSpansNamed(recorder *tracetest.SpanRecorder, name string) []sdktrace.ReadOnlySpan {
	var spans []sdktrace.ReadOnlySpan
	for _, s := range recorder.Ended() {
		if s.Name() == name {
			spans = append(spans, s)
		}
	}
	return spans
}

// EventNames lists the event names of span in order
func EventNames(span sdktrace.ReadOnlySpan) []string {
	names := make([]string, 0, len(span.Events()))
	for _, e := range span.Events() {
		names = append(names, e.Name)
	}
	return names
}

// Attribute returns the value of key on span, if set
func Attribute(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

// SeededRand is a deterministic random source safe for concurrent use
type SeededRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededRand creates a SeededRand from two PCG seeds
func NewSeededRand(seed1, seed2 uint64) *SeededRand {
	return &SeededRand{r: rand.New(rand.NewPCG(seed1, seed2))}
}

// Float64 returns the next float in [0, 1)
func (s *SeededRand) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}
