package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/zoobzio/clockz"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	apperrors "github.com/agenttrace/webservice/internal/pkg/errors"
	"github.com/agenttrace/webservice/internal/pkg/logger"
	"github.com/agenttrace/webservice/internal/pkg/metrics"
)

// Span events and attributes recorded by the processing route
const (
	EventUpstreamOK     = "ok-upstream-request"
	EventUpstreamFailed = "failed-upstream-request"
	AttrUpstreamURL     = "upstream-url"
	AttrDelaySeconds    = "simulated-delay-seconds"
)

// Upstream defines the upstream operations the processing route needs
type Upstream interface {
	URL() string
	Get(ctx context.Context) (*UpstreamResponse, error)
}

// Rand is a source of uniformly distributed floats in [0, 1).
// Implementations must be safe for concurrent use.
type Rand interface {
	Float64() float64
}

// RandFunc adapts a function to Rand
type RandFunc func() float64

// Float64 implements Rand
func (f RandFunc) Float64() float64 {
	return f()
}

// ProcessConfig holds the processing route settings
type ProcessConfig struct {
	// FaultRate is the probability in [0, 1] of failing an upstream call
	// before it is attempted.
	FaultRate float64
	DelayMin  time.Duration
	DelayMax  time.Duration
}

// ProcessResult is the outcome of a successful processing call.
// Exactly one of Body (upstream mode) or Delay (delay mode) is meaningful.
type ProcessResult struct {
	Body  []byte
	Delay time.Duration
}

// Passthrough reports whether the result carries an upstream body
func (r *ProcessResult) Passthrough() bool {
	return r.Body != nil
}

// ProcessOption configures a ProcessService
type ProcessOption func(*ProcessService)

// WithRand sets the random source used for fault injection and delays
func WithRand(r Rand) ProcessOption {
	return func(s *ProcessService) {
		s.rand = r
	}
}

// WithClock sets the clock used to wait and to time upstream calls
func WithClock(clock clockz.Clock) ProcessOption {
	return func(s *ProcessService) {
		s.clock = clock
	}
}

// ProcessService handles the processing route
type ProcessService struct {
	config   ProcessConfig
	upstream Upstream
	logger   *zap.Logger
	rand     Rand
	clock    clockz.Clock
}

// NewProcessService creates a new process service. A nil upstream selects
// delay mode.
func NewProcessService(
	config ProcessConfig,
	upstream Upstream,
	logger *zap.Logger,
	opts ...ProcessOption,
) *ProcessService {
	s := &ProcessService{
		config:   config,
		upstream: upstream,
		logger:   logger,
		rand:     RandFunc(rand.Float64),
		clock:    clockz.RealClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpstreamConfigured reports whether calls are forwarded upstream
func (s *ProcessService) UpstreamConfigured() bool {
	return s.upstream != nil
}

// Process runs one processing call, annotating the span in ctx.
// Upstream failures of every kind are returned as an UPSTREAM_FAILURE AppError.
func (s *ProcessService) Process(ctx context.Context) (*ProcessResult, error) {
	if s.upstream == nil {
		return s.simulateDelay(ctx)
	}
	return s.callUpstream(ctx)
}

func (s *ProcessService) callUpstream(ctx context.Context) (*ProcessResult, error) {
	if s.injectFault() {
		metrics.RecordSyntheticFault()
		return nil, s.upstreamFailed(ctx, apperrors.ReasonSyntheticFault, apperrors.ErrSyntheticFault, 0, 0)
	}

	start := s.clock.Now()
	resp, err := s.upstream.Get(ctx)
	elapsed := s.clock.Now().Sub(start)
	if err != nil {
		return nil, s.upstreamFailed(ctx, apperrors.ReasonTransport, err, 0, elapsed)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("upstream returned status %d", resp.StatusCode)
		return nil, s.upstreamFailed(ctx, apperrors.ReasonBadStatus, err, resp.StatusCode, elapsed)
	}

	if !json.Valid(resp.Body) {
		err := errors.New("upstream returned a body that is not JSON")
		return nil, s.upstreamFailed(ctx, apperrors.ReasonInvalidBody, err, resp.StatusCode, elapsed)
	}

	span := trace.SpanFromContext(ctx)
	span.AddEvent(EventUpstreamOK)
	span.SetStatus(codes.Ok, "")
	metrics.RecordUpstreamSuccess(elapsed)

	return &ProcessResult{Body: resp.Body}, nil
}

// upstreamFailed records a failed upstream call on the span, the log and the
// metrics, and returns the error to respond with. statusCode is zero when no
// response was received.
func (s *ProcessService) upstreamFailed(
	ctx context.Context,
	reason string,
	cause error,
	statusCode int,
	elapsed time.Duration,
) error {
	url := s.upstream.URL()

	span := trace.SpanFromContext(ctx)
	span.RecordError(cause)
	span.SetAttributes(attribute.String(AttrUpstreamURL, url))
	span.AddEvent(EventUpstreamFailed)
	span.SetStatus(codes.Error, cause.Error())

	fields := []zap.Field{
		zap.String("upstream", url),
		zap.String("reason", reason),
		zap.Error(cause),
	}
	if statusCode != 0 {
		fields = append(fields, zap.Int("status_code", statusCode))
	}
	log := s.logger
	if sc := span.SpanContext(); sc.HasTraceID() {
		log = logger.WithTraceID(log, sc.TraceID().String())
	}
	log.Warn("upstream request failed", fields...)

	metrics.RecordUpstreamFailure(reason, elapsed)

	return apperrors.UpstreamFailure(url, reason).WithError(cause)
}

// injectFault decides whether this call fails synthetically
func (s *ProcessService) injectFault() bool {
	if s.config.FaultRate <= 0 {
		return false
	}
	return s.rand.Float64() < s.config.FaultRate
}

func (s *ProcessService) simulateDelay(ctx context.Context) (*ProcessResult, error) {
	d := s.sampleDelay()

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.Float64(AttrDelaySeconds, d.Seconds()))

	select {
	case <-s.clock.After(d):
	case <-ctx.Done():
		return nil, fmt.Errorf("simulated delay interrupted: %w", ctx.Err())
	}

	metrics.RecordSimulatedDelay(d)

	return &ProcessResult{Delay: d}, nil
}

// sampleDelay draws a uniform delay in [DelayMin, DelayMax]
func (s *ProcessService) sampleDelay() time.Duration {
	width := s.config.DelayMax - s.config.DelayMin
	return s.config.DelayMin + time.Duration(s.rand.Float64()*float64(width))
}
