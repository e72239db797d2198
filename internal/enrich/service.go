package enrich

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/octobees/vc-scout/internal/entity"
	"github.com/octobees/vc-scout/internal/logger"
)

const (
	// CredentialSetting names the environment variable holding the model API key.
	CredentialSetting = "GEMINI_API_KEY"

	defaultModelTimeout = 60 * time.Second
)

// Generator sends a prompt to a generative language model and returns its raw text.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Outcome is the coalesced result plus whether the fallback payload replaced the model output.
type Outcome struct {
	Result   entity.EnrichmentResult
	Degraded bool
}

// Service runs the enrichment pipeline: fetch, extract, prompt, invoke model, parse, coalesce.
type Service struct {
	fetcher      PageFetcher
	generator    Generator
	logger       *zap.Logger
	metrics      *Metrics
	now          func() time.Time
	modelTimeout time.Duration
	inflight     singleflight.Group
}

// Option configures optional Service dependencies.
type Option func(*Service)

// WithLogger overrides the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records outcomes and stage latency.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the time source used for fetch timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithModelTimeout bounds a single model call.
func WithModelTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.modelTimeout = timeout
		}
	}
}

// NewService wires the pipeline. A nil generator means the model credential is not configured;
// every Enrich call then fails with a *ConfigurationError before any network call.
func NewService(fetcher PageFetcher, generator Generator, opts ...Option) *Service {
	s := &Service{
		fetcher:      fetcher,
		generator:    generator,
		logger:       zap.NewNop(),
		now:          time.Now,
		modelTimeout: defaultModelTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enrich derives an EnrichmentResult from the page at website. Only validation, configuration
// and fetch failures are returned as errors; model failures are absorbed into the fallback payload.
// Identical concurrent requests share one pipeline run.
func (s *Service) Enrich(ctx context.Context, website string) (*Outcome, error) {
	if err := ValidateWebsite(website); err != nil {
		s.metrics.observeOutcome(OutcomeInvalid)
		return nil, err
	}
	if s.generator == nil {
		s.metrics.observeOutcome(OutcomeConfigError)
		return nil, &ConfigurationError{Setting: CredentialSetting}
	}

	ch := s.inflight.DoChan(TargetKey(website), func() (any, error) {
		return s.run(context.WithoutCancel(ctx), website)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Shared {
		s.metrics.observeShared()
	}
	if res.Err != nil {
		s.metrics.observeOutcome(errorOutcome(res.Err))
		return nil, res.Err
	}

	outcome := *res.Val.(*Outcome)
	outcome.Result.Sources = []entity.Source{{URL: website, ScrapedAt: outcome.Result.Sources[0].ScrapedAt}}
	if outcome.Degraded {
		s.metrics.observeOutcome(OutcomeDegraded)
	} else {
		s.metrics.observeOutcome(OutcomeSuccess)
	}
	return &outcome, nil
}

func (s *Service) run(ctx context.Context, website string) (*Outcome, error) {
	scrapedAt := s.now()
	log := logger.ForContext(ctx, s.logger).With(zap.String("website", website))

	started := time.Now()
	html, err := s.fetcher.Fetch(ctx, website)
	s.metrics.observeStage("fetch", started)
	if err != nil {
		var fetchErr *UpstreamFetchError
		if !errors.As(err, &fetchErr) {
			fetchErr = &UpstreamFetchError{URL: website, Cause: err}
		}
		log.Warn("website fetch failed", zap.Int("status", fetchErr.StatusCode), zap.Error(err))
		return nil, fetchErr
	}

	text := ExtractText(html)
	parsed := s.invokeModel(ctx, log, BuildPrompt(text))

	fields := parsed.OrElse(func(err error) ParsedFields {
		log.Warn("model output unusable, using fallback payload", zap.Error(err))
		return FallbackFields(text)
	})

	return &Outcome{
		Result:   Coalesce(fields, text, website, scrapedAt),
		Degraded: !parsed.OK(),
	}, nil
}

func (s *Service) invokeModel(ctx context.Context, log *zap.Logger, prompt string) ParseResult {
	ctx, cancel := context.WithTimeout(ctx, s.modelTimeout)
	defer cancel()

	started := time.Now()
	raw, err := s.generator.GenerateText(ctx, prompt)
	s.metrics.observeStage("model", started)
	if err != nil {
		log.Warn("model call failed", zap.Error(err))
		return ParseResult{err: &ModelOutputError{Cause: err}}
	}
	return ParseModelOutput(raw)
}

func errorOutcome(err error) string {
	var fetchErr *UpstreamFetchError
	var cfgErr *ConfigurationError
	switch {
	case errors.As(err, &fetchErr):
		return OutcomeFetchError
	case errors.As(err, &cfgErr):
		return OutcomeConfigError
	default:
		return OutcomeError
	}
}
