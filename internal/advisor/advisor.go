// Package advisor turns a dashboard snapshot into a short piece of financial
// advice from a hosted model, falling back to a deterministic tip whenever the
// provider cannot answer.
package advisor

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Veraticus/finanhome/internal/common"
	"github.com/Veraticus/finanhome/internal/llm"
	"github.com/Veraticus/finanhome/internal/service"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// ErrRequestInFlight is returned when Advise is called while a previous call
// is still running. Callers should ignore the second request.
var ErrRequestInFlight = errors.New("advice request already in flight")

// Defaults applied by NewService.
const (
	DefaultTimeout   = 20 * time.Second
	DefaultCacheTTL  = 10 * time.Minute
	DefaultRateLimit = 6
)

// Advice is the outcome of an advisory request.
type Advice struct {
	Text string `json:"text"`
	// Fallback is set when Text is the deterministic tip.
	Fallback bool `json:"fallback"`
	// NeedsCredential is set when the provider key is missing or rejected.
	NeedsCredential bool `json:"needsCredential"`
	Cached          bool `json:"cached"`
}

// Advisor produces advice for a snapshot.
type Advisor interface {
	Advise(ctx context.Context, s Snapshot) (Advice, error)
}

// Options tune the service.
type Options struct {
	Logger     *slog.Logger
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	CacheTTL   time.Duration
	// RateLimit is the number of provider calls allowed per minute.
	RateLimit int
}

// Service is the Advisor backed by an llm.Client. At most one request runs at
// a time.
type Service struct {
	client   llm.Client
	prompts  *PromptBuilder
	cache    *gocache.Cache
	limiter  *rate.Limiter
	logger   *slog.Logger
	retry    service.RetryOptions
	timeout  time.Duration
	inFlight atomic.Bool
}

var _ Advisor = (*Service)(nil)

// NewService wires client with caching, rate limiting and retries.
func NewService(client llm.Client, opts Options) (*Service, error) {
	prompts, err := NewPromptBuilder()
	if err != nil {
		return nil, err
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 500 * time.Millisecond
	}

	return &Service{
		client:  client,
		prompts: prompts,
		cache:   gocache.New(opts.CacheTTL, 2*opts.CacheTTL),
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RateLimit)), 1),
		logger:  opts.Logger,
		timeout: opts.Timeout,
		retry: service.RetryOptions{
			MaxAttempts:  opts.MaxRetries + 1,
			InitialDelay: opts.RetryDelay,
			MaxDelay:     opts.Timeout,
			Multiplier:   2,
		},
	}, nil
}

// Advise asks the provider for advice on s. Provider failures never surface
// as errors; they produce the fallback tip. The only error is
// ErrRequestInFlight.
func (s *Service) Advise(ctx context.Context, snap Snapshot) (Advice, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return Advice{}, ErrRequestInFlight
	}
	defer s.inFlight.Store(false)

	key := snap.key()
	if text, ok := s.cache.Get(key); ok {
		return Advice{Text: text.(string), Cached: true}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.generate(ctx, snap)
	if err != nil {
		needsCredential := errors.Is(err, llm.ErrMissingCredential) || errors.Is(err, llm.ErrProviderConfig)
		s.logger.Warn("Advisory request failed, using fallback",
			"error", err,
			"needs_credential", needsCredential)
		return Advice{
			Text:            Fallback(snap),
			Fallback:        true,
			NeedsCredential: needsCredential,
		}, nil
	}

	s.cache.SetDefault(key, text)
	return Advice{Text: text}, nil
}

func (s *Service) generate(ctx context.Context, snap Snapshot) (string, error) {
	prompt, err := s.prompts.Build(snap)
	if err != nil {
		return "", err
	}

	var text string
	err = common.WithRetry(ctx, func() error {
		if waitErr := s.limiter.Wait(ctx); waitErr != nil {
			return common.Permanent(waitErr)
		}
		var genErr error
		text, genErr = s.client.Generate(ctx, prompt)
		return genErr
	}, s.retry)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}
