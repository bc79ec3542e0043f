package ponder

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ponderworks/ponder/pkg/arxiv"
	"github.com/ponderworks/ponder/pkg/thinking"
)

// Version is the release version reported by the CLI and the MCP server.
var Version = "0.3.0"

// Config controls service wiring. The zero value is usable: thought
// diagnostics on, no response cache.
type Config struct {
	// DisableThoughtLog suppresses the framed per-thought diagnostic blocks.
	DisableThoughtLog bool

	// RedisAddr enables the arXiv response cache when non-empty.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
}

// Service bundles the two capabilities Ponder exposes to a host: the
// sequential thinking tracker and the arXiv paper client.
type Service struct {
	Thinking *thinking.Store
	Papers   *arxiv.Client

	logger      *slog.Logger
	thoughtSink io.Writer
	cache       *arxiv.Cache
}

// Option defines a functional option for configuring the Service.
type Option func(*Service)

// WithLogger sets a custom structured logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithThoughtSink overrides where framed thought diagnostics are written.
// The default is stderr, keeping stdout clean for JSON-RPC.
func WithThoughtSink(w io.Writer) Option {
	return func(s *Service) {
		s.thoughtSink = w
	}
}

// WithCache attaches a pre-built arXiv response cache, bypassing the
// config-driven Redis setup.
func WithCache(cache *arxiv.Cache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// New wires a Service from configuration. History and branches start empty
// and live until the process exits.
func New(cfg Config, opts ...Option) *Service {
	s := &Service{
		logger:      slog.Default(),
		thoughtSink: os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}

	storeOpts := []thinking.Option{thinking.WithLogger(s.logger)}
	if !cfg.DisableThoughtLog {
		storeOpts = append(storeOpts, thinking.WithFormatter(thinking.NewFormatter(s.thoughtSink)))
	}
	s.Thinking = thinking.NewStore(storeOpts...)

	clientOpts := []arxiv.ClientOption{arxiv.WithClientLogger(s.logger)}
	if s.cache == nil && cfg.RedisAddr != "" {
		s.cache = arxiv.NewCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			arxiv.WithCacheTTL(cfg.CacheTTL))
	}
	if s.cache != nil {
		clientOpts = append(clientOpts, arxiv.WithCache(s.cache))
	}
	s.Papers = arxiv.NewClient(clientOpts...)

	return s
}

// Close releases the cache connection, if any.
func (s *Service) Close() error {
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}
