package graph

import (
	"log/slog"
	"time"

	"github.com/vk/dgraph/internal/transform"
)

// Options controls one Graph's evaluation behavior. Options are supplied
// via functional Option values to New so subgraphs can inherit and
// selectively override their parent's settings.
type Options struct {
	EchoInputs         bool
	EchoTemplates      bool
	EchoIntermediates  bool
	LogUndefinedPaths  bool
	LogLiterals        bool
	Depth              int
	Logger             *slog.Logger
	RunTimeout         time.Duration
	Transforms         *transform.Registry
}

// Option configures a Graph at construction time.
type Option func(*Options)

// WithEchoInputs includes the synthetic inputs node in GetState output.
func WithEchoInputs() Option { return func(o *Options) { o.EchoInputs = true } }

// WithEchoTemplates includes template graph nodes (normally hidden) in
// GetState output.
func WithEchoTemplates() Option { return func(o *Options) { o.EchoTemplates = true } }

// WithEchoIntermediates includes "#"-prefixed nodes and nodes marked
// isHidden in GetState output.
func WithEchoIntermediates() Option { return func(o *Options) { o.EchoIntermediates = true } }

// WithLogUndefinedPaths logs, on every step that does not settle, each
// visible node that is still absent, and every path read that resolves to
// absent because the referenced node does not exist.
func WithLogUndefinedPaths() Option { return func(o *Options) { o.LogUndefinedPaths = true } }

// WithLogLiterals logs every literal value inferred during preprocessing.
func WithLogLiterals() Option { return func(o *Options) { o.LogLiterals = true } }

// WithDepth sets the subgraph nesting depth recorded on the graph, used
// only for logging context.
func WithDepth(d int) Option { return func(o *Options) { o.Depth = d } }

// WithLogger sets the logger the graph and its nodes use.
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

// WithRunTimeout bounds how long Run will wait for a stalled evaluation to
// make progress before returning a SyncRunTimeout error. Zero (the
// default) waits forever.
func WithRunTimeout(d time.Duration) Option { return func(o *Options) { o.RunTimeout = d } }

// WithTransforms overrides the transform function registry; New defaults
// to transform.Default().
func WithTransforms(r *transform.Registry) Option { return func(o *Options) { o.Transforms = r } }

// childOptions derives the Option list a subgraph instance should be
// constructed with: same logger, transforms, echo/log flags, and run
// timeout as the parent, one level deeper.
func (g *Graph) childOptions() []Option {
	o := g.opts
	depth := o.Depth + 1
	return []Option{
		WithLogger(o.Logger),
		WithTransforms(o.Transforms),
		WithDepth(depth),
		func(opts *Options) {
			opts.EchoInputs = o.EchoInputs
			opts.EchoTemplates = o.EchoTemplates
			opts.EchoIntermediates = o.EchoIntermediates
			opts.LogUndefinedPaths = o.LogUndefinedPaths
			opts.LogLiterals = o.LogLiterals
			opts.RunTimeout = o.RunTimeout
		},
	}
}
