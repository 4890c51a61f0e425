package policyreg

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-policyreg/pkg/activity"
)

// Configuration is one policy-configuration unit held by the registry. The
// registry creates instances through a ConfigurationFactory, stores them by
// context identifier, and consults InService when resolving the active
// configuration; it never drives the configuration's own lifecycle.
type Configuration interface {
	// ContextID returns the identifier the configuration was created for.
	ContextID() string
	// InService reports whether the configuration is currently eligible to
	// back authorization decisions. Implementations own their synchronization.
	InService() bool
}

// ConfigurationFactory creates the Configuration for a context identifier.
// The registry calls it at most once per identifier, under its write lock,
// so implementations must not call back into the registry.
type ConfigurationFactory func(contextID string) (Configuration, error)

// ContextSource reads the policy context identifier ambient on the calling
// goroutine. ok is false when no identifier is set; err reports a failure of
// the source itself, never "no identifier".
type ContextSource interface {
	CurrentContextID(ctx context.Context) (id string, ok bool, err error)
}

// SourceFunc adapts a plain function to ContextSource.
type SourceFunc func(ctx context.Context) (string, bool, error)

// CurrentContextID dispatches to the underlying function.
func (f SourceFunc) CurrentContextID(ctx context.Context) (string, bool, error) {
	if f == nil {
		return "", false, nil
	}
	return f(ctx)
}

// Option configures a Registry.
type Option func(*registryConfig)

type registryConfig struct {
	logger  *zap.Logger
	source  ContextSource
	hooks   activity.Hooks
	channel string
}

func applyOptions(opts []Option) registryConfig {
	cfg := registryConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithLogger attaches a zap logger used for resolution diagnostics and
// activity emission failures. Defaults to zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *registryConfig) {
		cfg.logger = logger
	}
}

// WithContextSource replaces the default context.Context value source used
// by ResolveActive.
func WithContextSource(source ContextSource) Option {
	return func(cfg *registryConfig) {
		cfg.source = source
	}
}

// WithActivityHooks attaches audit hooks notified after registry mutations
// and successful resolutions. Hooks are cloned and nil entries dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *registryConfig) {
		cfg.hooks = normalized
	}
}

// WithActivityChannel overrides the channel stamped on emitted events.
func WithActivityChannel(channel string) Option {
	return func(cfg *registryConfig) {
		cfg.channel = channel
	}
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.Hook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
