package qfold

import (
	"github.com/qfold/qfold/codec"
	"github.com/qfold/qfold/fallback"
	"github.com/qfold/qfold/resource"
)

type options struct {
	config           QuantumConfig
	presetName       string
	logger           *Logger
	metrics          MetricsCollector
	controller       *resource.Controller
	session          *SessionTracker
	codec            codec.Codec
	profile          string
	redundancyCopies int
	fallbackOpts     []fallback.Option
}

// Option configures an Engine.
type Option func(*options)

// WithConfig sets the quantum pipeline configuration. New validates it.
func WithConfig(config QuantumConfig) Option {
	return func(o *options) {
		o.config = config
	}
}

// WithPreset selects a named preset configuration. It overrides WithConfig
// regardless of option order. New rejects unknown names.
func WithPreset(name string) Option {
	return func(o *options) {
		o.presetName = name
	}
}

// WithLogger sets the logger. The default discards all records.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetricsCollector sets the metrics sink. The default discards all
// metrics.
func WithMetricsCollector(metrics MetricsCollector) Option {
	return func(o *options) {
		if metrics != nil {
			o.metrics = metrics
		}
	}
}

// WithResourceController attaches resource budgets. Without one the engine
// runs unthrottled.
func WithResourceController(controller *resource.Controller) Option {
	return func(o *options) {
		o.controller = controller
	}
}

// WithSessionTracker attaches a session tracker that receives the ratio of
// every successful compression.
func WithSessionTracker(tracker *SessionTracker) Option {
	return func(o *options) {
		o.session = tracker
	}
}

// WithCodec sets the payload codec used when saving containers. The default
// is codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithInterferenceProfile selects a named interference profile for the
// optimization phase instead of thresholds derived from the configuration.
// New rejects unknown names.
func WithInterferenceProfile(name string) Option {
	return func(o *options) {
		o.profile = name
	}
}

// WithRedundancyCopies sets the repetition count of the error correction
// layer used during the redundancy phase.
func WithRedundancyCopies(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.redundancyCopies = n
		}
	}
}

// WithFallbackOptions forwards options to the classical fallback whenever
// the engine engages it.
func WithFallbackOptions(opts ...fallback.Option) Option {
	return func(o *options) {
		o.fallbackOpts = append(o.fallbackOpts, opts...)
	}
}
