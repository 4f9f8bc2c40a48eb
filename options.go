package featgo

type options struct {
	raw        map[string][]float32
	normalized bool
	logger     *Logger
}

// Option configures a FeatureModule at construction time.
type Option func(*options)

// WithFeatures supplies the raw entity-ID → feature-vector mapping.
//
// The module takes ownership of the map: after a successful data-bearing
// Build the mapping is drained and must not be reused by the caller.
func WithFeatures(raw map[string][]float32) Option {
	return func(o *options) {
		o.raw = raw
	}
}

// WithNormalization enables per-row L2 normalization during Build.
// Rows with zero norm are left as all-zero.
func WithNormalization() Option {
	return func(o *options) {
		o.normalized = true
	}
}

// WithLogger configures structured logging.
//
// If nil is passed, logging stays disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}
