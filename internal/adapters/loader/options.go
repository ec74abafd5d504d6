package loader

import "github.com/okian/roster/pkg/logger"

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithDelimiter sets the field separator. Defaults to ','.
func WithDelimiter(r rune) Option {
	return func(l *Loader) {
		if r != 0 {
			l.delimiter = r
		}
	}
}

// WithLogger sets a custom logger for the loader.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.logger = log
		}
	}
}
