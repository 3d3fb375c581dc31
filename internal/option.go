package internal

import "io"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	notices io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithNoticeWriter sets where user-facing notices are printed.
func WithNoticeWriter(w io.Writer) Option {
	return func(a *application) {
		a.notices = w
	}
}
