package response

import (
	"iter"

	"github.com/sirupsen/logrus"
)

type handlers struct {
	onLoading func()
	onError   func(error)
	logger    logrus.FieldLogger
}

// Option overrides one of CollectAndHandle's default handlers
type Option func(*handlers)

// WithOnLoading is called for every Loading state. Default: no-op.
func WithOnLoading(fn func()) Option {
	return func(h *handlers) {
		if fn != nil {
			h.onLoading = fn
		}
	}
}

// WithOnError is called with the cause of every Error state.
// Default: log the cause at error level.
func WithOnError(fn func(error)) Option {
	return func(h *handlers) {
		if fn != nil {
			h.onError = fn
		}
	}
}

// WithLogger sets the logger used by the default error handler
func WithLogger(logger logrus.FieldLogger) Option {
	return func(h *handlers) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// CollectAndHandle ranges over seq and calls the handler that matches each
// state, synchronously and in delivery order. onSuccess receives the
// unwrapped data. Handler panics are not recovered.
func CollectAndHandle[T any](seq iter.Seq[State[T]], onSuccess func(T), opts ...Option) {
	h := &handlers{
		onLoading: func() {},
		logger:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.onError == nil {
		logger := h.logger
		h.onError = func(err error) {
			logger.WithError(err).Error("collectAndHandle: error")
		}
	}

	for state := range seq {
		switch s := state.(type) {
		case Success[T]:
			onSuccess(s.Data)
		case Error[T]:
			h.onError(s.Err)
		case Loading[T]:
			h.onLoading()
		}
	}
}
