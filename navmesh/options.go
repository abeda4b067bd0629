package navmesh

import (
	"github.com/gorustyt/gridnavmesh/simplify"
	"go.uber.org/zap"
)

type Options struct {
	// MaxError is the largest distance, in cells, a dropped contour vertex may
	// lie from the simplified edge replacing it. Zero keeps every corner.
	MaxError float64
	// MergeConvex merges adjacent triangles into larger convex nodes.
	MergeConvex bool
	// MaxVertsPerNode bounds merged nodes.
	MaxVertsPerNode int
	Logger          *zap.Logger
}

type Option func(o *Options)

func DefaultOptions() Options {
	return Options{
		MaxError:        simplify.DefaultMaxError,
		MergeConvex:     false,
		MaxVertsPerNode: 6,
		Logger:          zap.NewNop(),
	}
}

func WithMaxError(maxError float64) Option {
	return func(o *Options) { o.MaxError = maxError }
}

func WithMergeConvex(merge bool) Option {
	return func(o *Options) { o.MergeConvex = merge }
}

func WithMaxVertsPerNode(n int) Option {
	return func(o *Options) { o.MaxVertsPerNode = n }
}

func WithLogger(log *zap.Logger) Option {
	return func(o *Options) {
		if log != nil {
			o.Logger = log
		}
	}
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxVertsPerNode < 3 {
		o.MaxVertsPerNode = 3
	}
	return o
}
