package core

import "context"

type quietKey struct{}

// WithQuiet marks ctx so that Execute* functions skip the chart and experiment headers.
// Charts, aggregates and the "Wrote" lines are unaffected.
func WithQuiet(ctx context.Context) context.Context {
	return context.WithValue(ctx, quietKey{}, true)
}

// isQuiet reports whether headers are turned off for this run.
func isQuiet(ctx context.Context) bool {
	quiet, _ := ctx.Value(quietKey{}).(bool)
	return quiet
}
