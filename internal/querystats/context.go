package querystats

import "context"

type collectorKey struct{}

// WithCollector returns a context carrying the request's collector. Any
// collector already present is replaced, so a new request always starts from
// an empty accumulator even if an earlier one leaked into the parent
// context.
func WithCollector(ctx context.Context, c *Collector) context.Context {
	return context.WithValue(ctx, collectorKey{}, c)
}

// FromContext returns the collector attached to ctx, or nil when the request
// is not being tracked. All Collector methods accept a nil receiver, so
// callers may use the result without checking.
func FromContext(ctx context.Context) *Collector {
	c, _ := ctx.Value(collectorKey{}).(*Collector)
	return c
}
