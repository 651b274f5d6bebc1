package querystats

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Options configure the request middleware. They are read once at wiring
// time and never mutated afterwards.
type Options struct {
	// Enabled turns query capture on. When false no collector is attached,
	// recording is a no-op, and requests are logged without database
	// statistics.
	Enabled bool

	// DetailedDiagnostics turns on stack capture and the per-group detail
	// entries for repeated queries.
	DetailedDiagnostics bool

	// DetailThreshold gates detail entries: a group is logged when its
	// count is strictly greater than the threshold. At the default 0 every
	// executed group qualifies; raising it suppresses low-repeat groups.
	DetailThreshold int

	// SummaryLevel is the severity of the summary entry for 2xx/3xx
	// responses. 4xx responses log at Warn and 5xx at Error regardless.
	SummaryLevel slog.Level
}

// Middleware returns an HTTP middleware that attaches a fresh query
// collector to each request and, when the request finishes, logs one summary
// entry with the request's query count and cumulative query time, plus one
// detail entry per repeated query group when detailed diagnostics are on.
//
// The summary is emitted from a deferred block, so it survives handler
// panics; the collector never outlives the request it belongs to. Failures
// inside the logging path are swallowed: the request outcome is never
// affected by instrumentation.
func Middleware(opts Options, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			var col *Collector
			if opts.Enabled {
				col = NewCollector(opts.DetailedDiagnostics)
				r = r.WithContext(WithCollector(r.Context(), col))
			}

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				status := ww.Status()
				if rec := recover(); rec != nil {
					if status == 0 {
						status = http.StatusInternalServerError
					}
					logRequest(logger, opts, r, ww, col, status, time.Since(start))
					panic(rec)
				}
				if status == 0 {
					status = http.StatusOK
				}
				logRequest(logger, opts, r, ww, col, status, time.Since(start))
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// logRequest emits the summary and detail entries. Any panic inside stays
// here: stats degrade to nothing rather than breaking the response.
func logRequest(logger *slog.Logger, opts Options, r *http.Request, ww chimw.WrapResponseWriter, col *Collector, status int, elapsed time.Duration) {
	defer func() {
		if rec := recover(); rec != nil {
			defer func() { _ = recover() }()
			logger.Debug("request stats logging failed", "panic", fmt.Sprint(rec))
		}
	}()

	level := opts.SummaryLevel
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}

	attrs := make([]slog.Attr, 0, 14)
	attrs = append(attrs,
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			attrs = append(attrs, slog.String("route", pattern))
		}
	}
	attrs = append(attrs,
		slog.Int("status", status),
		slog.Int("bytes", ww.BytesWritten()),
		slog.Float64("duration_ms", durationMs(elapsed, 2)),
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("proto", r.Proto),
		slog.String("host", r.Host),
	)
	if q := r.URL.RawQuery; q != "" {
		attrs = append(attrs, slog.String("query_string", q))
	}
	if ua := r.UserAgent(); ua != "" {
		attrs = append(attrs, slog.String("user_agent", ua))
	}
	if id := ww.Header().Get("X-Request-ID"); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if col != nil {
		attrs = append(attrs,
			slog.Int("db_query_count", col.Count()),
			slog.Float64("db_query_time_ms", durationMs(col.Total(), 3)),
		)
	}
	logger.LogAttrs(r.Context(), level, "request complete", attrs...)

	if col == nil || !opts.DetailedDiagnostics {
		return
	}
	for _, g := range col.Summarize() {
		if g.Count <= opts.DetailThreshold {
			continue
		}
		logger.LogAttrs(r.Context(), slog.LevelWarn, "repeated query",
			slog.String("query", g.SQL),
			slog.Int("count", g.Count),
			slog.Float64("total_ms", durationMs(g.Total, 3)),
			slog.String("stack", formatStacks(g.Stacks)),
		)
	}
}

// durationMs converts to milliseconds rounded to the given number of decimal
// places, keeping log output compact.
func durationMs(d time.Duration, decimals int) float64 {
	pow := math.Pow10(decimals)
	return math.Round(float64(d)/float64(time.Millisecond)*pow) / pow
}

// formatStacks renders a group's call sites, busiest first, each prefixed
// with the number of queries it issued.
func formatStacks(stacks []StackCount) string {
	if len(stacks) == 0 {
		return ""
	}
	parts := make([]string, 0, len(stacks))
	for _, sc := range stacks {
		parts = append(parts, fmt.Sprintf("%d queries from:\n%s", sc.Count, sc.Stack))
	}
	return strings.Join(parts, "\n")
}
