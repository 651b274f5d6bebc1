package querystats

import (
	"sort"
	"time"
)

// QueryEvent is one observed database statement. Events are immutable once
// recorded.
type QueryEvent struct {
	SQL      string        // normalized statement text
	Duration time.Duration // execution time reported by the driver
	Stack    string        // formatted call stack; empty unless stack capture is on
}

// Collector accumulates the query events of a single request, in execution
// order. A collector belongs to exactly one in-flight request and must not
// be shared across goroutines; that single ownership is what makes it safe
// without locking. It is created when the request starts and discarded when
// the request's summary has been logged.
type Collector struct {
	captureStacks bool
	events        []QueryEvent
	total         time.Duration
}

// NewCollector returns an empty collector. When captureStacks is true the
// stack supplier passed to Record is evaluated and its result stored with
// each event; otherwise the supplier is never invoked.
func NewCollector(captureStacks bool) *Collector {
	return &Collector{captureStacks: captureStacks}
}

// Record appends one query observation. It is invoked synchronously by the
// driver wrapper after each statement completes, whether or not the
// statement succeeded. Recording never disturbs the request: a nil collector
// is a no-op and internal panics are swallowed, degrading to missing stats
// rather than a failed query.
func (c *Collector) Record(query string, d time.Duration, stack StackFunc) {
	if c == nil {
		return
	}
	defer func() {
		_ = recover()
	}()

	var s string
	if c.captureStacks && stack != nil {
		s = stack()
	}
	c.events = append(c.events, QueryEvent{SQL: Normalize(query), Duration: d, Stack: s})
	c.total += d
}

// Count returns the number of recorded events.
func (c *Collector) Count() int {
	if c == nil {
		return 0
	}
	return len(c.events)
}

// Total returns the summed duration of all recorded events.
func (c *Collector) Total() time.Duration {
	if c == nil {
		return 0
	}
	return c.total
}

// Events returns the recorded events in execution order. The returned slice
// is the collector's own backing store; callers must not mutate it.
func (c *Collector) Events() []QueryEvent {
	if c == nil {
		return nil
	}
	return c.events
}

// StackCount is one distinct call site within a QueryGroup and how many of
// the group's executions it issued.
type StackCount struct {
	Stack string
	Count int
}

// QueryGroup aggregates all executions of one normalized statement within a
// request. Stacks lists the distinct call sites ordered by their own counts,
// so Stacks[0] is the representative site; it is empty when stack capture
// was off. The sum of Count over all groups equals the collector's Count.
type QueryGroup struct {
	SQL    string
	Count  int
	Total  time.Duration
	Stacks []StackCount
}

// Summarize aggregates the recorded events by normalized statement text.
// Groups are ordered by descending count, ties keeping first-execution
// order.
func (c *Collector) Summarize() []QueryGroup {
	if c == nil || len(c.events) == 0 {
		return nil
	}

	index := make(map[string]int, len(c.events))
	groups := make([]QueryGroup, 0, len(c.events))
	for _, ev := range c.events {
		i, ok := index[ev.SQL]
		if !ok {
			i = len(groups)
			index[ev.SQL] = i
			groups = append(groups, QueryGroup{SQL: ev.SQL})
		}
		g := &groups[i]
		g.Count++
		g.Total += ev.Duration
		if ev.Stack != "" {
			addStack(g, ev.Stack)
		}
	}

	for i := range groups {
		sort.SliceStable(groups[i].Stacks, func(a, b int) bool {
			return groups[i].Stacks[a].Count > groups[i].Stacks[b].Count
		})
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Count > groups[b].Count
	})
	return groups
}

func addStack(g *QueryGroup, stack string) {
	for i := range g.Stacks {
		if g.Stacks[i].Stack == stack {
			g.Stacks[i].Count++
			return
		}
	}
	g.Stacks = append(g.Stacks, StackCount{Stack: stack, Count: 1})
}
