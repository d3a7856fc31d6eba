package engine

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stats is a snapshot of the controller's counters.
type Stats struct {
	Decisions int64
	Elapsed   time.Duration
	Cached    int64
	Fallbacks int64

	CacheSize int
	CacheCap  int

	Evaluations    int64
	Simulations    int64
	RolloutElapsed time.Duration
}

func (s Stats) AverageLatency() time.Duration {
	if s.Decisions == 0 {
		return 0
	}
	return s.Elapsed / time.Duration(s.Decisions)
}

func (s Stats) AverageSimulation() time.Duration {
	if s.Simulations == 0 {
		return 0
	}
	return s.RolloutElapsed / time.Duration(s.Simulations)
}

func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Stats{
		Decisions: c.st.decisions,
		Elapsed:   c.st.elapsed,
		Cached:    c.st.cached,
		Fallbacks: c.st.fallbacks,
		CacheSize: c.cache.Len(),
		CacheCap:  c.cache.Cap(),
	}
	if c.rollout != nil {
		rs := c.rollout.Stats()
		st.Evaluations = rs.Evaluations
		st.Simulations = rs.Simulations
		st.RolloutElapsed = rs.Elapsed
	}
	return st
}

// PerformanceStats renders Stats on one line for logs and the
// protocol front end.
func (c *Controller) PerformanceStats() string {
	st := c.Stats()
	policy := c.Policy()
	p := message.NewPrinter(language.English)
	out := p.Sprintf("decisions=%d avg=%s cache=%d/%d hits=%d fallbacks=%d policy=%s",
		st.Decisions, st.AverageLatency(), st.CacheSize, st.CacheCap,
		st.Cached, st.Fallbacks, policy)
	if st.Simulations > 0 {
		out += p.Sprintf(" simulations=%d avg_sim=%s", st.Simulations, st.AverageSimulation())
	}
	return out
}
