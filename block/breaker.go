package block

// Breaker is the narrow contract through which the factory draws on the
// execution-time memory budget. Reserve must either account the full amount
// and return nil, or account nothing and return an error; partial
// reservations are never observable. Implementations must be safe for
// concurrent use, since drivers on different goroutines share one budget.
//
// resource.Controller satisfies Breaker.
type Breaker interface {
	Reserve(bytes int64) error
	Release(bytes int64)
}

// unlimitedBreaker tracks nothing and never breaks. Used when a factory is
// constructed without a budget, e.g. in tests.
type unlimitedBreaker struct{}

func (unlimitedBreaker) Reserve(int64) error { return nil }
func (unlimitedBreaker) Release(int64)       {}
