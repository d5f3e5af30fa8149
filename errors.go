package quarry

import "errors"

var (
	// ErrEngineClosed is returned when starting a query on a closed engine.
	ErrEngineClosed = errors.New("quarry: engine is closed")

	// ErrBudgetNotDrained is returned by Query.Close and Engine.Close when
	// reserved memory is still outstanding, i.e. blocks were leaked.
	ErrBudgetNotDrained = errors.New("quarry: memory budget not drained")
)
