package evaluator

// Budget holds the resource limits for a program execution.
// A zero MaxDepth leaves recursion bounded only by the host stack.
type Budget struct {
	MaxDepth int
}

// BudgetTracker tracks resource consumption during execution. Calls counts
// only calls that were admitted.
type BudgetTracker struct {
	Calls    int64
	Depth    int
	MaxDepth int
}

func (ev *evaluator) enterCall() error {
	if ev.budget.MaxDepth > 0 && ev.tracker.Depth >= ev.budget.MaxDepth {
		return &DepthExceededError{Max: ev.budget.MaxDepth}
	}
	ev.tracker.Calls++
	ev.tracker.Depth++
	if ev.tracker.Depth > ev.tracker.MaxDepth {
		ev.tracker.MaxDepth = ev.tracker.Depth
	}
	return nil
}

func (ev *evaluator) leaveCall() {
	ev.tracker.Depth--
}
