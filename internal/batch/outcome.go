package batch

// Outcome is the result of running the worker on a single item.
// Exactly one of Value or Err is meaningful: Err is nil on success.
type Outcome[R any] struct {
	// Index is the item's position in the input slice.
	Index int

	// Value is the worker's result. It is the zero value when Err is set.
	Value R

	// Err describes why the worker failed for this item.
	Err *ErrorInfo
}

// Succeeded reports whether the worker returned without error.
func (o Outcome[R]) Succeeded() bool {
	return o.Err == nil
}

// Failed reports whether the worker returned an error or panicked.
func (o Outcome[R]) Failed() bool {
	return o.Err != nil
}

// Summary holds aggregate counts over a set of outcomes.
type Summary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Summarize counts successes and failures.
func Summarize[R any](outcomes []Outcome[R]) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.Failed() {
			s.Failed++
		} else {
			s.Succeeded++
		}
	}
	return s
}

// AllFailed reports whether at least one item ran and none of them succeeded.
func (s Summary) AllFailed() bool {
	return s.Total > 0 && s.Succeeded == 0
}
