// Package batch runs a caller-supplied unit of work over an ordered set of
// items with a hard cap on how many invocations are in flight at once.
//
// Every item yields exactly one Outcome, tagged with its position in the
// input, and the returned slice is always ordered by that position no matter
// in which order the work finished. A failing (or panicking) worker only
// affects its own Outcome; siblings keep running and the run as a whole
// always completes.
//
// The runner does not retry and does not cancel. Retrying a remote call is
// the worker's concern (see generation.RetryPolicy), and the context passed
// to Run is forwarded to every worker so it can observe cancellation itself.
package batch
