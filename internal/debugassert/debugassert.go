// Package debugassert implements the "debug assertion, silent no-op in
// production" error-handling rule: misuse such as a malformed Alertable or
// removing an absent Utterance panics when built with `-tags debug`, and is
// silently ignored otherwise.
package debugassert
