//go:build !debug

package debugassert

// Fail is a no-op in production builds: the call is silently dropped.
func Fail(format string, args ...interface{}) {}
