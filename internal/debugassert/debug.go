//go:build debug

package debugassert

import "fmt"

// Fail panics with the formatted message. Only compiled into `-tags debug`
// builds.
func Fail(format string, args ...interface{}) {
	panic(fmt.Sprintf(format, args...))
}
