package poolshark

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// logger backs SetLogger/Logger. It defaults to a no-op logger so that the
// pools stay silent unless a caller opts in, matching the "every failure
// is silent admission failure" contract in the spec's error-handling
// design: nothing here is an error, these are Debug-level breadcrumbs for
// the small set of conditions the spec leaves "diagnostic unspecified".
var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// SetLogger installs l as the package-wide diagnostic logger for
// poolshark and its subpackages (lpool, gpool, rcpool). Passing nil
// restores the no-op default. Safe to call concurrently with pool
// operations.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// Logger returns the currently installed diagnostic logger.
func Logger() *zap.Logger {
	return logger.Load()
}
