package heal

import (
	"sync"

	"github.com/entrhq/heal/pkg/logging"
)

var (
	debugLog     *logging.Logger
	debugLogOnce sync.Once
)

func defaultLogger() Logger {
	debugLogOnce.Do(func() {
		var err error
		debugLog, err = logging.NewLogger("heal")
		if err != nil {
			// Logger fell back to stderr
			debugLog.Warnf("Failed to initialize heal logger, using stderr fallback: %v", err)
		}
	})
	return debugLog
}
