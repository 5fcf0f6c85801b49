// Package testing flips the binaries into test mode when imported from a test.
// Importing it for side effects makes cmd entrypoints return before they dial
// Postgres or Redis.
package testing

import (
	"os"
	"sync"
)

const testModeEnv = "AJR_TEST_MODE"

var once sync.Once

// Enable sets AJR_TEST_MODE unless the caller already chose a value.
func Enable() {
	once.Do(func() {
		if os.Getenv(testModeEnv) == "" {
			_ = os.Setenv(testModeEnv, "1")
		}
	})
}

func init() {
	Enable()
}
