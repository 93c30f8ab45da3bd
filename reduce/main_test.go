package reduce

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"

	_ "github.com/msoos/cryptominisat-sub002/retention/models"
)

func TestMain(m *testing.M) {
	// Suppress rejected-candidate warnings during tests.
	// Set DEBUG_TESTS=1 to see full logs: DEBUG_TESTS=1 go test ./reduce/... -v
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.ErrorLevel)
	}
	os.Exit(m.Run())
}
