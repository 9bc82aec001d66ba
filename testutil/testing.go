package testutil

import (
	"os"
	"strconv"
	"testing"
)

// SkipIntegrationTestsEnvVar disables every test that needs a running
// database server.
const SkipIntegrationTestsEnvVar = "SKIP_INTEGRATION_TESTS"

// ConfigureIntegrationTest skips t when integration tests are disabled.
func ConfigureIntegrationTest(t *testing.T) {
	if skip, _ := strconv.ParseBool(os.Getenv(SkipIntegrationTestsEnvVar)); skip {
		t.Skipf("%s is set, skipping integration test", SkipIntegrationTestsEnvVar)
	}
}
