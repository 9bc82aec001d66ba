package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/stretchr/testify/require"
	"github.com/trailmark/trailmark"
)

const (
	// TestDatabase is the database integration tests write to.
	TestDatabase = "trailmark_test"

	defaultTestURI = "mongodb://localhost:27017"
)

// TestConfig creates settings for tests that talk to a real server, taken
// from MONGODB_URI with the test database.
func TestConfig() *trailmark.Settings {
	uri := os.Getenv(trailmark.MongoURIEnvVar)
	if uri == "" {
		uri = defaultTestURI
	}

	settings := &trailmark.Settings{
		Database: trailmark.DBSettings{
			Url: uri,
			DB:  TestDatabase,
		},
	}
	grip.EmergencyPanic(message.WrapError(settings.Validate(), message.Fields{
		"message": "invalid test settings",
	}))

	return settings
}

// MockConfig returns fully populated settings that do not refer to a
// reachable server.
func MockConfig() *trailmark.Settings {
	return &trailmark.Settings{
		Database: trailmark.DBSettings{
			Url: "mongodb://localhost:27017",
			DB:  "trailmark_mock",
		},
		Port:                3000,
		LogLevel:            "debug",
		ShutdownWaitSeconds: 5,
		Tracer: trailmark.TracerConfig{
			Enabled:           false,
			CollectorEndpoint: "localhost:4317",
		},
	}
}

// NewEnvironment connects to the test database, sets it as the global
// environment and closes it when the test finishes. The test is skipped
// when no server is reachable.
func NewEnvironment(ctx context.Context, t *testing.T) trailmark.Environment {
	ConfigureIntegrationTest(t)

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	env, err := trailmark.NewEnvironment(connectCtx, TestConfig())
	if err != nil {
		t.Skipf("database is not reachable: %s", err)
	}
	require.NotNil(t, env)

	prev := trailmark.GetEnvironment()
	trailmark.SetEnvironment(env)
	t.Cleanup(func() {
		trailmark.SetEnvironment(prev)
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		require.NoError(t, env.Close(closeCtx))
	})

	return env
}
