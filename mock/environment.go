package mock

import (
	"context"
	"sync"
	"testing"

	"github.com/mongodb/grip"
	"github.com/trailmark/trailmark"
	"github.com/trailmark/trailmark/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

// this is just a hack to ensure that compile breaks clearly if the
// mock implementation diverges from the interface
var _ trailmark.Environment = &Environment{}

// Environment is an in-process trailmark.Environment. MongoClient may be any
// client, typically one backed by the driver's mock deployment.
type Environment struct {
	TrailmarkSettings *trailmark.Settings
	MongoClient       *mongo.Client

	Closers map[string]func(context.Context) error
	mu      sync.RWMutex
}

// Configure sets up the environment with the mock settings and the given
// client.
func (e *Environment) Configure(client *mongo.Client) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.TrailmarkSettings = testutil.MockConfig()
	e.MongoClient = client
	e.Closers = map[string]func(context.Context) error{}
}

func (e *Environment) Settings() *trailmark.Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.TrailmarkSettings
}

func (e *Environment) Client() *mongo.Client {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.MongoClient
}

func (e *Environment) DB() *mongo.Database {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.MongoClient == nil {
		return nil
	}
	return e.MongoClient.Database(e.TrailmarkSettings.Database.DB)
}

func (e *Environment) RegisterCloser(name string, closer func(context.Context) error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.Closers == nil {
		e.Closers = map[string]func(context.Context) error{}
	}
	e.Closers[name] = closer
}

// Close runs the registered closers. The client is owned by the caller and
// is not disconnected.
func (e *Environment) Close(ctx context.Context) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	catcher := grip.NewBasicCatcher()
	for _, closer := range e.Closers {
		catcher.Add(closer(ctx))
	}
	return catcher.Resolve()
}

// SetGlobalEnvironment configures an Environment around client, installs it
// as the global environment for the duration of the test and returns it.
func SetGlobalEnvironment(t testing.TB, client *mongo.Client) *Environment {
	env := &Environment{}
	env.Configure(client)

	prev := trailmark.GetEnvironment()
	trailmark.SetEnvironment(env)
	t.Cleanup(func() { trailmark.SetEnvironment(prev) })

	return env
}
