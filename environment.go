package trailmark

import (
	"context"
	"sync"
	"time"

	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

var (
	globalEnv     Environment
	globalEnvLock = &sync.RWMutex{}
)

// GetEnvironment returns the global application level environment. It must
// be set with SetEnvironment before any database helper is used.
//
// The db and model packages use the global environment; everything else
// should have it passed in. There is a mock implementation for use in
// testing.
func GetEnvironment() Environment {
	globalEnvLock.RLock()
	defer globalEnvLock.RUnlock()

	return globalEnv
}

// SetEnvironment replaces the global environment.
func SetEnvironment(env Environment) {
	globalEnvLock.Lock()
	defer globalEnvLock.Unlock()

	globalEnv = env
}

// Environment provides application-level services: the settings and the
// single database client shared by every request.
type Environment interface {
	// Settings returns the settings object. It is not safe to modify
	// concurrently.
	Settings() *Settings

	Client() *mongo.Client
	DB() *mongo.Database

	// RegisterCloser adds a function to be called by Close. The name is
	// used in reporting and must be unique.
	RegisterCloser(string, func(context.Context) error)
	// Close calls all registered closers, including disconnecting the
	// database client.
	Close(context.Context) error
}

// NewEnvironment connects to the database described by settings and
// returns an environment that owns the connection. Callers must call Close
// to release it.
func NewEnvironment(ctx context.Context, settings *Settings) (Environment, error) {
	if settings == nil {
		return nil, errors.New("settings must not be nil")
	}
	if err := settings.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating settings")
	}

	e := &envState{
		settings: settings,
		closers:  map[string]func(context.Context) error{},
	}

	if err := e.initDB(ctx); err != nil {
		return nil, errors.Wrap(err, "initializing database")
	}
	if err := e.initTracer(ctx); err != nil {
		grip.Warning(message.WrapError(e.Close(ctx), message.Fields{
			"message": "problem closing environment after failed tracer setup",
		}))
		return nil, errors.Wrap(err, "initializing tracer")
	}

	return e, nil
}

type envState struct {
	settings *Settings
	client   *mongo.Client
	closers  map[string]func(context.Context) error
	mu       sync.RWMutex
}

func (e *envState) initDB(ctx context.Context) error {
	connectCtx, cancel := context.WithTimeout(ctx, DefaultConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(e.settings.Database.Url).
		SetConnectTimeout(DefaultConnectTimeout).
		SetServerSelectionTimeout(DefaultConnectTimeout)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return errors.Wrap(err, "connecting to the database")
	}

	if err = client.Ping(connectCtx, readpref.Primary()); err != nil {
		grip.Warning(message.WrapError(client.Disconnect(ctx), message.Fields{
			"message": "problem disconnecting after failed ping",
		}))
		return errors.Wrap(err, "pinging the database")
	}

	grip.Info(message.Fields{
		"message":  "connected to the database",
		"database": e.settings.Database.DB,
	})

	e.client = client
	e.closers["database"] = func(ctx context.Context) error {
		return errors.Wrap(client.Disconnect(ctx), "disconnecting from the database")
	}

	return nil
}

func (e *envState) initTracer(ctx context.Context) error {
	if !e.settings.Tracer.Enabled {
		return nil
	}

	resource := resource.NewWithAttributes(semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(BuildRevision),
	)
	client := otlptracegrpc.NewClient(
		otlptracegrpc.WithEndpoint(e.settings.Tracer.CollectorEndpoint),
	)
	exp, err := otlptrace.New(ctx, client)
	if err != nil {
		return errors.Wrap(err, "initializing otel exporter")
	}

	spanLimits := sdktrace.NewSpanLimits()
	spanLimits.AttributeValueLengthLimit = OtelAttributeMaxLength

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource),
		sdktrace.WithRawSpanLimits(spanLimits),
	)
	tp.RegisterSpanProcessor(utility.NewAttributeSpanProcessor())
	otel.SetTracerProvider(tp)
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		grip.Error(errors.Wrap(err, "otel error"))
	}))

	e.closers["tracer"] = func(ctx context.Context) error {
		catcher := grip.NewBasicCatcher()
		catcher.Add(tp.Shutdown(ctx))
		catcher.Add(exp.Shutdown(ctx))
		return catcher.Resolve()
	}

	return nil
}

func (e *envState) Settings() *Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.settings
}

func (e *envState) Client() *mongo.Client {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.client
}

func (e *envState) DB() *mongo.Database {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.client.Database(e.settings.Database.DB)
}

func (e *envState) RegisterCloser(name string, closer func(context.Context) error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.closers[name]; ok {
		grip.Critical(message.Fields{
			"closer":  name,
			"message": "duplicate closer registered",
			"cause":   "programmer error",
		})
	}
	e.closers[name] = closer
}

func (e *envState) Close(ctx context.Context) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	deadline, _ := ctx.Deadline()
	catcher := grip.NewCatcher()
	wg := &sync.WaitGroup{}
	for n, closer := range e.closers {
		if closer == nil {
			continue
		}

		wg.Add(1)
		go func(name string, close func(context.Context) error) {
			defer wg.Done()
			grip.Info(message.Fields{
				"message":      "calling closer",
				"closer":       name,
				"timeout_secs": time.Until(deadline).Seconds(),
				"deadline":     deadline,
			})
			catcher.Add(close(ctx))
		}(n, closer)
	}

	wg.Wait()
	return catcher.Resolve()
}
