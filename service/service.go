package service

import (
	"context"
	"net/http"
	"time"

	"github.com/evergreen-ci/gimlet"
	"github.com/gorilla/handlers"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/grip/recovery"
	"github.com/pkg/errors"
	"github.com/trailmark/trailmark"
	"github.com/trailmark/trailmark/rest/data"
	"github.com/trailmark/trailmark/rest/route"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// GetServer produces an HTTP server instance for a handler.
func GetServer(addr string, n http.Handler) *http.Server {
	grip.Notice(message.Fields{
		"action":  "starting service",
		"service": addr,
		"build":   trailmark.BuildRevision,
		"process": grip.Name(),
	})

	return &http.Server{
		Addr:              addr,
		Handler:           n,
		ReadTimeout:       time.Minute,
		ReadHeaderTimeout: 30 * time.Second,
		WriteTimeout:      time.Minute,
	}
}

// GetRouter builds the application's handler: the welcome route, the
// destination and user routes backed by sc, and the tracing and
// compression wrappers around them.
func GetRouter(sc data.Connector) (http.Handler, error) {
	app := gimlet.NewApp()
	app.NoVersions = true
	app.AddMiddleware(gimlet.MakeRecoveryLogger())
	app.AddRoute("/").Get().Handler(welcome)
	route.AttachHandler(app, sc)

	if err := app.Resolve(); err != nil {
		return nil, errors.Wrap(err, "resolving routes")
	}
	router, err := app.Router()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	router.Use(otelmux.Middleware(trailmark.ServiceName))

	n, err := app.Handler()
	if err != nil {
		return nil, errors.Wrap(err, "building application handler")
	}

	return otelhttp.NewHandler(handlers.CompressHandler(n), trailmark.ServiceName), nil
}

func welcome(rw http.ResponseWriter, r *http.Request) {
	gimlet.WriteText(rw, trailmark.WelcomeMessage)
}

// Serve runs the server until ctx is canceled, then shuts it down, waiting
// up to wait for in-flight requests to finish.
func Serve(ctx context.Context, srv *http.Server, wait time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		defer recovery.LogStackTraceAndContinue("trailmark web service")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrapf(err, "serving on '%s'", srv.Addr)
	case <-ctx.Done():
	}

	grip.Info(message.Fields{
		"message": "shutting down service",
		"service": srv.Addr,
		"wait":    wait.String(),
	})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down server")
	}
	return nil
}
