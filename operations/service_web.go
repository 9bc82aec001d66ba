package operations

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/grip/recovery"
	"github.com/pkg/errors"
	"github.com/trailmark/trailmark"
	"github.com/trailmark/trailmark/rest/data"
	"github.com/trailmark/trailmark/service"
	"github.com/urfave/cli"
)

func startWebService() cli.Command {
	return cli.Command{
		Name:  "web",
		Usage: "start the destination REST service",
		Flags: serviceConfigFlags(portFlag(databaseFlags()...)...),
		Action: func(c *cli.Context) error {
			settings, err := loadServiceSettings(c)
			if err != nil {
				return errors.Wrap(err, "loading settings")
			}
			grip.Warning(errors.Wrap(setLogLevel(settings.LogLevel), "setting log level"))

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			defer recovery.LogStackTraceAndExit("trailmark web service")

			env, err := trailmark.NewEnvironment(ctx, settings)
			if err != nil {
				return errors.Wrap(err, "configuring application environment")
			}
			trailmark.SetEnvironment(env)

			grip.Notice(message.Fields{
				"build":    trailmark.BuildRevision,
				"process":  grip.Name(),
				"database": settings.Database.DB,
				"port":     settings.Port,
			})

			handler, err := service.GetRouter(&data.DBConnector{})
			if err != nil {
				grip.Error(errors.Wrap(env.Close(ctx), "closing environment"))
				return errors.Wrap(err, "building router")
			}

			go listenForShutdownSignal(cancel)

			srv := service.GetServer(fmt.Sprintf(":%d", settings.Port), handler)
			catcher := grip.NewBasicCatcher()
			catcher.Add(service.Serve(ctx, srv, settings.ShutdownWait()))

			closeCtx, closeCancel := context.WithTimeout(context.Background(), settings.ShutdownWait())
			defer closeCancel()
			catcher.Wrap(env.Close(closeCtx), "closing environment")

			grip.Notice(message.Fields{
				"message": "service stopped",
				"process": grip.Name(),
			})
			return catcher.Resolve()
		},
	}
}

// loadServiceSettings reads the configuration file, if there is one, and
// applies the environment and then the command line flags on top of it. The
// default file path is allowed to be missing.
func loadServiceSettings(c *cli.Context) (*trailmark.Settings, error) {
	confPath := c.String(confFlagName)
	if !c.IsSet(confFlagName) && !utility.FileExists(confPath) {
		confPath = ""
	}

	return trailmark.LoadSettings(confPath, func(s *trailmark.Settings) {
		if url := c.String(dbURLFlagName); url != "" {
			s.Database.Url = url
		}
		if name := c.String(dbNameFlagName); name != "" {
			s.Database.DB = name
		}
		if port := c.Int(portFlagName); port != 0 {
			s.Port = port
		}
		if level := c.GlobalString("level"); c.GlobalIsSet("level") && level != "" {
			s.LogLevel = level
		}
	})
}

func listenForShutdownSignal(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	sig := <-sigChan
	grip.Info(message.Fields{
		"message": "received shutdown signal",
		"signal":  sig.String(),
	})
	cancel()
}
