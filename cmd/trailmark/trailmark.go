package main

import (
	"os"

	"github.com/mongodb/grip"
	"github.com/trailmark/trailmark"
	"github.com/trailmark/trailmark/operations"
	"github.com/urfave/cli"
	"go.uber.org/automaxprocs/maxprocs"
)

func main() {
	if _, err := maxprocs.Set(maxprocs.Logger(grip.Debugf)); err != nil {
		grip.Warningf("problem setting GOMAXPROCS: %s", err)
	}

	app := buildApp()
	grip.EmergencyFatal(app.Run(os.Args))
}

func buildApp() *cli.App {
	app := cli.NewApp()
	app.Name = trailmark.ServiceName
	app.Usage = "travel destination directory service"
	app.Version = trailmark.BuildRevision

	app.Commands = []cli.Command{
		operations.Service(),
	}

	// These are global options. Use this to configure logging or
	// other options independent from specific sub commands.
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "level",
			Value:  trailmark.DefaultLogLevel,
			EnvVar: trailmark.LogLevelEnvVar,
			Usage:  "Specify lowest visible log level as string: 'emergency|alert|critical|error|warning|notice|info|debug|trace'",
		},
	}

	app.Before = func(c *cli.Context) error {
		return operations.SetupLogging(app.Name, c.String("level"))
	}

	return app
}
