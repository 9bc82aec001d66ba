package operations

import (
	"strings"

	"github.com/trailmark/trailmark"
	"github.com/urfave/cli"
)

const (
	confFlagName   = "conf"
	dbURLFlagName  = "db-url"
	dbNameFlagName = "db"
	portFlagName   = "port"
)

func joinFlagNames(ids ...string) string { return strings.Join(ids, ", ") }

func serviceConfigFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.StringFlag{
		Name:   joinFlagNames(confFlagName, "config", "c"),
		Usage:  "path to the service configuration file",
		EnvVar: trailmark.SettingsFileEnvVar,
		Value:  trailmark.DefaultSettingsFile,
	})
}

func databaseFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:  dbURLFlagName,
			Usage: "MongoDB connection string (overrides $" + trailmark.MongoURIEnvVar + ")",
		},
		cli.StringFlag{
			Name:  dbNameFlagName,
			Usage: "database name (overrides $" + trailmark.MongoDBNameEnvVar + ")",
		},
	)
}

func portFlag(flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.IntFlag{
		Name:  portFlagName,
		Usage: "port to listen on (overrides $" + trailmark.PortEnvVar + ")",
	})
}
