package operations

import "github.com/urfave/cli"

func Service() cli.Command {
	return cli.Command{
		Name:  "service",
		Usage: "run trailmark services",
		Subcommands: []cli.Command{
			startWebService(),
		},
	}
}
