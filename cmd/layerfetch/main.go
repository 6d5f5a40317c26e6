package main

import (
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:    "layerfetch",
		Usage:   "fetch remote registry artifacts with bearer token auth",
		Version: "0.1.0",
		Commands: []*cli.Command{
			fetchCommand,
			manifestCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal().Msg(err.Error())
	}
}
