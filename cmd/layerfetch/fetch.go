package main

import (
	"errors"

	"github.com/urfave/cli/v2"
)

var fetchCommand = &cli.Command{
	Name:      "fetch",
	Usage:     "download a remote artifact to a local file",
	ArgsUsage: "<url> <destination>",
	Flags: []cli.Flag{
		insecureFlag,
		headerFlag,
		debugFlag,
		widthFlag,
	},
	Action: runFetch,
}

func runFetch(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return errors.New("url and destination required")
	}

	h, err := headers(ctx)
	if err != nil {
		return err
	}

	client := newClient(ctx)
	dest, err := client.DownloadTask(ctx.Context, ctx.Args().Get(0), h, ctx.Args().Get(1), "layer")
	if err != nil {
		return err
	}

	logger.Info().Msgf("downloaded %v", dest)
	return nil
}
