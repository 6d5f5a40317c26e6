package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
)

var manifestCommand = &cli.Command{
	Name:      "manifest",
	Usage:     "fetch an image manifest and print it",
	ArgsUsage: "<registry-base> <repository> <reference>",
	Flags: []cli.Flag{
		insecureFlag,
		debugFlag,
	},
	Action: runManifest,
}

func runManifest(ctx *cli.Context) error {
	if ctx.NArg() != 3 {
		return errors.New("registry base, repository and reference required")
	}

	client := newClient(ctx)
	manifest, err := client.PullManifest(ctx.Context, ctx.Args().Get(0), ctx.Args().Get(1), ctx.Args().Get(2))
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	return nil
}
