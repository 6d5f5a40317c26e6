package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/singularityhub/layerfetch/pkg/progress"
	"github.com/singularityhub/layerfetch/pkg/registry"
)

const (
	insecureStr = "insecure"
	headerStr   = "header"
	debugStr    = "debug"
	widthStr    = "width"
)

var (
	insecureFlag = &cli.BoolFlag{
		Name:  insecureStr,
		Usage: "disable TLS certificate verification",
	}

	headerFlag = &cli.StringSliceFlag{
		Name:    headerStr,
		Aliases: []string{"H"},
		Usage:   "additional request header, key=value",
	}

	debugFlag = &cli.BoolFlag{
		Name:  debugStr,
		Usage: "enable debug logs",
	}

	widthFlag = &cli.IntFlag{
		Name:  widthStr,
		Usage: "progress bar width",
		Value: progress.DefaultWidth,
	}
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func newClient(ctx *cli.Context) *registry.Client {
	level := zerolog.InfoLevel
	if ctx.Bool(debugStr) {
		level = zerolog.DebugLevel
	}

	return registry.NewClient(registry.Options{
		Insecure: ctx.Bool(insecureStr),
		Progress: progress.NewBar(os.Stderr),
		BarWidth: ctx.Int(widthStr),
	}, logger.Level(level))
}

func headers(ctx *cli.Context) (registry.Headers, error) {
	h := registry.Headers{}
	for _, kv := range ctx.StringSlice(headerStr) {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed header %q, expected key=value", kv)
		}
		h[parts[0]] = parts[1]
	}
	return h, nil
}
