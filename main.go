package main

import (
	"log"
	"os"

	"github.com/mpucli/mpu/cmd"
	"github.com/mpucli/mpu/config"
	"github.com/urfave/cli/v2"
)

func main() {
	// Initialize config
	config.InitConfig()

	// Initialize CLI app
	app := &cli.App{
		Name:    "mpu",
		Usage:   "Multipart upload client",
		Version: "0.1.0",
		Commands: []*cli.Command{
			{
				Name:      "upload",
				Usage:     "Upload files to storage via the coordinator",
				Aliases:   []string{"u"},
				ArgsUsage: "<files...>",
				Action:    cmd.Upload,
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:  "chunk-size",
						Usage: "Part size in bytes (overrides config)",
					},
					&cli.StringFlag{
						Name:    "content-type",
						Aliases: []string{"t"},
						Usage:   "Content type for all files (default: by extension)",
					},
				},
			},
			{
				Name:    "sessions",
				Usage:   "List active upload sessions on the coordinator",
				Aliases: []string{"s"},
				Action:  cmd.Sessions,
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
