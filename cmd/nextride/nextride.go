package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kr/pretty"
	"github.com/nextride/nextride/pkg/api"
	"github.com/nextride/nextride/pkg/config"
	"github.com/nextride/nextride/pkg/dataimporter"
	"github.com/nextride/nextride/pkg/siri_sm"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	godotenv.Load()

	if os.Getenv("NEXTRIDE_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("NEXTRIDE_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "nextride",
		Description: "Single binary of truth for Nextride - runs all the services",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			dataimporter.RegisterCLI(),
			siriDebugCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}

func siriDebugCLI() *cli.Command {
	return &cli.Command{
		Name:  "siri",
		Usage: "SIRI-SM debugging helpers",
		Subcommands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "Fetch and dump live predictions for a stop",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "stop",
						Usage:    "Stop code to query",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					appConfig, err := config.Load()
					if err != nil {
						return err
					}

					client := siri_sm.NewClient(
						appConfig.SIRI.Endpoint,
						appConfig.SIRI.UserKey,
						appConfig.Engine.LiveTimeout(),
						appConfig.Engine.UpstreamPoolSize,
					)

					predictions, err := client.Fetch(context.Background(), c.String("stop"))
					if err != nil {
						return err
					}

					pretty.Println(predictions)
					return nil
				},
			},
		},
	}
}
