package dataimporter

import (
	"context"

	"github.com/nextride/nextride/pkg/database"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "data-importer",
		Usage: "Import third party datasets",
		Subcommands: []*cli.Command{
			{
				Name:  "gtfs",
				Usage: "Import a GTFS schedule archive into the schedule store",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path of the GTFS zip archive",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}

					path := c.String("file")

					log.Info().Str("file", path).Msg("Parsing GTFS archive")
					schedule, err := ParseScheduleZip(path)
					if err != nil {
						return err
					}

					if err := schedule.Import(context.Background(), database.GlobalConnection); err != nil {
						return err
					}

					log.Info().Msg("Import complete")
					return nil
				},
			},
		},
	}
}
