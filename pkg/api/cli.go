package api

import (
	"github.com/nextride/nextride/pkg/cache"
	"github.com/nextride/nextride/pkg/config"
	"github.com/nextride/nextride/pkg/database"
	"github.com/nextride/nextride/pkg/gtfs_rt"
	"github.com/nextride/nextride/pkg/redis_client"
	"github.com/nextride/nextride/pkg/resolver"
	"github.com/nextride/nextride/pkg/schedulestore"
	"github.com/nextride/nextride/pkg/siri_sm"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the core web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					appConfig, err := config.Load()
					if err != nil {
						return err
					}

					if err := database.Connect(); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						return err
					}

					store := schedulestore.NewStore(database.GlobalConnection)

					coordinator := resolver.NewCoordinator(
						store,
						buildPredictionClient(appConfig, store),
						resolver.Options{
							CacheTTL:   appConfig.Engine.CacheTTL(),
							Window:     appConfig.Engine.Window(),
							Tolerance:  appConfig.Engine.MatchTolerance(),
							MaxResults: appConfig.Engine.MaxResults,
						},
						cache.Setup(appConfig.Engine.CacheTTL()),
						resolver.NewMetrics(prometheus.DefaultRegisterer),
					)

					return SetupServer(c.String("listen"), coordinator, store)
				},
			},
		},
	}
}

func buildPredictionClient(appConfig config.AppConfig, store *schedulestore.Store) resolver.PredictionClient {
	if appConfig.SIRI.Endpoint == "" {
		log.Warn().Msg("No SIRI endpoint configured, serving mock predictions")
		return siri_sm.NewMockClient(store, appConfig.Engine.Window())
	}

	primary := siri_sm.NewClient(
		appConfig.SIRI.Endpoint,
		appConfig.SIRI.UserKey,
		appConfig.Engine.LiveTimeout(),
		appConfig.Engine.UpstreamPoolSize,
	)

	if appConfig.GTFSRT.TripUpdatesURL == "" {
		return primary
	}

	return &resolver.FallbackClient{
		Primary:   primary,
		Secondary: gtfs_rt.NewClient(appConfig.GTFSRT.TripUpdatesURL, appConfig.Engine.LiveTimeout(), store),
	}
}
