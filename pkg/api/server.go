package api

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/nextride/nextride/pkg/api/routes"
	"github.com/nextride/nextride/pkg/resolver"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupServer(listen string, coordinator *resolver.Coordinator, store routes.TripFinder) error {
	webApp := CreateServer(coordinator, store)

	return webApp.Listen(listen)
}

// CreateServer builds the fiber application without binding a listener so
// tests can drive it through app.Test.
func CreateServer(coordinator *resolver.Coordinator, store routes.TripFinder) *fiber.App {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.StopsRouter(group.Group("/stops"), coordinator)
	routes.OperatorsRouter(group.Group("/operators"), store)

	webApp.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return webApp
}
