package routes

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/nextride/nextride/pkg/resolver"
	"github.com/nextride/nextride/pkg/transit"
)

func StopsRouter(router fiber.Router, coordinator *resolver.Coordinator) {
	router.Get("/:identifier", getStop(coordinator))
	router.Get("/:identifier/arrivals", getStopArrivals(coordinator))
}

func getStop(coordinator *resolver.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := c.Params("identifier")

		stop, err := coordinator.Stop(c.Context(), identifier)
		if err != nil {
			return stopLookupError(c, err)
		}

		stopReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: []string{"basic", "detailed"},
		}, stop)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce Stop",
			})
		}

		return c.JSON(stopReduced)
	}
}

func getStopArrivals(coordinator *resolver.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := c.Params("identifier")
		routeFilter := c.Query("filter")

		count, err := strconv.Atoi(c.Query("count", "25"))
		if err != nil || count <= 0 {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Parameter count should be a positive integer",
			})
		}

		board, err := coordinator.Resolve(c.Context(), identifier, routeFilter, time.Now())
		if err != nil {
			return stopLookupError(c, err)
		}

		if len(board.Arrivals) > count {
			trimmed := *board
			trimmed.Arrivals = board.Arrivals[:count]
			board = &trimmed
		}

		boardReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: []string{"basic"},
		}, board)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce StopBoard",
			})
		}

		return c.JSON(boardReduced)
	}
}

func stopLookupError(c *fiber.Ctx, err error) error {
	if errors.Is(err, transit.ErrStopNotFound) {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Stop matching Stop Identifier",
		})
	}

	if transit.IsStoreUnavailable(err) {
		c.SendStatus(fiber.StatusServiceUnavailable)
		return c.JSON(fiber.Map{
			"error": "Schedule store is unavailable",
		})
	}

	c.SendStatus(fiber.StatusInternalServerError)
	return c.JSON(fiber.Map{
		"error": err.Error(),
	})
}
