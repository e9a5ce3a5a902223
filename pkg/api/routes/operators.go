package routes

import (
	"context"
	"errors"
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/nextride/nextride/pkg/operators"
	"github.com/nextride/nextride/pkg/transit"
	"golang.org/x/exp/maps"
)

// TripFinder is the slice of the schedule store the operator routes need.
type TripFinder interface {
	FindTripsForRoute(ctx context.Context, operatorRef string, lineName string, directionRef string) ([]transit.Trip, error)
}

func OperatorsRouter(router fiber.Router, store TripFinder) {
	router.Get("/", listOperators)
	router.Get("/:identifier", getOperator)
	router.Get("/:identifier/routes/:line", getOperatorRoute(store))
}

type operatorSummary struct {
	Slug        string `json:"slug"`
	OperatorRef string `json:"operatorRef"`
	Name        string `json:"name"`
}

func listOperators(c *fiber.Ctx) error {
	slugs := maps.Keys(operators.Slugs)
	sort.Strings(slugs)

	summaries := []operatorSummary{}
	for _, slug := range slugs {
		operatorRef := operators.Slugs[slug]
		summaries = append(summaries, operatorSummary{
			Slug:        slug,
			OperatorRef: operatorRef,
			Name:        operators.EnglishName(operatorRef),
		})
	}

	return c.JSON(summaries)
}

func getOperator(c *fiber.Ctx) error {
	operatorRef, found := resolveOperator(c.Params("identifier"))
	if !found {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Operator matching Operator Identifier",
		})
	}

	slug, _ := operators.SlugForOperatorRef(operatorRef)

	return c.JSON(operatorSummary{
		Slug:        slug,
		OperatorRef: operatorRef,
		Name:        operators.EnglishName(operatorRef),
	})
}

func getOperatorRoute(store TripFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		operatorRef, found := resolveOperator(c.Params("identifier"))
		if !found {
			c.SendStatus(fiber.StatusNotFound)
			return c.JSON(fiber.Map{
				"error": "Could not find Operator matching Operator Identifier",
			})
		}

		trips, err := store.FindTripsForRoute(c.Context(), operatorRef, c.Params("line"), c.Query("direction"))
		if err != nil {
			if errors.Is(err, transit.ErrRouteNotFound) {
				c.SendStatus(fiber.StatusNotFound)
				return c.JSON(fiber.Map{
					"error": "Could not find Route matching Operator & Line",
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

		return c.JSON(trips)
	}
}

// resolveOperator accepts either an operator slug or a raw operator ref.
func resolveOperator(identifier string) (string, bool) {
	if operatorRef, found := operators.OperatorRefForSlug(identifier); found {
		return operatorRef, true
	}

	if _, found := operators.EnglishNames[identifier]; found {
		return identifier, true
	}

	return "", false
}
