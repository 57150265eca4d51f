package batch

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func CreateEndpoints(e *echo.Echo, service Service) {
	e.GET("/ingredients/:id/batches", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err)
		}

		batches, err := service.GetBatches(c.Request().Context(), id)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, batches)
	})

	e.POST("/ingredients/:id/batches", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err)
		}

		batch := new(Batch)
		if err := c.Bind(batch); err != nil {
			return err
		}

		batch.IngredientId = id
		if err := c.Validate(batch); err != nil {
			return err
		}

		batch, err = service.AddBatch(c.Request().Context(), batch)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusCreated, batch)
	})

	group := e.Group("/batches")

	group.GET("/expiring", func(c echo.Context) error {
		days, err := strconv.Atoi(c.QueryParam("days"))
		if err != nil || days <= 0 {
			days = 7
		}

		batches, err := service.GetExpiring(c.Request().Context(), days)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, batches)
	})

	group.POST("/cleanup", func(c echo.Context) error {
		summary, err := service.CleanupExpiredBatches(c.Request().Context())
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, summary)
	})
}
