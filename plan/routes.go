package plan

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func CreateEndpoints(e *echo.Echo, service Service) {
	group := e.Group("/meal-plans")

	group.GET("", func(c echo.Context) error {
		plans, err := service.GetPlans(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, plans)
	})

	group.GET("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err)
		}

		plan, err := service.GetById(c.Request().Context(), id)
		if err != nil {
			return err
		}
		if plan == nil {
			return echo.NewHTTPError(http.StatusNotFound)
		}

		return c.JSON(http.StatusOK, plan)
	})

	group.POST("", func(c echo.Context) error {
		plan := new(Plan)
		if err := c.Bind(plan); err != nil {
			return err
		}
		if err := c.Validate(plan); err != nil {
			return err
		}

		plan, err := service.CreatePlan(c.Request().Context(), plan)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusCreated, plan)
	})

	group.PUT("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err)
		}

		plan := new(Plan)
		if err := c.Bind(plan); err != nil {
			return err
		}
		if err := c.Validate(plan); err != nil {
			return err
		}

		plan.Id = id

		plan, err = service.UpdatePlan(c.Request().Context(), plan)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, plan)
	})

	group.DELETE("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err)
		}

		if err := service.DeletePlan(c.Request().Context(), id); err != nil {
			return err
		}

		return c.NoContent(http.StatusNoContent)
	})

	group.POST("/check", func(c echo.Context) error {
		entries := make([]*Entry, 0)
		if err := c.Bind(&entries); err != nil {
			return err
		}
		for _, entry := range entries {
			if err := c.Validate(entry); err != nil {
				return err
			}
		}

		allocations, err := service.CheckStockAvailability(c.Request().Context(), entries)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, allocations)
	})
}
