package meal

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func CreateEndpoints(e *echo.Echo, service Service) {
	group := e.Group("/meals")

	group.GET("", func(c echo.Context) error {
		meals, err := service.GetMeals(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, meals)
	})

	group.GET("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err)
		}

		meal, err := service.GetById(c.Request().Context(), id)
		if err != nil {
			return err
		}
		if meal == nil {
			return echo.NewHTTPError(http.StatusNotFound)
		}

		return c.JSON(http.StatusOK, meal)
	})

	group.POST("", func(c echo.Context) error {
		meal := new(Meal)
		if err := c.Bind(meal); err != nil {
			return err
		}
		if err := c.Validate(meal); err != nil {
			return err
		}

		meal, err := service.CreateMeal(c.Request().Context(), meal)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusCreated, meal)
	})

	group.PUT("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err)
		}

		meal, err := service.GetById(c.Request().Context(), id)
		if err != nil {
			return err
		}
		if meal == nil {
			return echo.NewHTTPError(http.StatusNotFound)
		}

		if err := c.Bind(meal); err != nil {
			return err
		}
		if err := c.Validate(meal); err != nil {
			return err
		}

		meal, err = service.UpdateMeal(c.Request().Context(), meal)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, meal)
	})

	group.GET("/:id/ingredients", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err)
		}

		requirements, err := service.GetRequirements(c.Request().Context(), id)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, requirements)
	})

	group.PUT("/:id/ingredients", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err)
		}

		requirements := make([]*Requirement, 0)
		if err := c.Bind(&requirements); err != nil {
			return err
		}
		for _, requirement := range requirements {
			if err := c.Validate(requirement); err != nil {
				return err
			}
		}

		requirements, err = service.SetRequirements(c.Request().Context(), id, requirements)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, requirements)
	})

	group.GET("/:id/availability", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err)
		}

		availability, err := service.GetAvailability(c.Request().Context(), id)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, availability)
	})
}
