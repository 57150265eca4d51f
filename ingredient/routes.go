package ingredient

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func CreateEndpoints(e *echo.Echo, service Service) {
	group := e.Group("/ingredients")

	group.GET("", func(c echo.Context) error {
		activeOnly := c.QueryParam("active") == "true"

		ingredients, err := service.GetIngredients(c.Request().Context(), activeOnly)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, ingredients)
	})

	group.GET("/low-stock", func(c echo.Context) error {
		ingredients, err := service.GetLowStock(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, ingredients)
	})

	group.GET("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err)
		}

		ingredient, err := service.GetById(c.Request().Context(), id)
		if err != nil {
			return err
		}
		if ingredient == nil {
			return echo.NewHTTPError(http.StatusNotFound)
		}

		return c.JSON(http.StatusOK, ingredient)
	})

	group.POST("", func(c echo.Context) error {
		ingredient := new(Ingredient)
		if err := c.Bind(ingredient); err != nil {
			return err
		}
		if err := c.Validate(ingredient); err != nil {
			return err
		}

		ingredient, err := service.CreateIngredient(c.Request().Context(), ingredient)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusCreated, ingredient)
	})

	group.PUT("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err)
		}

		ingredient, err := service.GetById(c.Request().Context(), id)
		if err != nil {
			return err
		}
		if ingredient == nil {
			return echo.NewHTTPError(http.StatusNotFound)
		}

		if err := c.Bind(ingredient); err != nil {
			return err
		}
		if err := c.Validate(ingredient); err != nil {
			return err
		}

		ingredient, err = service.UpdateIngredient(c.Request().Context(), ingredient)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, ingredient)
	})

	group.DELETE("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err)
		}

		if err := service.DeactivateIngredient(c.Request().Context(), id); err != nil {
			return err
		}

		return c.NoContent(http.StatusNoContent)
	})
}
