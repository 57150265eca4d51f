package ingredient_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kitchen/auth"
	"kitchen/ingredient"
	"kitchen/server"
)

func TestIngredientRoutes(t *testing.T) {
	t.Setenv(server.JWT_SECRET_KEY, "secret")

	token, err := auth.GenerateToken(1, "secret")
	if err != nil {
		t.Fatalf("could not generate token: %s", err)
	}

	svr := server.NewServer()
	svc := ingredient.NewService(ingredient.NewFakeRepository())
	ingredient.CreateEndpoints(svr, svc)

	t.Run("should return ingredients", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ingredients", nil)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		svr.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		response := make([]*ingredient.Ingredient, 0)
		if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
			t.Fatalf("could not parse response: %s", err)
		}

		if len(response) != 4 {
			t.Errorf("expected %d ingredients, got %d", 4, len(response))
		}
	})

	t.Run("should validate payload", func(t *testing.T) {
		body := strings.NewReader(`{"name":"","category":"grain"}`)

		req := httptest.NewRequest("POST", "/ingredients", body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		svr.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("should reject business rule violations with 422", func(t *testing.T) {
		body := strings.NewReader(`{
            "name": "Quartz",
            "category": "minerals",
            "base_unit": "g",
            "packaging_unit": "bag",
            "packaging_quantity": 100
        }`)

		req := httptest.NewRequest("POST", "/ingredients", body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		svr.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, rec.Code)
		}
	})

	t.Run("should return 404 for missing ingredient", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ingredients/999", nil)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		svr.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})

	t.Run("should require authentication", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ingredients", nil)
		req.Header.Set("Accept", "application/json")

		rec := httptest.NewRecorder()
		svr.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
		}
	})
}
