package plan_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kitchen/auth"
	"kitchen/batch"
	"kitchen/ingredient"
	"kitchen/meal"
	"kitchen/notification"
	"kitchen/plan"
	"kitchen/server"
)

func TestPlanRoutes(t *testing.T) {
	t.Setenv(server.JWT_SECRET_KEY, "secret")

	token, err := auth.GenerateToken(1, "secret")
	if err != nil {
		t.Fatalf("could not generate token: %s", err)
	}

	ingredients := ingredient.NewFakeRepository()
	batches := batch.NewFakeRepository(ingredients)
	meals := meal.NewService(meal.NewFakeRepository(), ingredients)

	svr := server.NewServer()
	svc := plan.NewService(plan.NewFakeRepository(batches), meals, ingredients, ingredient.NewLocker(), notification.NoOpNotifier())
	plan.CreateEndpoints(svr, svc)

	t.Run("should check availability without touching stock", func(t *testing.T) {
		body := strings.NewReader(`[{"meal_id":1,"servings":5}]`)

		req := httptest.NewRequest("POST", "/meal-plans/check", body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		svr.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		allocations := make([]*plan.Allocation, 0)
		if err := json.Unmarshal(rec.Body.Bytes(), &allocations); err != nil {
			t.Fatalf("could not parse response: %s", err)
		}

		if len(allocations) != 1 {
			t.Fatalf("expected %d allocation, got %d", 1, len(allocations))
		}
		if allocations[0].Name != "Flour" {
			t.Errorf("expected Flour, got %s", allocations[0].Name)
		}
		if allocations[0].Required != 1000 {
			t.Errorf("expected required %f, got %f", 1000.0, allocations[0].Required)
		}
	})

	t.Run("should reject an unallocatable check with 422", func(t *testing.T) {
		body := strings.NewReader(`[{"meal_id":1,"servings":30}]`)

		req := httptest.NewRequest("POST", "/meal-plans/check", body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		svr.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, rec.Code)
		}
	})

	t.Run("should validate plan payload", func(t *testing.T) {
		body := strings.NewReader(`{"name":"Monday"}`)

		req := httptest.NewRequest("POST", "/meal-plans", body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		svr.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("should create plan", func(t *testing.T) {
		body := strings.NewReader(`{"name":"Monday","entries":[{"meal_id":1,"servings":5}]}`)

		req := httptest.NewRequest("POST", "/meal-plans", body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		svr.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Errorf("expected status %d, got %d", http.StatusCreated, rec.Code)
		}

		created := new(plan.Plan)
		if err := json.Unmarshal(rec.Body.Bytes(), created); err != nil {
			t.Fatalf("could not parse response: %s", err)
		}
		if created.Id == 0 {
			t.Error("should assign an id")
		}
	})

	t.Run("should return 404 for missing plan", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/meal-plans/999", nil)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		svr.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})

	t.Run("should require authentication", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/meal-plans", nil)
		req.Header.Set("Accept", "application/json")

		rec := httptest.NewRecorder()
		svr.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
		}
	})
}
