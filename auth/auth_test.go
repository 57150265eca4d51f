package auth_test

import (
	"testing"

	"kitchen/auth"

	"github.com/golang-jwt/jwt/v5"
)

func TestAuth(t *testing.T) {
	t.Run("GenerateToken", func(t *testing.T) {
		token, err := auth.GenerateToken(52, "verysecretsecret")
		if err != nil {
			t.Fatalf("could not generate token: %s", err)
		}
		if token == "" {
			t.Fatal("should generate token")
		}

		parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			return []byte("verysecretsecret"), nil
		})

		if err != nil {
			t.Fatalf("could not parse token: %s", err)
		}

		id, err := auth.ParseToken(parsed)
		if err != nil {
			t.Fatalf("could not extract station: %s", err)
		}
		if id != 52 {
			t.Errorf("expected station %d, got %d", 52, id)
		}
	})
}
