package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func GenerateToken(stationId uint64, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{
		Issuer:    "kitchen-api",
		Subject:   fmt.Sprintf("%d", stationId),
		Audience:  jwt.ClaimStrings{"kitchen-webclient"},
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(12 * time.Hour)),
	})

	signedToken, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return signedToken, nil
}

func ParseToken(token any) (uint64, error) {
	station, ok := token.(*jwt.Token)
	if !ok {
		return 0, errors.New("not a valid token instance")
	}

	claims, ok := station.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, errors.New("not a valid claims instance")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, err
	}

	return id, nil
}
