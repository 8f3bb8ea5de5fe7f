package utils

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	signed, err := GenerateToken(42, 2)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	token, err := ValidateToken(signed)
	if err != nil || !token.Valid {
		t.Fatalf("ValidateToken: %v", err)
	}
	userID, roleID, ok := ClaimsOf(token)
	if !ok || userID != 42 || roleID != 2 {
		t.Fatalf("claims = %d, %d, %v", userID, roleID, ok)
	}
}

func TestTokenRejectsOtherSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "one")
	signed, err := GenerateToken(1, 1)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	t.Setenv("JWT_SECRET", "two")
	if _, err := ValidateToken(signed); err == nil {
		t.Fatal("token signed with another secret was accepted")
	}
}

func TestDevSecretRefusedInProduction(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("GO_ENV", "production")

	if err := CheckJWTSecret(); !errors.Is(err, ErrNoJWTSecret) {
		t.Fatalf("CheckJWTSecret = %v", err)
	}
	if _, err := GenerateToken(1, 1); !errors.Is(err, ErrNoJWTSecret) {
		t.Fatalf("GenerateToken err = %v", err)
	}

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"role_id": 1,
	}).SignedString([]byte(devSecret))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ValidateToken(forged); err == nil {
		t.Fatal("token signed with the development secret was accepted in production")
	}

	t.Setenv("GO_ENV", "development")
	if err := CheckJWTSecret(); err != nil {
		t.Fatalf("development CheckJWTSecret = %v", err)
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword("s3cret!", hash) {
		t.Fatal("matching password rejected")
	}
	if CheckPassword("wrong", hash) {
		t.Fatal("wrong password accepted")
	}
}

func TestConversion(t *testing.T) {
	if got := StringToUint64("17"); got != 17 {
		t.Fatalf("StringToUint64 = %d", got)
	}
	if got := StringToUint64("abc"); got != 0 {
		t.Fatalf("StringToUint64(abc) = %d", got)
	}

	tests := []struct {
		in   string
		want int
	}{
		{"6", 6},
		{"", 12},
		{"-3", 12},
		{"0", 12},
		{"x", 12},
	}
	for _, tt := range tests {
		if got := IntOrDefault(tt.in, 12); got != tt.want {
			t.Errorf("IntOrDefault(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDecimalValidation(t *testing.T) {
	v := validator.New()
	RegisterDecimal(v)

	type input struct {
		Amount decimal.Decimal `validate:"gt=0"`
	}

	if err := v.Struct(input{Amount: decimal.RequireFromString("12.500")}); err != nil {
		t.Fatalf("positive amount rejected: %v", err)
	}
	if err := v.Struct(input{Amount: decimal.Zero}); err == nil {
		t.Fatal("zero amount accepted")
	}
	if err := v.Struct(input{Amount: decimal.NewFromInt(-5)}); err == nil {
		t.Fatal("negative amount accepted")
	}
}
