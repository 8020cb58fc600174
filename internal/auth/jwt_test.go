package auth_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/codementor/codementor-api/internal/auth"
)

const testSecret = "a-long-and-sufficiently-random-test-secret"
const testUserID = "user-123"
const testRole = "student"

func TestInit(t *testing.T) {
	t.Run("MissingSecret", func(t *testing.T) {
		os.Unsetenv("JWT_SECRET")

		defer func() {
			if r := recover(); r == nil {
				t.Errorf("Init() should panic when JWT_SECRET is empty")
			}
		}()

		auth.Init()
	})

	t.Run("ValidSecret", func(t *testing.T) {
		os.Setenv("JWT_SECRET", testSecret)
		auth.Init()
	})
}

func TestGenerateAndValidateJWT(t *testing.T) {
	os.Setenv("JWT_SECRET", testSecret)
	auth.Init()

	t.Run("ValidToken", func(t *testing.T) {
		tokenStr, err := auth.GenerateJWT(testUserID, testRole, 5*time.Minute)
		if err != nil {
			t.Fatalf("GenerateJWT failed: %v", err)
		}

		claims, err := auth.ValidateJWT(tokenStr)
		if err != nil {
			t.Fatalf("ValidateJWT failed unexpectedly: %v", err)
		}

		if claims.UserID != testUserID {
			t.Errorf("wrong UserID: want %s, got %s", testUserID, claims.UserID)
		}
		if claims.Role != testRole {
			t.Errorf("wrong Role: want %s, got %s", testRole, claims.Role)
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		tokenStr, err := auth.GenerateJWT(testUserID, testRole, -time.Minute)
		if err != nil {
			t.Fatalf("GenerateJWT failed: %v", err)
		}

		_, err = auth.ValidateJWT(tokenStr)
		if err == nil {
			t.Fatal("ValidateJWT should fail for an expired token")
		}
		if !errors.Is(err, jwt.ErrTokenExpired) {
			t.Errorf("wrong error for expired token: want %v, got %v", jwt.ErrTokenExpired, err)
		}
	})

	t.Run("TamperedToken", func(t *testing.T) {
		tokenStr, err := auth.GenerateJWT(testUserID, testRole, time.Minute)
		if err != nil {
			t.Fatalf("GenerateJWT failed: %v", err)
		}

		_, err = auth.ValidateJWT(tokenStr + "x")
		if err == nil {
			t.Fatal("ValidateJWT should fail for a tampered token")
		}
	})
}

func TestClaimsContext(t *testing.T) {
	t.Run("MissingClaims", func(t *testing.T) {
		_, err := auth.GetUserClaimsFromContext(context.Background())
		if !errors.Is(err, auth.ErrNoClaims) {
			t.Errorf("want ErrNoClaims, got %v", err)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		ctx := auth.ContextWithClaims(context.Background(), &auth.UserClaims{UserID: testUserID})
		claims, err := auth.GetUserClaimsFromContext(ctx)
		if err != nil {
			t.Fatalf("GetUserClaimsFromContext failed: %v", err)
		}
		if claims.UserID != testUserID {
			t.Errorf("wrong UserID: want %s, got %s", testUserID, claims.UserID)
		}
	})
}
