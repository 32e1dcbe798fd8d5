package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"cryptofolio/internal/models"
)

const testSecret = "test-secret"

func testUser() *models.User {
	user := &models.User{Email: "user@test.com"}
	user.ID = "0192e6a1-0000-7000-8000-000000000001"
	return user
}

func authRequest(t *testing.T, header string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(AuthMiddleware(testSecret))
	router.GET("/protected", func(c *gin.Context) {
		userID, _ := c.Get("userID")
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("valid access token", func(t *testing.T) {
		token, err := GenerateAccessToken(testUser(), testSecret)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		w := authRequest(t, "Bearer "+token)
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		w := authRequest(t, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		w := authRequest(t, "NotBearer abc")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := GenerateAccessToken(testUser(), "other-secret")
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		w := authRequest(t, "Bearer "+token)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("refresh token rejected as access token", func(t *testing.T) {
		token, err := GenerateRefreshToken(testUser(), testSecret)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		w := authRequest(t, "Bearer "+token)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})
}

func TestValidateRefreshToken(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		user := testUser()
		token, err := GenerateRefreshToken(user, testSecret)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		claims, err := ValidateRefreshToken(token, testSecret)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if claims.UserID != user.ID {
			t.Errorf("expected user id %s, got %s", user.ID, claims.UserID)
		}
	})

	t.Run("access token rejected", func(t *testing.T) {
		token, err := GenerateAccessToken(testUser(), testSecret)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		if _, err := ValidateRefreshToken(token, testSecret); err == nil {
			t.Error("expected error for access token")
		}
	})
}

func TestHashToken(t *testing.T) {
	if HashToken("abc") != HashToken("abc") {
		t.Error("expected deterministic hash")
	}
	if HashToken("abc") == HashToken("abd") {
		t.Error("expected different hashes for different tokens")
	}
	if len(HashToken("abc")) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(HashToken("abc")))
	}
}
