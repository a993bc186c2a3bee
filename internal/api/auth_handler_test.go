package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lburgess/aftlab/internal/domain"
	"github.com/lburgess/aftlab/internal/mocks"
	"github.com/lburgess/aftlab/internal/service/auth"
)

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

func TestRegister(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	jwtService := &mocks.MockJWTService{Token: "test-token", RefreshToken: "test-refresh"}
	passwordVerifier := &mocks.MockPasswordVerifier{ShouldSucceed: true}

	handler := NewAuthHandler(userStore, jwtService, passwordVerifier)

	tests := []struct {
		name       string
		payload    map[string]interface{}
		wantStatus int
		wantToken  bool
	}{
		{
			name: "valid registration",
			payload: map[string]interface{}{
				"email":    "test@example.com",
				"password": "password1234567",
			},
			wantStatus: http.StatusCreated,
			wantToken:  true,
		},
		{
			name: "invalid email",
			payload: map[string]interface{}{
				"email":    "invalid-email",
				"password": "password1234567",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "password too short",
			payload: map[string]interface{}{
				"email":    "test2@example.com",
				"password": "short",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing email",
			payload: map[string]interface{}{
				"password": "password1234567",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate email",
			payload: map[string]interface{}{
				"email":    "test@example.com",
				"password": "password1234567",
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := postJSON(t, handler.Register, "/auth/register", tt.payload)
			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantToken {
				var authResp AuthResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&authResp))
				assert.NotEqual(t, uuid.Nil, authResp.UserID)
				assert.Equal(t, "test-token", authResp.AccessToken)
				assert.Equal(t, "test-refresh", authResp.RefreshToken)
				assert.NotEmpty(t, authResp.ExpiresAt)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	user, err := domain.NewUser("login@example.com", "password1234567")
	require.NoError(t, err)
	user.HashedPassword = "stored-hash"

	newHandler := func(verifierSucceeds bool) *AuthHandler {
		userStore := mocks.NewMockUserStore()
		userStore.Users[user.Email] = user
		jwtService := &mocks.MockJWTService{Token: "test-token", RefreshToken: "test-refresh"}
		return NewAuthHandler(userStore, jwtService, &mocks.MockPasswordVerifier{ShouldSucceed: verifierSucceeds})
	}

	t.Run("valid credentials", func(t *testing.T) {
		recorder := postJSON(t, newHandler(true).Login, "/auth/login", map[string]interface{}{
			"email":    "login@example.com",
			"password": "password1234567",
		})
		assert.Equal(t, http.StatusOK, recorder.Code)

		var authResp AuthResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&authResp))
		assert.Equal(t, user.ID, authResp.UserID)
		assert.Equal(t, "test-token", authResp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		recorder := postJSON(t, newHandler(false).Login, "/auth/login", map[string]interface{}{
			"email":    "login@example.com",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		recorder := postJSON(t, newHandler(true).Login, "/auth/login", map[string]interface{}{
			"email":    "nobody@example.com",
			"password": "password1234567",
		})
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	user, err := domain.NewUser("refresh@example.com", "password1234567")
	require.NoError(t, err)

	t.Run("valid refresh token", func(t *testing.T) {
		userStore := mocks.NewMockUserStore()
		userStore.Users[user.Email] = user
		jwtService := &mocks.MockJWTService{
			Token:        "new-access",
			RefreshToken: "new-refresh",
			Claims:       &auth.Claims{UserID: user.ID, TokenType: "refresh"},
		}
		handler := NewAuthHandler(userStore, jwtService, &mocks.MockPasswordVerifier{})

		recorder := postJSON(t, handler.RefreshToken, "/auth/refresh", map[string]interface{}{
			"refresh_token": "old-refresh",
		})
		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp RefreshTokenResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "new-access", resp.AccessToken)
		assert.Equal(t, "new-refresh", resp.RefreshToken)
		assert.NotEmpty(t, resp.ExpiresAt)
	})

	t.Run("invalid refresh token", func(t *testing.T) {
		jwtService := &mocks.MockJWTService{ValidateErr: auth.ErrInvalidRefreshToken}
		handler := NewAuthHandler(mocks.NewMockUserStore(), jwtService, &mocks.MockPasswordVerifier{})

		recorder := postJSON(t, handler.RefreshToken, "/auth/refresh", map[string]interface{}{
			"refresh_token": "garbage",
		})
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("deleted user", func(t *testing.T) {
		jwtService := &mocks.MockJWTService{
			Claims: &auth.Claims{UserID: uuid.New(), TokenType: "refresh"},
		}
		handler := NewAuthHandler(mocks.NewMockUserStore(), jwtService, &mocks.MockPasswordVerifier{})

		recorder := postJSON(t, handler.RefreshToken, "/auth/refresh", map[string]interface{}{
			"refresh_token": "old-refresh",
		})
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("missing refresh token", func(t *testing.T) {
		handler := NewAuthHandler(mocks.NewMockUserStore(), &mocks.MockJWTService{}, &mocks.MockPasswordVerifier{})

		recorder := postJSON(t, handler.RefreshToken, "/auth/refresh", map[string]interface{}{})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
