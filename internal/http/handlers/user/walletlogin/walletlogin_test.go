package walletlogin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/nasifhossain/DAO-Hall/internal/models"
	userservice "github.com/nasifhossain/DAO-Hall/internal/services/user"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) LoginByWallet(ctx context.Context, wallet string) (string, *models.User, error) {
	args := m.Called(ctx, wallet)
	u, _ := args.Get(1).(*models.User)
	return args.String(0), u, args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func strPtr(s string) *string { return &s }

func TestWalletLoginHandler_ServeHTTP(t *testing.T) {
	svcMock := new(ServiceMock)
	logger := newNoopLogger()

	handler := New(logger, svcMock)

	wallet := "0xAbC123"
	approvedUser := &models.User{
		ID:            "5c3c23ab-4b62-47b1-8c0a-f7a0c3a1a001",
		Name:          "Alice",
		Email:         "alice@example.com",
		WalletAddress: strPtr(wallet),
		IsApproved:    true,
	}

	tests := []struct {
		name           string
		wallet         string
		mockToken      string
		mockUser       *models.User
		mockErr        error
		wantStatusCode int
		wantToken      string
		wantError      string
		wantStatus     string
	}{
		{
			name:           "valid wallet login",
			wallet:         wallet,
			mockToken:      "tok",
			mockUser:       approvedUser,
			wantStatusCode: http.StatusOK,
			wantToken:      "tok",
			wantStatus:     "OK",
		},
		{
			name:           "unknown wallet",
			wallet:         "0xDead",
			mockErr:        userservice.ErrNotFound,
			wantStatusCode: http.StatusNotFound,
			wantError:      "user not found",
			wantStatus:     "Error",
		},
		{
			name:           "not approved yet",
			wallet:         wallet,
			mockErr:        userservice.ErrNotApproved,
			wantStatusCode: http.StatusForbidden,
			wantError:      "not approved by admin yet",
			wantStatus:     "Error",
		},
		{
			name:           "storage error",
			wallet:         wallet,
			mockErr:        errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "server error",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcMock.ExpectedCalls = nil
			svcMock.Calls = nil

			svcMock.On("LoginByWallet", mock.Anything, tt.wallet).
				Return(tt.mockToken, tt.mockUser, tt.mockErr).Once()

			req := httptest.NewRequest(http.MethodGet, "/user/by-wallet/"+tt.wallet, nil)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("wallet", tt.wallet)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			}

			if tt.wantToken != "" {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, tt.wantToken, data["token"])

				user, ok := data["user"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, tt.mockUser.Email, user["email"])
			}

			svcMock.AssertExpectations(t)
		})
	}
}

func TestWalletLoginHandler_MissingWallet(t *testing.T) {
	handler := New(newNoopLogger(), new(ServiceMock))

	req := httptest.NewRequest(http.MethodGet, "/user/by-wallet/", nil)
	rctx := chi.NewRouteContext()
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var got map[string]any
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "wallet address required", got["error"])
}
