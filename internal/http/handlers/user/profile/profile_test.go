package profile

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/nasifhossain/DAO-Hall/internal/models"
	userservice "github.com/nasifhossain/DAO-Hall/internal/services/user"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Profile(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestProfileHandler_ServeHTTP(t *testing.T) {
	svcMock := new(ServiceMock)
	logger := newNoopLogger()

	handler := New(logger, svcMock)

	user := &models.User{
		ID:         "5c3c23ab-4b62-47b1-8c0a-f7a0c3a1a001",
		Name:       "Alice",
		Email:      "alice@example.com",
		IsApproved: true,
	}

	tests := []struct {
		name           string
		email          string
		mockUser       *models.User
		mockErr        error
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name:           "profile found",
			email:          "alice@example.com",
			mockUser:       user,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "missing email",
			email:          "",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "email is required",
			wantStatus:     "Error",
		},
		{
			name:           "user not found",
			email:          "ghost@example.com",
			mockErr:        userservice.ErrNotFound,
			wantStatusCode: http.StatusNotFound,
			wantError:      "user not found",
			wantStatus:     "Error",
		},
		{
			name:           "storage error",
			email:          "alice@example.com",
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

			if tt.mockUser != nil || tt.mockErr != nil {
				svcMock.On("Profile", mock.Anything, tt.email).
					Return(tt.mockUser, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodGet, "/user/profile?email="+tt.email, nil)
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

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

			if tt.mockUser != nil {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				gotUser, ok := data["user"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, tt.mockUser.Email, gotUser["email"])
				_, leaked := gotUser["passwordHash"]
				assert.False(t, leaked)
			}

			if tt.mockUser != nil || tt.mockErr != nil {
				svcMock.AssertExpectations(t)
			}
		})
	}
}
