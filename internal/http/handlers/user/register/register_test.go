package register

import (
	"bytes"
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

func (m *ServiceMock) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	args := m.Called(ctx, name, email, password)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	svcMock := new(ServiceMock)
	logger := newNoopLogger()

	handler := New(logger, svcMock)

	createdUser := &models.User{
		ID:    "5c3c23ab-4b62-47b1-8c0a-f7a0c3a1a001",
		Name:  "Alice",
		Email: "alice@example.com",
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockUser       *models.User
		mockErr        error
		wantStatusCode int
		wantMessage    string
		wantError      string
		wantStatus     string
	}{
		{
			name:           "valid registration",
			requestBody:    Request{Name: "Alice", Email: "alice@example.com", Password: "password123"},
			mockUser:       createdUser,
			wantStatusCode: http.StatusCreated,
			wantMessage:    "registration request sent",
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - missing email",
			requestBody:    Request{Name: "Alice", Password: "password123"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Email is a required field",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - short password",
			requestBody:    Request{Name: "Alice", Email: "alice@example.com", Password: "123"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Password is too short",
			wantStatus:     "Error",
		},
		{
			name:           "email already taken",
			requestBody:    Request{Name: "Alice", Email: "alice@example.com", Password: "password123"},
			mockErr:        userservice.ErrUserExists,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "user already exists",
			wantStatus:     "Error",
		},
		{
			name:           "storage error",
			requestBody:    Request{Name: "Alice", Email: "alice@example.com", Password: "password123"},
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
				req := tt.requestBody.(Request)
				svcMock.On("Register", mock.Anything, req.Name, req.Email, req.Password).
					Return(tt.mockUser, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/user/register", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			}

			if tt.wantMessage != "" {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, tt.wantMessage, data["message"])

				user, ok := data["user"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, tt.mockUser.Email, user["email"])
				assert.Equal(t, false, user["isApproved"])
				assert.Equal(t, false, user["isAdmin"])
			}

			if tt.mockUser != nil || tt.mockErr != nil {
				svcMock.AssertExpectations(t)
			}
		})
	}
}
