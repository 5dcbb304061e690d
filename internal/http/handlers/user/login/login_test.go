package login

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

func (m *ServiceMock) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(1).(*models.User)
	return args.String(0), u, args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	svcMock := new(ServiceMock)
	logger := newNoopLogger()

	handler := New(logger, svcMock)

	approvedUser := &models.User{
		ID:         "5c3c23ab-4b62-47b1-8c0a-f7a0c3a1a001",
		Name:       "Alice",
		Email:      "alice@example.com",
		IsApproved: true,
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockToken      string
		mockUser       *models.User
		mockErr        error
		wantStatusCode int
		wantData       map[string]any
		wantError      string
		wantStatus     string
	}{
		{
			name:           "valid login",
			requestBody:    Request{Email: "alice@example.com", Password: "password123"},
			mockToken:      "tok",
			mockUser:       approvedUser,
			mockErr:        nil,
			wantStatusCode: http.StatusOK,
			wantData: map[string]any{
				"token": "tok",
			},
			wantError:  "",
			wantStatus: "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantData:       nil,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - missing password",
			requestBody:    Request{Email: "alice@example.com"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantData:       nil,
			wantError:      "field Password is a required field",
			wantStatus:     "Error",
		},
		{
			name:           "wrong password",
			requestBody:    Request{Email: "alice@example.com", Password: "wrongpass"},
			mockErr:        userservice.ErrInvalidCredentials,
			wantStatusCode: http.StatusBadRequest,
			wantData:       nil,
			wantError:      "invalid email or password",
			wantStatus:     "Error",
		},
		{
			name:           "not approved yet",
			requestBody:    Request{Email: "alice@example.com", Password: "password123"},
			mockErr:        userservice.ErrNotApproved,
			wantStatusCode: http.StatusForbidden,
			wantData:       nil,
			wantError:      "not approved by admin yet",
			wantStatus:     "Error",
		},
		{
			name:           "storage error",
			requestBody:    Request{Email: "alice@example.com", Password: "password123"},
			mockErr:        errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
			wantData:       nil,
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
				svcMock.On("Login", mock.Anything, req.Email, req.Password).
					Return(tt.mockToken, tt.mockUser, tt.mockErr).Once()
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

			req := httptest.NewRequest(http.MethodPost, "/user/login", bytes.NewReader(bodyBytes))
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
			} else {
				assert.Nil(t, got["error"])
			}

			if tt.wantData != nil {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				for k, v := range tt.wantData {
					assert.Equal(t, v, data[k])
				}
				user, ok := data["user"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, tt.mockUser.Email, user["email"])
				_, leaked := user["password"]
				assert.False(t, leaked)
			} else {
				assert.Nil(t, got["data"])
			}

			if tt.mockUser != nil || tt.mockErr != nil {
				svcMock.AssertExpectations(t)
			}
		})
	}
}
