package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "no header", header: "", want: ""},
		{name: "bearer token", header: "Bearer tok-123", want: "tok-123"},
		{name: "case insensitive scheme", header: "bearer tok-123", want: "tok-123"},
		{name: "wrong scheme", header: "Basic dXNlcg==", want: ""},
		{name: "scheme without token", header: "Bearer", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, BearerToken(req))
		})
	}
}

func TestViewerMiddleware_AttachesViewer(t *testing.T) {
	devices := &database.MockDeviceStore{
		GetSessionFunc: func(ctx context.Context, token string) (*models.DeviceSession, error) {
			require.Equal(t, "tok-1", token)
			return &models.DeviceSession{Token: token, UserID: "u1", UserLogin: "maria"}, nil
		},
	}

	var viewer *Viewer
	handler := ViewerMiddleware(devices)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer, _ = ViewerFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, viewer)
	assert.Equal(t, "u1", viewer.UserID)
	assert.Equal(t, "maria", viewer.Login)
	assert.Equal(t, "tok-1", viewer.Token)
}

func TestViewerMiddleware_PassesThroughWithoutSession(t *testing.T) {
	devices := &database.MockDeviceStore{}

	called := false
	handler := ViewerMiddleware(devices)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Empty(t, ViewerID(r.Context()))
	}))

	// Unknown token: the request proceeds unauthenticated.
	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Authorization", "Bearer revoked")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, called)

	// No header at all: no session lookup happens.
	called = false
	devices.GetSessionFunc = func(ctx context.Context, token string) (*models.DeviceSession, error) {
		t.Fatal("no lookup expected without a bearer token")
		return nil, nil
	}
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/posts", nil))
	assert.True(t, called)
}

func TestRequireViewer(t *testing.T) {
	handler := RequireViewer(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	ctx := WithViewer(req.Context(), &Viewer{UserID: "u1"})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin("secret")(okHandler())

	do := func(token string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/sa/users", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, do(""))
	assert.Equal(t, http.StatusUnauthorized, do("wrong"))
	assert.Equal(t, http.StatusUnauthorized, do("secre"))
	assert.Equal(t, http.StatusOK, do("secret"))
}

func TestRequireAdmin_DisabledWithoutToken(t *testing.T) {
	handler := RequireAdmin("")(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/sa/users", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code, "an empty configured token locks the surface")
}
