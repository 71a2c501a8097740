package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func recaptchaStub(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "test-secret", r.PostForm.Get("secret"))
		assert.NotEmpty(t, r.PostForm.Get("response"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRecaptchaVerifier_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		srv := recaptchaStub(t, `{"success":true,"score":0.9,"action":"register"}`)
		v := newRecaptchaVerifierForURL("test-secret", 0.5, srv.URL, zap.NewNop())
		assert.True(t, v.Verify(ctx, "token", "register"))
	})

	t.Run("ScoreBelowThreshold", func(t *testing.T) {
		srv := recaptchaStub(t, `{"success":true,"score":0.2,"action":"register"}`)
		v := newRecaptchaVerifierForURL("test-secret", 0.5, srv.URL, zap.NewNop())
		assert.False(t, v.Verify(ctx, "token", "register"))
	})

	t.Run("ActionMismatch", func(t *testing.T) {
		srv := recaptchaStub(t, `{"success":true,"score":0.9,"action":"login"}`)
		v := newRecaptchaVerifierForURL("test-secret", 0.5, srv.URL, zap.NewNop())
		assert.False(t, v.Verify(ctx, "token", "register"))
	})

	t.Run("ProviderRejection", func(t *testing.T) {
		srv := recaptchaStub(t, `{"success":false,"error-codes":["invalid-input-response"]}`)
		v := newRecaptchaVerifierForURL("test-secret", 0.5, srv.URL, zap.NewNop())
		assert.False(t, v.Verify(ctx, "token", "register"))
	})

	t.Run("MissingTokenFailsClosed", func(t *testing.T) {
		srv := recaptchaStub(t, `{"success":true,"score":0.9,"action":"register"}`)
		v := newRecaptchaVerifierForURL("test-secret", 0.5, srv.URL, zap.NewNop())
		assert.False(t, v.Verify(ctx, "  ", "register"))
	})

	t.Run("DisabledAlwaysPasses", func(t *testing.T) {
		v := NewRecaptchaVerifier("", 0.5, false, zap.NewNop())
		assert.True(t, v.Verify(ctx, "", "register"))
	})
}
