package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	srv := setup(t)

	tt := []struct {
		name     string
		body     map[string]interface{}
		wantCode int
		wantBody string
	}{
		{
			name:     "valid signup succeeds",
			body:     map[string]interface{}{"email": "a@b.com", "password": "pw", "cohort_id": 1},
			wantCode: http.StatusOK,
			wantBody: `{"success":true}`,
		},
		{
			name:     "malformed email is rejected",
			body:     map[string]interface{}{"email": "not-an-email", "password": "pw", "cohort_id": 1},
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"Enter valid email"}`,
		},
		{
			name:     "duplicate email is rejected",
			body:     map[string]interface{}{"email": "a@b.com", "password": "pw", "cohort_id": 1},
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"Email already in use"}`,
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(srv, http.MethodPost, "/users", marshallObj(t, tc.body))
			assert.Equal(t, tc.wantCode, rec.Code)
			assert.JSONEq(t, tc.wantBody, rec.Body.String())
		})
	}
}

func TestLogin(t *testing.T) {
	srv := setup(t)
	signup(t, srv, "a@b.com", "pw", 1)

	t.Run("wrong password fails like unknown email", func(t *testing.T) {
		for _, body := range []map[string]string{
			{"email": "a@b.com", "password": "wrongpw"},
			{"email": "nobody@b.com", "password": "pw"},
		} {
			rec := do(srv, http.MethodPost, "/sessions", marshallObj(t, body))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"success":false}`, rec.Body.String())
			assert.Empty(t, rec.Result().Cookies())
		}
	})

	t.Run("correct credentials issue session cookies", func(t *testing.T) {
		rec := do(srv, http.MethodPost, "/sessions", marshallObj(t, map[string]string{"email": "a@b.com", "password": "pw"}))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())

		cookies := make(map[string]*http.Cookie)
		for _, cookie := range rec.Result().Cookies() {
			cookies[cookie.Name] = cookie
		}
		for _, name := range []string{"sessionId", "userID", "email"} {
			cookie, ok := cookies[name]
			require.True(t, ok, "missing %s cookie", name)
			assert.NotEmpty(t, cookie.Value)
			assert.WithinDuration(t, time.Now().Add(24*time.Hour), cookie.Expires, 2*time.Minute)
		}
		assert.Equal(t, "a@b.com", cookies["email"].Value)
		assert.Equal(t, "false", cookies["isAdmin"].Value)
	})
}
