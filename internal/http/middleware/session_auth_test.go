package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/campusai/teachassist/internal/platform/ctxutil"
	"github.com/campusai/teachassist/internal/platform/logger"
)

type staticVerifier map[string]string

func (v staticVerifier) Verify(token string) (string, error) {
	if sub, ok := v[token]; ok {
		return sub, nil
	}
	return "", errors.New("bad token")
}

func newAuthRouter(required bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	mw := NewSessionAuth(logger.Nop(), staticVerifier{"tok-a": "user_aaaaaaaaa"}, required)
	r := gin.New()
	r.Use(mw.Handle())
	ok := func(c *gin.Context) {
		sd := ctxutil.GetSessionData(c.Request.Context())
		if sd != nil {
			c.String(http.StatusOK, sd.SessionID)
			return
		}
		c.String(http.StatusOK, "anonymous")
	}
	r.GET("/progress/:user_id", ok)
	r.POST("/progress/track", ok)
	return r
}

func TestSessionAuth(t *testing.T) {
	cases := []struct {
		name     string
		required bool
		method   string
		path     string
		form     url.Values
		token    string
		want     int
		wantBody string
	}{
		{"anonymous allowed", false, http.MethodGet, "/progress/user_aaaaaaaaa", nil, "", http.StatusOK, "anonymous"},
		{"anonymous rejected when required", true, http.MethodGet, "/progress/user_aaaaaaaaa", nil, "", http.StatusUnauthorized, ""},
		{"matching path", false, http.MethodGet, "/progress/user_aaaaaaaaa", nil, "tok-a", http.StatusOK, "user_aaaaaaaaa"},
		{"mismatched path", false, http.MethodGet, "/progress/user_bbbbbbbbb", nil, "tok-a", http.StatusForbidden, ""},
		{"invalid token", false, http.MethodGet, "/progress/user_aaaaaaaaa", nil, "nope", http.StatusUnauthorized, ""},
		{"matching form", true, http.MethodPost, "/progress/track", url.Values{"user_id": {"user_aaaaaaaaa"}}, "tok-a", http.StatusOK, "user_aaaaaaaaa"},
		{"mismatched form", false, http.MethodPost, "/progress/track", url.Values{"user_id": {"user_bbbbbbbbb"}}, "tok-a", http.StatusForbidden, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newAuthRouter(tc.required)
			var req *http.Request
			if tc.form != nil {
				req = httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.form.Encode()))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			} else {
				req = httptest.NewRequest(tc.method, tc.path, nil)
			}
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body.String())
			}
			if tc.wantBody != "" && rec.Body.String() != tc.wantBody {
				t.Fatalf("body = %q, want %q", rec.Body.String(), tc.wantBody)
			}
		})
	}
}
