package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Hany173g/OtakuZone-sub001/tools/errs"
	security "github.com/Hany173g/OtakuZone-sub001/tools/security"
)

var testJWT = security.DefaultOptions([]byte("middleware-test-secret"))

func authedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Auth(testJWT), func(c *gin.Context) {
		OK(c, gin.H{"user_id": c.GetString(CtxUserID)})
	})
	return r
}

func sessionTokenFor(t *testing.T, userID string, opts security.Options) string {
	t.Helper()
	token, _, err := security.Issue(opts, userID, security.ScopeSession)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return token
}

func TestAuthAcceptsHeaderAndCookie(t *testing.T) {
	r := authedRouter(t)
	token := sessionTokenFor(t, "user42", testJWT)

	cases := []struct {
		name  string
		shape func(req *http.Request)
	}{
		{"bearer header", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+token)
		}},
		{"session cookie", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tc.shape(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body)
			}
			var body struct {
				Code int `json:"code"`
				Data struct {
					UserID string `json:"user_id"`
				} `json:"data"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("bad body %s: %v", w.Body, err)
			}
			if body.Code != 0 || body.Data.UserID != "user42" {
				t.Errorf("body = %s", w.Body)
			}
		})
	}
}

func TestAuthRejections(t *testing.T) {
	r := authedRouter(t)

	expiredOpts := testJWT
	expiredOpts.TTL = -time.Hour
	otherSecret := security.DefaultOptions([]byte("not-the-secret"))

	cases := []struct {
		name     string
		token    string
		wantCode int
	}{
		{"no credential", "", errs.ErrUnauthenticated.Code},
		{"garbage", "not-a-jwt", errs.ErrTokenInvalid.Code},
		{"expired", sessionTokenFor(t, "user42", expiredOpts), errs.ErrTokenExpired.Code},
		{"wrong secret", sessionTokenFor(t, "user42", otherSecret), errs.ErrTokenInvalid.Code},
		{"socket scope", func() string {
			tok, _, _ := security.Issue(testJWT, "user42", security.ScopeSocket)
			return tok
		}(), errs.ErrTokenInvalid.Code},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", w.Code)
			}
			var ce errs.CodeError
			if err := json.Unmarshal(w.Body.Bytes(), &ce); err != nil {
				t.Fatalf("bad body %s: %v", w.Body, err)
			}
			if ce.Code != tc.wantCode {
				t.Errorf("code = %d, want %d", ce.Code, tc.wantCode)
			}
		})
	}
}

func TestHeaderWinsOverCookie(t *testing.T) {
	r := authedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+sessionTokenFor(t, "headerUser", testJWT))
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sessionTokenFor(t, "cookieUser", testJWT)})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body struct {
		Data struct {
			UserID string `json:"user_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body %s: %v", w.Body, err)
	}
	if body.Data.UserID != "headerUser" {
		t.Errorf("user_id = %q, want headerUser", body.Data.UserID)
	}
}

func TestFailMapsCodeErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/notfound", func(c *gin.Context) { Fail(c, errs.ErrRecordNotFound.Wrap()) })
	r.GET("/wrapped", func(c *gin.Context) {
		Fail(c, errs.ErrForbidden.WrapMsg("owner check"))
	})
	r.GET("/unknown", func(c *gin.Context) { Fail(c, http.ErrBodyNotAllowed) })

	cases := []struct {
		path       string
		wantStatus int
		wantCode   int
	}{
		{"/notfound", http.StatusNotFound, errs.ErrRecordNotFound.Code},
		{"/wrapped", http.StatusForbidden, errs.ErrForbidden.Code},
		{"/unknown", http.StatusInternalServerError, errs.ErrServerInternal.Code},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			var ce errs.CodeError
			if err := json.Unmarshal(w.Body.Bytes(), &ce); err != nil {
				t.Fatalf("bad body %s: %v", w.Body, err)
			}
			if ce.Code != tc.wantCode {
				t.Errorf("code = %d, want %d", ce.Code, tc.wantCode)
			}
		})
	}
}
