package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/EnchantedPupu/atlas-backend-sub001/config"
	"github.com/EnchantedPupu/atlas-backend-sub001/pkg/jwt"
	"github.com/EnchantedPupu/atlas-backend-sub001/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeChecker struct {
	revoked map[string]bool
	err     error
}

func (f *fakeChecker) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], f.err
}

type fakeLimiter struct {
	calls int
	limit int
	err   error
}

func (f *fakeLimiter) CheckRateLimit(_ context.Context, _ string, _ int, _ time.Duration) (bool, error) {
	f.calls++
	return f.calls <= f.limit, f.err
}

func testManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "middleware-test-secret-0123456789",
		AccessTokenTTL: 15 * time.Minute,
		Issuer:         "atlas-test",
	})
}

func protected(mgr *jwt.Manager, checker TokenChecker) *gin.Engine {
	r := gin.New()
	r.GET("/p", JWTAuth(mgr, checker), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserID)+"|"+c.GetString(CtxRole))
	})
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/p", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ── JWTAuth ──

func TestJWTAuth_ValidToken(t *testing.T) {
	mgr := testManager()
	token, _ := mgr.GenerateAccessToken("u-1", "VO")

	w := get(protected(mgr, nil), token)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "u-1|VO" {
		t.Errorf("claims not injected: %s", w.Body.String())
	}
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	w := get(protected(testManager(), nil), "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuth_BadScheme(t *testing.T) {
	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("Authorization", "Basic abc")
	w := httptest.NewRecorder()
	protected(testManager(), nil).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuth_Blacklisted(t *testing.T) {
	mgr := testManager()
	token, _ := mgr.GenerateAccessToken("u-1", "VO")
	claims, _ := mgr.ParseToken(token)

	w := get(protected(mgr, &fakeChecker{revoked: map[string]bool{claims.ID: true}}), token)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for revoked token, got %d", w.Code)
	}
}

func TestJWTAuth_CheckerErrorFailsOpen(t *testing.T) {
	mgr := testManager()
	token, _ := mgr.GenerateAccessToken("u-1", "VO")

	w := get(protected(mgr, &fakeChecker{err: errors.New("redis down")}), token)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 when blacklist is unreachable, got %d", w.Code)
	}
}

// ── RoleAuth ──

func TestRoleAuth(t *testing.T) {
	tests := []struct {
		role string
		want int
	}{
		{"OIC", http.StatusOK},
		{"FI", http.StatusForbidden},
		{"", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run("role="+tt.role, func(t *testing.T) {
			r := gin.New()
			r.GET("/p", func(c *gin.Context) {
				if tt.role != "" {
					c.Set(CtxRole, tt.role)
				}
				c.Next()
			}, RoleAuth("OIC"), func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", "/p", nil))
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

// ── RateLimit ──

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	limiter := &fakeLimiter{limit: 1}
	r := gin.New()
	r.GET("/p", RateLimit(limiter, 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest("GET", "/p", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest("GET", "/p", nil))

	if first.Code != http.StatusOK {
		t.Errorf("expected first request 200, got %d", first.Code)
	}
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("expected second request 429, got %d", second.Code)
	}
	if !strings.Contains(second.Body.String(), fmt.Sprintf(`"code":%d`, response.CodeRateLimited)) {
		t.Errorf("unexpected body: %s", second.Body.String())
	}
}

func TestRateLimit_NilLimiterPasses(t *testing.T) {
	r := gin.New()
	r.GET("/p", RateLimit(nil, 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/p", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}

// ── BodyLimit ──

func TestBodyLimit_ContentLengthTooLarge(t *testing.T) {
	r := gin.New()
	r.POST("/p", BodyLimit(8), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/p", strings.NewReader("0123456789")))

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}

func TestBodyLimit_ReadOverflowReported(t *testing.T) {
	r := gin.New()
	r.POST("/p", BodyLimit(8), func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			_ = c.Error(err)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("POST", "/p", strings.NewReader("0123456789"))
	req.ContentLength = -1
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}

// ── RequestID ──

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	r := gin.New()
	r.GET("/p", RequestID(), func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/p", nil))

	rid := w.Header().Get("X-Request-ID")
	if rid == "" || rid != w.Body.String() {
		t.Errorf("expected generated request id echoed, header=%q body=%q", rid, w.Body.String())
	}
}

func TestRequestID_RejectsControlCharacters(t *testing.T) {
	r := gin.New()
	r.GET("/p", RequestID(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("X-Request-ID", "abc\tinjected")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got == "abc\tinjected" {
		t.Error("expected control characters to trigger a fresh request id")
	}
}

// ── CORS ──

func TestCORS_AllowedOriginAndPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://atlas.example/"}))
	r.GET("/p", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("OPTIONS", "/p", nil)
	req.Header.Set("Origin", "https://atlas.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "https://atlas.example" {
		t.Errorf("expected origin echoed, got %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if w.Header().Get("Access-Control-Expose-Headers") != corsExposeHeaders {
		t.Error("expected export headers to be exposed")
	}
}

func TestCORS_UnknownOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://atlas.example"}))
	r.GET("/p", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unknown origin must not be allowed")
	}
}
