package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	pkgAuth "github.com/polkiloo/canteen/internal/pkg/auth"
	"github.com/polkiloo/canteen/internal/server/http/dto"
	testhelpers "github.com/polkiloo/canteen/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var adminPrincipal = pkgAuth.Principal{Subject: "admin", Role: pkgAuth.RoleAdmin}

func serveWithToken(parser TokenParser, handler gin.HandlerFunc, token string) *httptest.ResponseRecorder {
	router := gin.New()
	router.Use(AdminRequired(parser))
	router.GET("/", handler)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestAdminRequiredRejects(t *testing.T) {
	noop := func(c *gin.Context) { c.Status(http.StatusOK) }

	cases := []struct {
		name   string
		parser TokenParser
		token  string
		status int
		reason string
	}{
		{"no token", testhelpers.TokenParserStub{Principal: adminPrincipal}, "", http.StatusUnauthorized, "unauthorized"},
		{"invalid token", testhelpers.TokenParserStub{Err: pkgAuth.ErrInvalidToken}, "token", http.StatusUnauthorized, "unauthorized"},
		{"not admin", testhelpers.TokenParserStub{Principal: pkgAuth.Principal{Subject: "guest"}}, "token", http.StatusUnauthorized, "unauthorized"},
		{"parser failure", testhelpers.TokenParserStub{Err: context.DeadlineExceeded}, "token", http.StatusInternalServerError, "persistence_failure"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := serveWithToken(tc.parser, noop, tc.token)
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.Code)
			}
			var body dto.ErrorResponse
			if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Success || body.Reason != tc.reason {
				t.Fatalf("unexpected body %+v", body)
			}
		})
	}
}

func TestAdminRequiredAttachesPrincipal(t *testing.T) {
	var fromGin, fromCtx pkgAuth.Principal
	resp := serveWithToken(testhelpers.TokenParserStub{Principal: adminPrincipal}, func(c *gin.Context) {
		fromGin, _ = CurrentPrincipal(c)
		fromCtx, _ = pkgAuth.PrincipalFrom(c.Request.Context())
		c.Status(http.StatusOK)
	}, "token")

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if fromGin != adminPrincipal || fromCtx != adminPrincipal {
		t.Fatalf("expected principal in both contexts, got %+v and %+v", fromGin, fromCtx)
	}
}

func TestCurrentPrincipalMissing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if _, ok := CurrentPrincipal(c); ok {
		t.Fatal("expected no principal")
	}
}

func TestSetAuthCookie(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	SetAuthCookie(c, "token")
	if got := recorder.Header().Get("Authorization"); got != "Bearer token" {
		t.Fatalf("expected auth header, got %q", got)
	}
	result := recorder.Result()
	t.Cleanup(func() {
		_ = result.Body.Close()
	})
	cookies := result.Cookies()
	if len(cookies) == 0 || cookies[0].Value != "token" || cookies[0].Name != authCookieName {
		t.Fatalf("expected cookie with token, got %+v", cookies)
	}
	if !cookies[0].HttpOnly || cookies[0].SameSite != http.SameSiteStrictMode {
		t.Fatalf("expected HttpOnly SameSite=Strict cookie, got %+v", cookies[0])
	}
	if raw := recorder.Header().Get("Set-Cookie"); !strings.Contains(raw, "SameSite=Strict") {
		t.Fatalf("expected SameSite=Strict in %q", raw)
	}
}

func TestExtractToken(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	if token := extractToken(c); token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}
	c.Request.Header.Set("Authorization", "Bearer abc")
	if token := extractToken(c); token != "abc" {
		t.Fatalf("expected token from header, got %q", token)
	}
	c.Request.Header.Del("Authorization")
	c.Request.AddCookie(&http.Cookie{Name: authCookieName, Value: "cookie"})
	if token := extractToken(c); token != "cookie" {
		t.Fatalf("expected token from cookie, got %q", token)
	}
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	var seen string
	router.GET("/", func(c *gin.Context) {
		seen = c.GetString(RequestIDContextKey)
		c.Status(http.StatusOK)
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := resp.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(generated); err != nil {
		t.Fatalf("expected generated uuid, got %q", generated)
	}
	if seen != generated {
		t.Fatalf("expected context id %q, got %q", generated, seen)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if got := resp.Header().Get(RequestIDHeader); got != "abc-123" || seen != "abc-123" {
		t.Fatalf("expected incoming id to be honoured, got %q / %q", got, seen)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(RequestID(), RequestLogger(logger))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "rid-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["msg"] != "http request" || entry["path"] != "/ping" || entry["request_id"] != "rid-1" {
		t.Fatalf("unexpected log entry %v", entry)
	}
	if entry["status"] != float64(http.StatusTeapot) {
		t.Fatalf("unexpected status %v", entry["status"])
	}
}
