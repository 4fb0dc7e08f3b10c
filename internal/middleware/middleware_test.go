package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olstar_backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newSessions() *Sessions {
	return NewSessions("test-secret", time.Hour, false)
}

func sessionCookie(t *testing.T, s *Sessions, p models.Principal) *http.Cookie {
	t.Helper()
	token, err := s.Sign(p, time.Now())
	require.NoError(t, err)
	return &http.Cookie{Name: SessionCookie, Value: token}
}

func guarded(s *Sessions, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(s.LoadSession())
	handlers := append([]gin.HandlerFunc{RequireLogin(), RequireAdmin()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		p, _ := PrincipalFrom(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"uid": p.UID})
	})
	r.Any("/admin/dashboard", handlers...)
	return r
}

func TestSessionRoundTrip(t *testing.T) {
	s := newSessions()
	in := models.Principal{UID: "u1", Email: "a@b.c", Role: "admin", CSRFToken: "tok"}
	token, err := s.Sign(in, time.Now())
	require.NoError(t, err)

	out, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = NewSessions("other-secret", time.Hour, false).Parse(token)
	assert.Error(t, err)

	expired, err := s.Sign(in, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = s.Parse(expired)
	assert.Error(t, err)
}

func TestIssueSetsCookies(t *testing.T) {
	s := newSessions()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/login", nil)

	csrf, err := s.Issue(c, models.Principal{UID: "u1", Role: "admin"})
	require.NoError(t, err)
	assert.NotEmpty(t, csrf)

	cookies := map[string]*http.Cookie{}
	for _, ck := range w.Result().Cookies() {
		cookies[ck.Name] = ck
	}
	require.Contains(t, cookies, SessionCookie)
	require.Contains(t, cookies, CSRFCookie)
	assert.True(t, cookies[SessionCookie].HttpOnly)
	assert.False(t, cookies[CSRFCookie].HttpOnly)
	assert.Equal(t, csrf, cookies[CSRFCookie].Value)

	p, err := s.Parse(cookies[SessionCookie].Value)
	require.NoError(t, err)
	assert.Equal(t, csrf, p.CSRFToken)
}

func TestGuards(t *testing.T) {
	s := newSessions()
	r := guarded(s)

	t.Run("anonymous is redirected", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})

	t.Run("tampered cookie counts as anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "garbage"})
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusFound, w.Code)
	})

	t.Run("non admin is forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
		req.AddCookie(sessionCookie(t, s, models.Principal{UID: "u2", Role: "dispatcher"}))
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("Location"))
	})

	t.Run("admin passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
		req.AddCookie(sessionCookie(t, s, models.Principal{UID: "u1", Role: "admin"}))
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"uid":"u1"}`, w.Body.String())
	})
}

func TestRequireCSRF(t *testing.T) {
	s := newSessions()
	r := guarded(s, RequireCSRF())
	cookie := sessionCookie(t, s, models.Principal{UID: "u1", Role: "admin", CSRFToken: "good"})

	cases := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"missing", "", "", http.StatusBadRequest},
		{"mismatch", "X-CSRFToken", "bad", http.StatusForbidden},
		{"django header", "X-CSRFToken", "good", http.StatusOK},
		{"angular header", "X-XSRF-TOKEN", "good", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/admin/dashboard", nil)
			req.AddCookie(cookie)
			if tc.header != "" {
				req.Header.Set(tc.header, tc.value)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestIPRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(5)
	now := time.Now()
	l.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("10.0.0.1"), "attempt %d", i+1)
	}
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))

	now = now.Add(12 * time.Second)
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
}

func TestLimitRespondsWith429(t *testing.T) {
	rejected := 0
	r := gin.New()
	r.POST("/admin/login", NewIPRateLimiter(1).Limit("Login failed", func() { rejected++ }), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Login failed"}`, w.Body.String())
	assert.Equal(t, 1, rejected)
}

func TestTimeoutSetsDeadline(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(time.Second))
	r.GET("/x", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		c.JSON(http.StatusOK, gin.H{"deadline": ok})
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.JSONEq(t, `{"deadline":true}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://dash.example"}))
	r.GET("/api/schedules", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/schedules", nil)
	req.Header.Set("Origin", "https://dash.example")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://dash.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/schedules", nil)
	req.Header.Set("Origin", "https://evil.example")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
