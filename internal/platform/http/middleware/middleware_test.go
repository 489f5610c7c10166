package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestRequestLogger_AssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(RequestLogger(base))
	r.GET("/x", func(c *gin.Context) {
		Logger(c).Info("inside")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(buf.String(), id), "both log lines carry the request id")
	assert.Contains(t, buf.String(), `"msg":"request completed"`)
}

func TestRequestLogger_ReusesIncomingID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, incoming, w.Header().Get(RequestIDHeader))
}

func TestLogger_DefaultOutsideMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Equal(t, slog.Default(), Logger(c))
}

func TestRateLimit(t *testing.T) {
	store, err := NewLimiterStore(nil, "test")
	require.NoError(t, err)
	l, err := NewLimiter(store, "2-M")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/x", RateLimit(l, ByClientIP), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = "198.51.100.7:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_SeparateBuckets(t *testing.T) {
	store, err := NewLimiterStore(nil, "test")
	require.NoError(t, err)
	l, err := NewLimiter(store, "1-M")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		c.Set("userID", c.Query("u"))
	}, RateLimit(l, ByContextValue("userID")), func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, u := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x?u="+u, nil))
		assert.Equal(t, http.StatusOK, w.Code, u)
	}
}

func TestNewLimiter_InvalidRate(t *testing.T) {
	store, err := NewLimiterStore(nil, "test")
	require.NoError(t, err)

	_, err = NewLimiter(store, "lots")

	assert.Error(t, err)
}
