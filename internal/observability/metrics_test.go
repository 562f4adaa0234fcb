package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/sleepscope/internal"
)

type stubAnalyzer struct{ err error }

func (s stubAnalyzer) Analyze(context.Context, internal.SleepRecord) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "ok", nil
}

func TestInstrumentAnalyzer(t *testing.T) {
	m := NewMetrics(nil)

	_, err := m.InstrumentAnalyzer(stubAnalyzer{}).Analyze(context.Background(), internal.SleepRecord{})
	require.NoError(t, err)
	_, err = m.InstrumentAnalyzer(stubAnalyzer{err: errors.New("boom")}).Analyze(context.Background(), internal.SleepRecord{})
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.analysesTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analysesTotal.WithLabelValues("error")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics(func() int { return 3 })

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("/ping", "200")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sleep_sessions_active 3")
	assert.Contains(t, w.Body.String(), `http_requests_total{route="/ping",status="200"} 1`)
}
