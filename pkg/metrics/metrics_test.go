package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/jobs/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(requestTotal.WithLabelValues("GET", "/jobs/:id", "200"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/jobs/7", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(requestTotal.WithLabelValues("GET", "/jobs/:id", "200")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope/123", nil))
	assert.Equal(t, float64(1), testutil.ToFloat64(requestTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestObserveTransaction(t *testing.T) {
	before := testutil.ToFloat64(transactionTotal.WithLabelValues("profile_update", OutcomeRolledBack))
	ObserveTransaction("profile_update", OutcomeRolledBack)
	assert.Equal(t, before+1, testutil.ToFloat64(transactionTotal.WithLabelValues("profile_update", OutcomeRolledBack)))
}
