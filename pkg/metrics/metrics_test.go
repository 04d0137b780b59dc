package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheus_RecordsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	p, err := NewPrometheus(reg, nil)
	require.NoError(t, err)

	r := gin.New()
	r.Use(p.HandlerFunc())
	r.GET("/channels/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/channels/"+id, nil))
	}

	require.Equal(t, float64(2), testutil.ToFloat64(p.reqCnt.WithLabelValues("204", http.MethodGet, "/channels/:id")))

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, DefaultMetricsPath, nil))
	require.Contains(t, w.Body.String(), "community_http_req_total")
}

func TestNewBusiness_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	b, err := NewBusiness(reg)
	require.NoError(t, err)
	b.WebhookEvents.WithLabelValues("invoice.payment_succeeded", "handled").Inc()
	require.Equal(t, float64(1), testutil.ToFloat64(b.WebhookEvents.WithLabelValues("invoice.payment_succeeded", "handled")))

	_, err = NewBusiness(reg)
	require.Error(t, err)
}

func TestNewMetric_UnknownType(t *testing.T) {
	_, err := NewMetric(&Metric{Name: "x", Type: "bogus"}, "s")
	require.Error(t, err)
}
