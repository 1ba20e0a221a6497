package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestContactMetricsIncrement(t *testing.T) {
	ContactSubmissions.WithLabelValues("sent").Inc()
	if v := testutil.ToFloat64(ContactSubmissions.WithLabelValues("sent")); v < 1 {
		t.Fatalf("expected ContactSubmissions{sent} >= 1, got %v", v)
	}

	SessionsActive.Set(3)
	if v := testutil.ToFloat64(SessionsActive); v != 3 {
		t.Fatalf("expected SessionsActive == 3, got %v", v)
	}

	RelaySendSeconds.WithLabelValues("test").Observe(0.2)
	if n := testutil.CollectAndCount(RelaySendSeconds); n < 1 {
		t.Fatalf("expected at least one relay histogram series, got %d", n)
	}
}

func TestHandlerServesRegistry(t *testing.T) {
	PageViews.WithLabelValues("/").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(string(body), "portfolio_page_views_total") {
		t.Fatalf("metrics output missing portfolio_page_views_total")
	}
}
