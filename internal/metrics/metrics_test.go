package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, m *Metrics) (int, string) {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rr.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return rr.Code, string(body)
}

func TestMetricsRecordsStoreOperations(t *testing.T) {
	m := New()
	m.StoreOp(OpCreate, nil)
	m.StoreOp(OpCreate, nil)
	m.StoreOp(OpDelete, errors.New("boom"))
	m.SaveDone(time.Now(), nil)
	m.RPC("/eventbook.v1.EventService/Save", "ok")

	code, body := scrape(t, m)
	if code != http.StatusOK {
		t.Fatalf("unexpected status: %d", code)
	}
	for _, want := range []string{
		`eventbook_store_operations_total{op="create",outcome="ok"} 2`,
		`eventbook_store_operations_total{op="delete",outcome="error"} 1`,
		`eventbook_save_duration_seconds_count{outcome="ok"} 1`,
		`eventbook_rpc_requests_total{code="ok",procedure="/eventbook.v1.EventService/Save"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics to contain %q, got: %s", want, body)
		}
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.StoreOp(OpUpdate, nil)
	m.SaveDone(time.Now(), errors.New("boom"))
	m.RPC("x", "ok")

	code, _ := scrape(t, m)
	if code != http.StatusServiceUnavailable {
		t.Fatalf("expected %d, got %d", http.StatusServiceUnavailable, code)
	}
}
