package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/eventbook/internal/metrics"
	"github.com/mmynk/eventbook/internal/service"
)

func TestCORSPreflight(t *testing.T) {
	called := false
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if called {
		t.Error("preflight should not reach the wrapped handler")
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS origin header")
	}
}

func TestLoggingPassesThrough(t *testing.T) {
	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected %d, got %d", http.StatusTeapot, rr.Code)
	}
}

func TestInterceptorsRecordCalls(t *testing.T) {
	m := metrics.New()
	var fail atomic.Bool
	procedure := service.AllocateProcedure

	handler := connect.NewUnaryHandler(procedure,
		func(ctx context.Context, req *connect.Request[service.AllocateRequest]) (*connect.Response[service.AllocateResponse], error) {
			if fail.Load() {
				return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("bad"))
			}
			return connect.NewResponse(&service.AllocateResponse{OrderIndex: 1000}), nil
		},
		service.WithJSON(),
		connect.WithInterceptors(LoggingInterceptor(), MetricsInterceptor(m)),
	)
	mux := http.NewServeMux()
	mux.Handle(procedure, handler)
	server := httptest.NewServer(mux)
	defer server.Close()

	client := service.NewClient(http.DefaultClient, server.URL)
	if _, err := client.Allocate(context.Background(), &service.AllocateRequest{}); err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	fail.Store(true)
	if _, err := client.Allocate(context.Background(), &service.AllocateRequest{}); connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()
	for _, want := range []string{
		`eventbook_rpc_requests_total{code="ok",procedure="` + procedure + `"} 1`,
		`eventbook_rpc_requests_total{code="invalid_argument",procedure="` + procedure + `"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics to contain %q, got: %s", want, body)
		}
	}
}
