package prometheus

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	adminauth "github.com/klinika/adminauth"
)

type fakeSource struct {
	snapshot adminauth.MetricsSnapshot
}

func (f fakeSource) MetricsSnapshot() adminauth.MetricsSnapshot { return f.snapshot }

func TestRenderEmptyWhenNoCounters(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: adminauth.MetricsSnapshot{Counters: map[adminauth.MetricID]uint64{}},
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output, got:\n%s", got)
	}
}

func TestRenderIncludesCounters(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: adminauth.MetricsSnapshot{
			Counters: map[adminauth.MetricID]uint64{
				adminauth.MetricVerifySuccess:          7,
				adminauth.MetricSessionUnauthenticated: 2,
			},
		},
	})

	out := exp.Render()
	if !strings.Contains(out, "adminauth_verify_success_total 7") {
		t.Fatalf("expected verify_success counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "adminauth_session_unauthenticated_total 2") {
		t.Fatalf("expected session_unauthenticated counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "# TYPE adminauth_verify_success_total counter") {
		t.Fatalf("expected TYPE line in output, got:\n%s", out)
	}
}

func TestHandlerServesExposition(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: adminauth.MetricsSnapshot{
			Counters: map[adminauth.MetricID]uint64{adminauth.MetricSignOut: 1},
		},
	})

	server := httptest.NewServer(exp.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("unexpected content type %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "adminauth_sign_out_total 1") {
		t.Fatalf("expected sign_out counter, got:\n%s", body)
	}
}

func TestNilExporterRendersEmpty(t *testing.T) {
	var exp *PrometheusExporter
	if exp.Render() != "" {
		t.Fatal("nil exporter must render empty output")
	}
}
