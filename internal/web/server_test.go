package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/qut-iot/tripwire-node/internal/logic"
	"github.com/qut-iot/tripwire-node/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		TickMs:   50,
		StatusMs: 2000,
		Broker:   "tcp://192.168.1.200:1883",
		HTTPAddr: ":8099",
		DeviceID: "laser-node-01",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tr
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(logic.StateBlocked, 585, 590, 800, 26.25, logic.Stats{BlockCount: 2, TotalBlocked: 3 * time.Second})
	tr.SetCalibrated(true)
	tr.SetLinkConnected(true)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if sj.Status.State != "BLOCKED" {
		t.Errorf("State: got %q, want BLOCKED", sj.Status.State)
	}
	if !sj.Status.Calibrated {
		t.Error("expected Calibrated=true")
	}
	if sj.Status.Average != 590 || sj.Status.Baseline != 800 {
		t.Errorf("readings: got avg=%d baseline=%d", sj.Status.Average, sj.Status.Baseline)
	}
	if sj.Status.BlockCount != 2 {
		t.Errorf("BlockCount: got %d, want 2", sj.Status.BlockCount)
	}
	if sj.Status.TotalBlockedMs != 3000 {
		t.Errorf("TotalBlockedMs: got %d, want 3000", sj.Status.TotalBlockedMs)
	}
	if !sj.Status.Link.Connected {
		t.Error("expected Link.Connected=true")
	}
	if sj.Status.Link.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("Link.Broker: got %q", sj.Status.Link.Broker)
	}
	if sj.Status.Config.TickMs != 50 {
		t.Errorf("Config.TickMs: got %d, want 50", sj.Status.Config.TickMs)
	}
}

func TestIndexHTML(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(logic.StateClear, 798, 800, 800, 0.0, logic.Stats{BlockCount: 1})

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	html := string(body)
	for _, want := range []string{"laser-node-01", "CLEAR", "800", "0.0%"} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestIndexNotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("GET /nope: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}
