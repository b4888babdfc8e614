package inspect

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/SpacialCircumstances/viste/pkg/telemetry"
	"github.com/SpacialCircumstances/viste/pkg/viste"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	reg := prometheus.NewRegistry()
	obs := telemetry.NewPrometheusObserver(telemetry.WithRegistry(reg))
	loop := NewLoop(viste.NewWorld(viste.WithObserver(obs)), 0)
	t.Cleanup(loop.Close)

	s, err := New(context.Background(), loop,
		WithGatherer(reg),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func doRequest(t *testing.T, method, url, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest() error: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(data)
}

func TestServerHealthz(t *testing.T) {
	_, ts := newTestServer(t)
	status, body := doRequest(t, http.MethodGet, ts.URL+"/healthz", "")
	if status != http.StatusOK || body != "OK" {
		t.Errorf("expected 200 OK, got %d %q", status, body)
	}
}

func TestServerCounter(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := doRequest(t, http.MethodPost, ts.URL+"/counter/incr", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", status, body)
	}
	doRequest(t, http.MethodPost, ts.URL+"/counter/incr", "")

	_, body = doRequest(t, http.MethodGet, ts.URL+"/counter", "")
	var resp counterResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("invalid JSON %q: %v", body, err)
	}
	if resp.Value != 2 || resp.Text != "count: 2" {
		t.Errorf("expected 2 / \"count: 2\", got %+v", resp)
	}

	status, body = doRequest(t, http.MethodPost, ts.URL+"/counter/reset", "")
	if status != http.StatusBadRequest || !strings.Contains(body, "E181") {
		t.Errorf("expected 400 with E181, got %d %s", status, body)
	}
	var errResp struct {
		Error string `json:"error"`
		Cause struct {
			Code     string `json:"code"`
			Category string `json:"category"`
			Detail   string `json:"detail"`
		} `json:"cause"`
	}
	if err := json.Unmarshal([]byte(body), &errResp); err != nil {
		t.Fatalf("invalid JSON %q: %v", body, err)
	}
	if errResp.Cause.Code != "E181" || errResp.Cause.Category != "inspect" {
		t.Errorf("expected cause E181 in category inspect, got %+v", errResp.Cause)
	}
}

func TestServerLabels(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodPost, "/labels", `{"label":"beta"}`, http.StatusCreated},
		{http.MethodPost, "/labels", `{"label":"alpha"}`, http.StatusCreated},
		{http.MethodPost, "/labels", `{"label":"alpha"}`, http.StatusConflict},
		{http.MethodPost, "/labels", `{"label":""}`, http.StatusBadRequest},
		{http.MethodPost, "/labels", `not json`, http.StatusBadRequest},
		{http.MethodPost, "/labels", `{"label":"gamma"}`, http.StatusCreated},
		{http.MethodDelete, "/labels/beta", "", http.StatusNoContent},
		{http.MethodDelete, "/labels/beta", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		status, body := doRequest(t, tt.method, ts.URL+tt.path, tt.body)
		if status != tt.status {
			t.Errorf("%s %s %s: expected %d, got %d %s", tt.method, tt.path, tt.body, tt.status, status, body)
		}
	}

	_, body := doRequest(t, http.MethodGet, ts.URL+"/labels", "")
	var resp struct {
		Labels []string `json:"labels"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("invalid JSON %q: %v", body, err)
	}
	if strings.Join(resp.Labels, ",") != "alpha,gamma" {
		t.Errorf("expected alpha,gamma, got %v", resp.Labels)
	}
}

func TestServerGraphAndMetrics(t *testing.T) {
	_, ts := newTestServer(t)

	_, body := doRequest(t, http.MethodGet, ts.URL+"/graph", "")
	var snap viste.Snapshot
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		t.Fatalf("invalid JSON %q: %v", body, err)
	}
	if len(snap.Nodes) == 0 || snap.Edges == 0 {
		t.Errorf("expected demo nodes and edges, got %+v", snap)
	}

	_, body = doRequest(t, http.MethodGet, ts.URL+"/metrics", "")
	if !strings.Contains(body, "viste_nodes ") {
		t.Errorf("expected viste_nodes gauge in metrics output, got:\n%s", body)
	}
}

func TestServerLoopClosed(t *testing.T) {
	s, ts := newTestServer(t)
	s.loop.Close()

	status, _ := doRequest(t, http.MethodGet, ts.URL+"/counter", "")
	if status != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", status)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	return ev
}

func TestServerWebSocketFeed(t *testing.T) {
	s, ts := newTestServer(t)
	doRequest(t, http.MethodPost, ts.URL+"/labels", `{"label":"seed"}`)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial(%q) failed: %v", url, err)
	}
	defer conn.Close()

	snap := readEvent(t, conn)
	if snap.Type != "snapshot" || snap.Counter == nil || *snap.Counter != 0 {
		t.Fatalf("expected snapshot with counter 0, got %+v", snap)
	}
	if strings.Join(snap.All, ",") != "seed" {
		t.Errorf("expected labels [seed], got %v", snap.All)
	}

	if err := conn.WriteJSON(Command{Op: "incr"}); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	ev := readEvent(t, conn)
	if ev.Type != "update" || ev.Counter == nil || *ev.Counter != 1 || ev.Text != "count: 1" {
		t.Errorf("expected update with counter 1, got %+v", ev)
	}

	if err := conn.WriteJSON(Command{Op: "add", Label: "web"}); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	ev = readEvent(t, conn)
	if len(ev.Labels) != 1 || ev.Labels[0] != (LabelChange{Op: "Added", Label: "web"}) {
		t.Errorf("expected Added(web), got %+v", ev.Labels)
	}

	// HTTP mutations reach websocket clients too.
	doRequest(t, http.MethodDelete, ts.URL+"/labels/seed", "")
	ev = readEvent(t, conn)
	if len(ev.Labels) != 1 || ev.Labels[0] != (LabelChange{Op: "Removed", Label: "seed"}) {
		t.Errorf("expected Removed(seed), got %+v", ev.Labels)
	}
	if s.ClientCount() != 1 {
		t.Errorf("expected 1 client, got %d", s.ClientCount())
	}
}

func TestServerServeShutsDownOnCancel(t *testing.T) {
	s, _ := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never came up: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServerRegisterAbandonedClient(t *testing.T) {
	s, _ := newTestServer(t)

	release := make(chan struct{})
	started := make(chan struct{})
	go s.loop.Do(context.Background(), func(*viste.World) error {
		close(started)
		<-release
		return nil
	})
	<-started

	c := &client{id: "late", send: make(chan []byte, 16)}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := s.register(ctx, c); err != context.DeadlineExceeded {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	close(release)

	// The queued registration runs now and must not add the client.
	if err := s.loop.Do(context.Background(), func(*viste.World) error { return nil }); err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if n := s.ClientCount(); n != 0 {
		t.Errorf("expected abandoned client to stay unregistered, got %d clients", n)
	}
	if len(c.send) != 0 {
		t.Errorf("expected no snapshot queued for abandoned client, got %d", len(c.send))
	}
}
