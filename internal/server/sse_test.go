package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func readSSEEvent(t *testing.T, r *bufio.Reader) (event, data string) {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "":
			if event != "" || data != "" {
				return event, data
			}
		}
	}
}

func TestEventStream(t *testing.T) {
	s := newTestServer(t, nil)
	srv := httptest.NewServer(s.echo)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events/stream", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("Content-Type = %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	event, _ := readSSEEvent(t, reader)
	if event != "connected" {
		t.Fatalf("first event = %q, want connected", event)
	}

	payload, _ := json.Marshal(map[string]string{"state": "Odisha", "district": "Koraput"})
	rec := do(s, http.MethodPost, "/api/v1/events/select", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("select status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["subscribers"] == float64(0) {
		t.Error("stream client not counted as subscriber")
	}

	event, data := readSSEEvent(t, reader)
	if event != "location_selected" {
		t.Fatalf("event = %q, want location_selected", event)
	}
	var ev struct {
		Type    string `json:"type"`
		Payload struct {
			State    string `json:"state"`
			District string `json:"district"`
		} `json:"payload"`
	}
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		t.Fatalf("decode event data %q: %v", data, err)
	}
	if ev.Payload.State != "Odisha" || ev.Payload.District != "Koraput" {
		t.Errorf("payload = %+v", ev.Payload)
	}
}

func TestEventStream_RunCompleted(t *testing.T) {
	s := newTestServer(t, nil)
	srv := httptest.NewServer(s.echo)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events/stream", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	if event, _ := readSSEEvent(t, reader); event != "connected" {
		t.Fatalf("first event = %q", event)
	}

	seedRun(t, s)

	event, data := readSSEEvent(t, reader)
	if event != "run_completed" {
		t.Fatalf("event = %q, want run_completed", event)
	}
	if !strings.Contains(data, "generation") {
		t.Errorf("data = %q, want a run snapshot", data)
	}
}

func TestLocationSelect_RequiresState(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(s, http.MethodPost, "/api/v1/events/select", []byte(`{"district":"Betul"}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
