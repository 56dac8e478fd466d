package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/LMascagni/simasm/pkg/layout"
	"github.com/LMascagni/simasm/pkg/navigate"
	"github.com/LMascagni/simasm/pkg/pipeline"
	"github.com/LMascagni/simasm/pkg/scheduler"
	"github.com/LMascagni/simasm/pkg/session"
	"github.com/LMascagni/simasm/pkg/source"
)

const scenario = "; --- INIT ---\nSTART: LDWI R0, 5\n JMP START\n; --- LOOP ---\n JMP START"

type recordingNavigator struct {
	mu    sync.Mutex
	lines []int
}

func (r *recordingNavigator) Navigate(_ context.Context, m navigate.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, m.Line)
	return nil
}

func (r *recordingNavigator) Close() error { return nil }

func (r *recordingNavigator) got() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.lines...)
}

func setup(t *testing.T) (*httptest.Server, *session.View, *recordingNavigator) {
	t.Helper()

	nav := &recordingNavigator{}
	opts := pipeline.DefaultOptions()
	opts.Measurer = layout.CellMeasurer{Width: 7}
	v, err := session.Open("prog.asm", session.Options{
		Pipeline: opts,
		Schedule: scheduler.Config{
			Settle:   time.Millisecond,
			Debounce: 10 * time.Millisecond,
			Liveness: time.Hour,
			Retry:    10 * time.Millisecond,
		},
		Navigator: nav,
		Load: func(path string) (*source.Document, error) {
			return source.New(path, scenario), nil
		},
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	reg := session.NewRegistry()
	reg.Add(v)

	ctx, cancel := context.WithCancel(context.Background())
	go v.Run(ctx)

	srv := httptest.NewServer(New(reg, nil).Handler())
	t.Cleanup(func() {
		srv.Close()
		cancel()
		reg.Close()
	})
	return srv, v, nav
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(body)
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	resp.Body.Close()
	return resp
}

func TestDocument(t *testing.T) {
	srv, v, _ := setup(t)

	for _, path := range []string{"/", v.Base() + "/"} {
		resp, body := get(t, srv.URL+path)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status = %d, want 200", path, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("GET %s Content-Type = %q", path, ct)
		}
		if sv := resp.Header.Get("Server"); !strings.HasPrefix(sv, "simasm/") {
			t.Errorf("GET %s Server = %q, want simasm/...", path, sv)
		}
		if !strings.Contains(body, "simasm-config") || !strings.Contains(body, "INIT") {
			t.Errorf("GET %s did not return the chart document", path)
		}
	}
}

func TestRevision(t *testing.T) {
	srv, v, _ := setup(t)
	get(t, srv.URL+"/") // waits for the first pass

	_, body := get(t, srv.URL+v.Base()+"/api/revision")
	var got revisionResponse
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Revision != session.Revision(scenario) {
		t.Errorf("revision = %q, want %q", got.Revision, session.Revision(scenario))
	}
	if got.Seq < 1 {
		t.Errorf("seq = %d, want >= 1", got.Seq)
	}
}

func TestJump(t *testing.T) {
	srv, v, nav := setup(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"valid", `{"command":"jumpToLine","line":2}`, http.StatusNoContent},
		{"unknown command", `{"command":"open","line":2}`, http.StatusBadRequest},
		{"malformed", `{`, http.StatusBadRequest},
		{"out of range", `{"command":"jumpToLine","line":40}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+v.Base()+"/api/jump", tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}

	if got := nav.got(); len(got) != 1 || got[0] != 2 {
		t.Errorf("navigated to %v, want [2]", got)
	}
}

func TestResize(t *testing.T) {
	srv, _, _ := setup(t)

	if resp := post(t, srv.URL+"/api/resize", `{"width":800,"height":600}`); resp.StatusCode != http.StatusAccepted {
		t.Errorf("valid resize status = %d, want 202", resp.StatusCode)
	}
	if resp := post(t, srv.URL+"/api/resize", `{"width":-5,"height":600}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("negative resize status = %d, want 400", resp.StatusCode)
	}
	if resp := post(t, srv.URL+"/api/resize", `nope`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed resize status = %d, want 400", resp.StatusCode)
	}
}

func TestChartJSON(t *testing.T) {
	srv, _, _ := setup(t)
	get(t, srv.URL+"/")

	resp, body := get(t, srv.URL+"/api/chart.json")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got struct {
		Paths []json.RawMessage `json:"paths"`
		Lanes []struct {
			Label string `json:"label"`
		} `json:"lanes"`
	}
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Paths) != 2 || len(got.Lanes) != 1 || got.Lanes[0].Label != "START" {
		t.Errorf("chart = %d paths, lanes %+v", len(got.Paths), got.Lanes)
	}
}

func TestViews(t *testing.T) {
	srv, v, _ := setup(t)

	_, body := get(t, srv.URL+"/api/views")
	var got []viewInfo
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].ID != v.ID || got[0].Path != "prog.asm" {
		t.Errorf("views = %+v", got)
	}

	resp, _ := get(t, srv.URL+"/views/unknown/api/revision")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown view status = %d, want 404", resp.StatusCode)
	}
}

func TestNoViews(t *testing.T) {
	srv := httptest.NewServer(New(session.NewRegistry(), nil).Handler())
	defer srv.Close()

	resp, _ := get(t, srv.URL+"/")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
