package inspect

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/vangotest/pkg/dom"
	"github.com/vango-dev/vangotest/pkg/vango"
	"github.com/vango-dev/vangotest/pkg/vdom"
	"github.com/vango-dev/vangotest/pkg/vtest"
)

var counter = vdom.Define("Counter", func(props vdom.Props) *vdom.VNode {
	count := vango.UseSignal(0)
	return vdom.Button(vdom.OnClick(func() { count.Set(count.Peek() + 1) }), vdom.Textf("%d", count.Get()))
})

func setup(t *testing.T) (*Server, *vtest.Registry, *prometheus.Registry) {
	t.Helper()
	reg := vtest.NewRegistry()
	promReg := prometheus.NewRegistry()
	srv := New(reg,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithGatherer(promReg),
	)
	t.Cleanup(func() { reg.Drain() })
	return srv, reg, promReg
}

func mount(t *testing.T, reg *vtest.Registry, tree *vdom.VNode, opts ...vtest.Option) *vtest.Root {
	t.Helper()
	base := []vtest.Option{vtest.WithRegistry(reg), vtest.WithDocument(dom.NewDocument())}
	return vtest.Mount(t, tree, append(base, opts...)...)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestListInstances(t *testing.T) {
	srv, reg, _ := setup(t)
	a := mount(t, reg, counter.New())
	mount(t, reg, vdom.Div(vdom.P("hi")))

	rec := get(t, srv, "/instances")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got []Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("instances = %d, want 2", len(got))
	}
	if got[0].ID != a.ID() || got[0].Name != "Counter" || !got[0].Mounted || got[0].Elements != 2 {
		t.Errorf("first instance = %+v", got[0])
	}
	if got[1].Name != "div" || got[1].Elements != 2 {
		t.Errorf("second instance = %+v", got[1])
	}
}

func TestInstanceDetail(t *testing.T) {
	srv, reg, _ := setup(t)
	root := mount(t, reg, counter.New())
	root.Find(vtest.ByTag("button")).Trigger("onclick")

	rec := get(t, srv, "/instances/"+strconv.FormatUint(root.ID(), 10))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var got Detail
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Tree == nil || got.Tree.Type != "Counter" {
		t.Fatalf("tree = %+v", got.Tree)
	}
	button := got.Tree.Children[0]
	if button.Type != "button" || button.Props["onclick"] != "{fn}" || button.Children[0].Text != "1" {
		t.Errorf("button = %+v", button)
	}
	if got.Resyncs != 2 {
		t.Errorf("resyncs = %d, want 2", got.Resyncs)
	}
}

func TestInstanceErrors(t *testing.T) {
	srv, _, _ := setup(t)

	tests := []struct {
		path string
		code int
	}{
		{"/instances/abc", http.StatusBadRequest},
		{"/instances/999999", http.StatusNotFound},
		{"/instances/999999/html", http.StatusNotFound},
		{"/instances/999999/preview", http.StatusNotFound},
	}
	for _, tt := range tests {
		if rec := get(t, srv, tt.path); rec.Code != tt.code {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.code)
		}
	}
}

func TestHTMLAndPreview(t *testing.T) {
	srv, reg, _ := setup(t)
	root := mount(t, reg, vdom.Div(
		vdom.P(vdom.Class("note"), "safe"),
		vdom.El("script", "alert(1)"),
	))
	id := strconv.FormatUint(root.ID(), 10)

	rec := get(t, srv, "/instances/"+id+"/html")
	if got := rec.Body.String(); !strings.Contains(got, "<script>alert(1)</script>") {
		t.Errorf("html = %q, want raw markup", got)
	}

	rec = get(t, srv, "/instances/"+id+"/preview")
	body := rec.Body.String()
	if strings.Contains(body, "<script>") {
		t.Errorf("preview kept a script tag:\n%s", body)
	}
	if !strings.Contains(body, "safe") || !strings.Contains(body, "<h1>div #"+id+"</h1>") {
		t.Errorf("preview = %s", body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestMetricsRoute(t *testing.T) {
	srv, reg, promReg := setup(t)
	metrics := vtest.NewMetrics(vtest.WithPrometheusRegistry(promReg))
	mount(t, reg, counter.New(), vtest.WithMetrics(metrics))

	rec := get(t, srv, "/metrics")
	if !strings.Contains(rec.Body.String(), "vangotest_mounts_total 1") {
		t.Errorf("metrics output missing mounts_total:\n%s", rec.Body)
	}
}

func TestWebsocketStreamsEvents(t *testing.T) {
	srv, reg, _ := setup(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	root := mount(t, reg, counter.New())

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var kinds []vtest.EventKind
	for len(kinds) < 2 {
		var ev vtest.Event
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		if ev.RootID != root.ID() {
			t.Errorf("event for root %d, want %d", ev.RootID, root.ID())
		}
		kinds = append(kinds, ev.Kind)
	}
	if kinds[0] != vtest.EventResync || kinds[1] != vtest.EventMount {
		t.Errorf("events = %v, want [resync mount]", kinds)
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for srv.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client not dropped after disconnect")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
