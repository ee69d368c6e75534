package panel

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/devicelab-dev/exploration-panel/pkg/api"
	"github.com/devicelab-dev/exploration-panel/pkg/history"
	"github.com/devicelab-dev/exploration-panel/pkg/view"
)

// fakeService is an in-process exploration service keyed by "METHOD /path".
type fakeService struct {
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	calls    map[string]int
	bodies   map[string][]map[string]interface{}
}

func newFakeService(t *testing.T) (*fakeService, *httptest.Server) {
	t.Helper()
	fs := &fakeService{
		handlers: make(map[string]http.HandlerFunc),
		calls:    make(map[string]int),
		bodies:   make(map[string][]map[string]interface{}),
	}
	srv := httptest.NewServer(http.HandlerFunc(fs.serve))
	t.Cleanup(srv.Close)
	return fs, srv
}

func (f *fakeService) serve(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path

	data, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(data))

	f.mu.Lock()
	f.calls[key]++
	if len(data) > 0 {
		var body map[string]interface{}
		if json.Unmarshal(data, &body) == nil {
			f.bodies[key] = append(f.bodies[key], body)
		}
	}
	h := f.handlers[key]
	f.mu.Unlock()

	if h == nil {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

func (f *fakeService) handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method+" "+path] = h
}

// block registers a handler that signals entered, waits for release and
// then writes body. It returns the two channels.
func (f *fakeService) block(method, path, body string) (entered, release chan struct{}) {
	entered = make(chan struct{})
	release = make(chan struct{})
	var once sync.Once
	f.handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(entered) })
		<-release
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	})
	return entered, release
}

// reply registers a handler that writes a fixed status and body.
func (f *fakeService) reply(method, path string, status int, body string) {
	f.handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	})
}

func (f *fakeService) callCount(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method+" "+path]
}

func (f *fakeService) body(method, path string, i int) map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.bodies[method+" "+path]
	if i >= len(b) {
		return nil
	}
	return b[i]
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteText(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []history.Entry
}

func (r *fakeRecorder) Record(_ context.Context, e history.Entry) (*history.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return &e, nil
}

func (r *fakeRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func newTestController(t *testing.T, srv *httptest.Server, mutate ...func(*Config)) *Controller {
	t.Helper()
	cfg := Config{Service: api.NewClient(srv.URL, 5*time.Second)}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func countLevel(c *Controller, level view.Level) int {
	n := 0
	for _, note := range c.Notifications() {
		if note.Level == level {
			n++
		}
	}
	return n
}

func lastNotification(t *testing.T, c *Controller) view.Notification {
	t.Helper()
	notes := c.Notifications()
	if len(notes) == 0 {
		t.Fatal("expected a notification")
	}
	return notes[len(notes)-1]
}

const explorationA = `{"_id":"a","name":"Shop","url":"https://shop.test","created_at":"2025-04-15T12:01:20","data":{"pages":{"/":{},"/cart":{}}},"summary":{"has_test_cases":true,"test_case_count":2}}`
const explorationB = `{"_id":"b","domain":"blog.test","url":"https://blog.test","summary":{"has_test_cases":false}}`

const twoCases = `{"status":"success","test_cases":[
	{"id":1,"title":"Login","description":"d","steps":["open"],"expected_results":["ok"]},
	{"id":2,"title":"Search","steps":["type"],"expected_results":["results"],"has_generated_code":true,"generated_code":{"code":"print('search')"}}
]}`
