package panel

import (
	"context"
	"encoding/json"
	"errors"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/reusedev/koi/internal/modules/host"
	"github.com/reusedev/koi/internal/modules/queue"
)

type paintCall struct {
	name   string
	pixels []byte
	x      int
	y      int
	w      int
	h      int
}

// mockDocument is a flat canvas of one colour.
type mockDocument struct {
	selection host.Rect
	fill      color.NRGBA

	mu           sync.Mutex
	reads        []host.Rect
	paints       []paintCall
	refreshes    int
	paintError   error
	refreshError error
}

func (m *mockDocument) Selection() host.Rect {
	return m.selection
}

func (m *mockDocument) PixelData(x, y, w, h int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads = append(m.reads, host.Rect{X: x, Y: y, Width: w, Height: h})
	return imaging.New(w, h, m.fill).Pix, nil
}

func (m *mockDocument) CreatePaintLayer(name string, pixels []byte, x, y, w, h int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.paintError != nil {
		return m.paintError
	}
	m.paints = append(m.paints, paintCall{name: name, pixels: pixels, x: x, y: y, w: w, h: h})
	return nil
}

func (m *mockDocument) RefreshProjection() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshes++
	return m.refreshError
}

func (m *mockDocument) paintCalls() []paintCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]paintCall{}, m.paints...)
}

// echoBackend accepts every job and returns the uploaded init image as the result.
type echoBackend struct {
	*httptest.Server

	mu       sync.Mutex
	status   string
	uploaded [][]byte
	jobs     map[string][]byte
	seeds    []int64
	prompts  []string
	fetches  int
}

func newEchoBackend(t *testing.T, status string) *echoBackend {
	b := &echoBackend{status: status, jobs: make(map[string][]byte)}
	var last []byte
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/upload_image", func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		b.mu.Lock()
		b.uploaded = append(b.uploaded, data)
		last = data
		b.mu.Unlock()
		_, _ = io.WriteString(w, `{"filename":"init.png"}`)
	})
	mux.HandleFunc("/api/v1/enqueue", func(w http.ResponseWriter, r *http.Request) {
		var descriptors []struct {
			ID         string `json:"id"`
			Parameters struct {
				Prompt string `json:"prompt"`
				Seed   int64  `json:"seed"`
			} `json:"parameters"`
		}
		if err := json.Unmarshal([]byte(r.URL.Query().Get("jobs_data")), &descriptors); err != nil || len(descriptors) != 1 {
			http.Error(w, "bad jobs_data", http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		b.jobs[descriptors[0].ID] = last
		b.seeds = append(b.seeds, descriptors[0].Parameters.Seed)
		b.prompts = append(b.prompts, descriptors[0].Parameters.Prompt)
		b.mu.Unlock()
	})
	mux.HandleFunc("/api/v1/jobs/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		rest := strings.TrimPrefix(r.URL.Path, "/api/v1/jobs/")
		if id, ok := strings.CutSuffix(rest, "/image"); ok {
			b.fetches++
			_, _ = w.Write(b.jobs[id])
			return
		}
		_, _ = io.WriteString(w, `{"status":"`+b.status+`"}`)
	})
	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Close)
	return b
}

func (b *echoBackend) uploads() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]byte{}, b.uploaded...)
}

func (b *echoBackend) sent() ([]int64, []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int64{}, b.seeds...), append([]string{}, b.prompts...)
}

func (b *echoBackend) fetchCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fetches
}

// goPusher starts every task right away.
type goPusher struct {
	ctx context.Context
}

func (g goPusher) Push(task queue.Task) error {
	go task.Execute(g.ctx)
	return nil
}

type fullPusher struct{}

func (fullPusher) Push(task queue.Task) error {
	return queue.ErrQueueFull
}

var (
	errPaint   = errors.New("paint failed")
	errRefresh = errors.New("projection unavailable")
)
