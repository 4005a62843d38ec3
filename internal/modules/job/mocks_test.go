package job

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

// scriptedServer plays the generation backend. Status responses are taken
// from statuses in order, the last one repeating.
type scriptedServer struct {
	*httptest.Server

	mu                sync.Mutex
	statuses          []string
	uploadReply       string
	image             []byte
	uploaded          []byte
	enqueueQuery      url.Values
	cookies           []string
	enqueueCalls      int
	pollTimes         []time.Time
	fetches           int
	echoUploadAsImage bool
}

func newScriptedServer(t *testing.T, statuses ...string) *scriptedServer {
	s := &scriptedServer{
		statuses:    statuses,
		uploadReply: `{"filename":"init-1.png"}`,
		image:       []byte("\x89PNG\r\n\x1a\nnot-really"),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/upload_image", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		s.mu.Lock()
		s.uploaded = data
		s.mu.Unlock()
		_, _ = io.WriteString(w, s.uploadReply)
	})
	mux.HandleFunc("/api/v1/enqueue", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		s.mu.Lock()
		s.enqueueCalls++
		s.enqueueQuery = r.URL.Query()
		s.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/v1/jobs/", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		s.mu.Lock()
		defer s.mu.Unlock()
		if strings.HasSuffix(r.URL.Path, "/image") {
			s.fetches++
			image := s.image
			if s.echoUploadAsImage {
				image = s.uploaded
			}
			_, _ = w.Write(image)
			return
		}
		status := s.statuses[len(s.statuses)-1]
		if len(s.pollTimes) < len(s.statuses) {
			status = s.statuses[len(s.pollTimes)]
		}
		s.pollTimes = append(s.pollTimes, time.Now())
		_, _ = io.WriteString(w, `{"status":"`+status+`"}`)
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *scriptedServer) record(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, err := r.Cookie("session_id"); err == nil {
		s.cookies = append(s.cookies, c.Value)
	} else {
		s.cookies = append(s.cookies, "")
	}
}

func (s *scriptedServer) polls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pollTimes)
}

func (s *scriptedServer) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

type recordedEvent struct {
	event string
	snap  Snapshot
}

type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (e *eventRecorder) Update(event string, data interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap, _ := data.(Snapshot)
	e.events = append(e.events, recordedEvent{event: event, snap: snap})
}

func (e *eventRecorder) names() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ret := make([]string, 0, len(e.events))
	for _, v := range e.events {
		ret = append(ret, v.event)
	}
	return ret
}
