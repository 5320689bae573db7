// Package fakeservices provides in-process stand-ins for the Cloud Foundry
// services the firehose monitor talks to.
package fakeservices

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/specvital/agent-coverage/internal/domain/metric"
)

const (
	GoodToken     = "good-token"
	GoodTokenType = "bearer"
)

// RunFakeUAA serves POST /oauth/token, issuing GoodToken for user:pass only.
func RunFakeUAA(t testing.TB, user, pass string) string {
	t.Helper()

	expected := "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != expected {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":%q,"token_type":%q,"expires_in":1000000,"scope":"","jti":"28edda5c-4e37-4a63-9ba3-b32f48530a51"}`,
			GoodToken, GoodTokenType)
	})

	return serve(t, mux)
}

// RunFakeGateway serves GET /v2/read as an event stream, writing every batch as a
// "data:" event and repeating the whole list after interval until the client leaves.
func RunFakeGateway(t testing.TB, batches []string, interval time.Duration) string {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v2/read", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != GoodTokenType+" "+GoodToken {
			http.Error(w, "Unauthorized (bad token)", http.StatusUnauthorized)
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			for _, b := range batches {
				if _, err := fmt.Fprintf(w, "data: %s\n\n", b); err != nil {
					return
				}
			}
			flusher.Flush()

			select {
			case <-r.Context().Done():
				return
			case <-ticker.C:
			}
		}
	})

	return serve(t, mux)
}

func serve(t testing.TB, h http.Handler) string {
	srv := httptest.NewServer(h)
	t.Cleanup(func() {
		srv.CloseClientConnections()
		srv.Close()
	})
	return srv.URL
}

// Sink collects datapoints from concurrent senders.
type Sink struct {
	mu  sync.Mutex
	dps []*metric.Datapoint
}

func (s *Sink) Send(dps ...*metric.Datapoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dps = append(s.dps, dps...)
}

func (s *Sink) Datapoints() []*metric.Datapoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*metric.Datapoint, len(s.dps))
	copy(out, s.dps)
	return out
}

// HasTimeSeries reports whether a datapoint with name and exactly dims was received.
func (s *Sink) HasTimeSeries(name string, dims map[string]string) bool {
	for _, dp := range s.Datapoints() {
		if dp.SameSeries(name, dims) {
			return true
		}
	}
	return false
}

func (s *Sink) HasDatapoint(typ metric.MetricType, name string) bool {
	for _, dp := range s.Datapoints() {
		if dp.Type == typ && dp.Metric == name {
			return true
		}
	}
	return false
}
