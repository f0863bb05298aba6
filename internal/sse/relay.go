// Package sse relays one job's progress channel to a single HTTP client as
// server-sent events: an "update" event per progress message, a synthetic
// "keep-alive" heartbeat when the channel is quiet, and a hard session cap.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Atticdm/GloCalAI/internal/platform/logger"
	"github.com/Atticdm/GloCalAI/internal/progress"
	"github.com/google/uuid"
)

const (
	heartbeatInterval = 15 * time.Second
	sessionCap        = 30 * time.Minute
)

// Relay streams progress.Subscriber events for one job to w until the
// request context is canceled, the session cap elapses, or the client
// disconnects. It cancels the upstream subscription on every exit path.
type Relay struct {
	sub *progress.Subscriber
	log *logger.Logger
}

func NewRelay(sub *progress.Subscriber, log *logger.Logger) *Relay {
	return &Relay{sub: sub, log: log}
}

func (r *Relay) ServeJob(w http.ResponseWriter, req *http.Request, jobID uuid.UUID) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx, cancel := context.WithTimeout(req.Context(), sessionCap)
	defer cancel()

	events, closeSub := r.sub.Subscribe(ctx, jobID)
	defer closeSub()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			body, err := json.Marshal(ev)
			if err != nil {
				r.log.Warn("sse: marshal event failed", "err", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: update\ndata: %s\n\n", body); err != nil {
				return
			}
			flusher.Flush()
			heartbeat.Reset(heartbeatInterval)
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
