package handler

import (
	"bufio"
	"encoding/json"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/filter"
	"github.com/taskdeck/backend/pkg/httpcontext"
	"github.com/taskdeck/backend/store"
)

// EventsHandler streams store change notifications to the browser over
// Server-Sent Events. The client re-fetches the filtered list whenever the
// version advances; the stream itself carries only the version and the
// summary counts.
type EventsHandler struct {
	baseHandler
	store     *store.Store
	heartbeat time.Duration
}

func NewEventsHandler(st *store.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       st,
		heartbeat:   15 * time.Second,
	}
}

type changeEvent struct {
	Version uint64         `json:"version"`
	Summary domain.Summary `json:"summary"`
}

// @Summary Store change feed
// @Tags events
// @Router /api/v1/events [get]
func (h *EventsHandler) Stream(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.SetContentType("text/event-stream")
	ctx.Response.Header.Set("Cache-Control", "no-cache")
	ctx.Response.Header.Set("Connection", "keep-alive")

	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		changes, cancel := h.store.Subscribe()
		defer cancel()

		// Prime the client with the current state before any mutation.
		if err := h.writeChange(w, store.Change{Version: h.store.Version()}); err != nil {
			return
		}

		ticker := time.NewTicker(h.heartbeat)
		defer ticker.Stop()

		for {
			select {
			case change, ok := <-changes:
				if !ok {
					return
				}
				if err := h.writeChange(w, change); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})
}

func (h *EventsHandler) writeChange(w *bufio.Writer, change store.Change) error {
	payload, err := json.Marshal(changeEvent{
		Version: change.Version,
		Summary: filter.Summarize(h.store.Snapshot()),
	})
	if err != nil {
		return err
	}
	if _, err := w.WriteString("event: change\ndata: "); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	if _, err := w.WriteString("\n\n"); err != nil {
		return err
	}
	return w.Flush()
}
