package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openfra/fra-atlas/internal/events"
)

const heartbeatInterval = 30 * time.Second

// handleEventStream serves the bus over SSE. Every committed run and map
// selection reaches connected dashboards without polling.
func (s *Server) handleEventStream(c echo.Context) error {
	h := c.Response().Header()
	h.Set(echo.HeaderContentType, "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)

	bus := s.pipeline.Bus()
	ch := bus.Subscribe()
	defer bus.Unsubscribe(ch)

	s.metrics.AddSSEClient(1)
	defer s.metrics.AddSSEClient(-1)

	if err := writeSSE(c, "connected", map[string]any{
		"status":      "connected",
		"subscribers": bus.Subscribers(),
	}); err != nil {
		return err
	}

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			if err := writeSSE(c, string(ev.Type), ev); err != nil {
				return err
			}
		case <-ticker.C:
			err := writeSSE(c, "heartbeat", map[string]any{
				"timestamp": time.Now().UTC().Format(time.RFC3339),
				"clients":   bus.Subscribers(),
			})
			if err != nil {
				return err
			}
		}
	}
}

func writeSSE(c echo.Context, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event, err)
	}
	if _, err := fmt.Fprintf(c.Response(), "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	c.Response().Flush()
	return nil
}

// handleLocationSelect publishes a map selection to all stream subscribers.
func (s *Server) handleLocationSelect(c echo.Context) error {
	var body events.LocationPayload
	if err := c.Bind(&body); err != nil {
		return s.handleError(c, err, "Invalid selection payload", http.StatusBadRequest)
	}
	if body.State == "" {
		return s.handleError(c, nil, "state is required", http.StatusBadRequest)
	}

	s.pipeline.Bus().Publish(events.LocationSelected(body.State, body.District))
	return c.JSON(http.StatusOK, echo.Map{
		"status":      "published",
		"subscribers": s.pipeline.Bus().Subscribers(),
	})
}
