package api

import (
	"file-panel/internal/database"
	"fmt"
	"net/http"
	"strconv"
)

// @Summary      Get new events
// @Description  Retrieves file events journaled after a given event ID, oldest first, at most 100 at a time. Used by the dashboard to catch up after a reconnect.
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        since  query     int  false  "The ID of the last event received. Omit or use 0 to get all events."
// @Success      200    {array}   database.Event
// @Failure      400    {object}  StatusResponse
// @Failure      500    {object}  StatusResponse
// @Router       /admin/events [get]
func (s *Server) GetEventsHandler(w http.ResponseWriter, r *http.Request) {
	sinceStr := r.URL.Query().Get("since")
	if sinceStr == "" {
		sinceStr = "0"
	}

	sinceID, err := strconv.ParseInt(sinceStr, 10, 64)
	if err != nil || sinceID < 0 {
		s.writeError(w, r, badRequest("Invalid 'since' parameter, must be a number"))
		return
	}

	events, err := s.store.GetEventsSince(r.Context(), sinceID)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("get events since %d: %w", sinceID, err))
		return
	}
	if events == nil {
		events = []database.Event{}
	}

	writeJSON(w, http.StatusOK, events)
}
