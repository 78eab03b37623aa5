package handlers

import (
	"io"
	"net/http"
	"strings"

	"household-backend/services"
	"household-backend/utils"

	"github.com/gin-gonic/gin"
)

// Tables clients may watch. Any mutation publishes here; subscribers react
// by invalidating and reloading their view of that table.
var streamableTables = []string{
	"profiles",
	"cleaning_tasks",
	"task_states",
	"progress_records",
	"bills",
	"recurring_tasks",
}

// GET /api/stream?tables=bills,cleaning_tasks — SSE change feed
func StreamChanges(c *gin.Context) {
	rt := services.GetRealtime()
	if !rt.Enabled() {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "Change feed unavailable")
		return
	}

	tables := streamableTables
	if raw := c.Query("tables"); raw != "" {
		tables = nil
		for _, t := range strings.Split(raw, ",") {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			for _, known := range streamableTables {
				if t == known {
					tables = append(tables, t)
					break
				}
			}
		}
		if len(tables) == 0 {
			utils.BadRequest(c, "No known tables requested")
			return
		}
	}

	ctx := c.Request.Context()
	events, cancel := rt.Subscribe(ctx, tables)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("change", ev)
			return true
		case <-ctx.Done():
			return false
		}
	})
}
