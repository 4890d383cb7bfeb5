package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type DiagHandler struct {
	db *sqlx.DB
}

func NewDiagHandler(db *sqlx.DB) *DiagHandler {
	return &DiagHandler{db: db}
}

// DBStatusResponse reports database reachability.
type DBStatusResponse struct {
	Connected bool   `json:"connected"`
	Message   string `json:"message"`
}

// TestDBConnection handles GET /api/test-db-connection and /api/db-test
// @Summary Database connectivity check
// @Tags diagnostics
// @Produce json
// @Success 200 {object} DBStatusResponse
// @Router /api/test-db-connection [get]
func (h *DiagHandler) TestDBConnection(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := h.db.PingContext(ctx); err != nil {
		c.JSON(http.StatusOK, DBStatusResponse{
			Connected: false,
			Message:   "database unreachable: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, DBStatusResponse{
		Connected: true,
		Message:   "connected in " + time.Since(start).Round(time.Millisecond).String(),
	})
}
