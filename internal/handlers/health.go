package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	Cache       string `json:"cache"`
	Storage     string `json:"storage,omitempty"`
	Environment string `json:"environment"`
}

func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	statuses := map[string]string{}
	healthy := true
	for name, check := range h.checks {
		statuses[name] = "ok"
		if err := check(ctx); err != nil {
			statuses[name] = "error"
			healthy = false
			h.log.Error().Err(err).Str("dependency", name).Msg("health check failed")
		}
	}

	resp := healthResponse{
		Status:      "ok",
		Database:    statuses["database"],
		Cache:       statuses["cache"],
		Storage:     statuses["storage"],
		Environment: h.cfg.Environment,
	}
	status := http.StatusOK
	if !healthy {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
