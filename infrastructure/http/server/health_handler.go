package server

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/process"
)

// StoreProbe reports whether the session store can serve requests.
type StoreProbe func() error

type HealthHandler struct {
	log   *slog.Logger
	probe StoreProbe
}

func NewHealthHandler(log *slog.Logger, probe StoreProbe) *HealthHandler {
	return &HealthHandler{log: log, probe: probe}
}

type healthResponse struct {
	Status   string  `json:"status"`
	Pid      int     `json:"pid"`
	RamBytes uint64  `json:"ramBytes,omitempty"`
	CPU      float64 `json:"cpuPercent,omitempty"`
	Error    string  `json:"error,omitempty"`
}

func (h *HealthHandler) Get(c *gin.Context) {
	response := healthResponse{Status: "ok", Pid: os.Getpid()}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := p.MemoryInfo(); err == nil {
			response.RamBytes = mem.RSS
		}
		if cpu, err := p.CPUPercent(); err == nil {
			response.CPU = cpu
		}
	}
	if h.probe != nil {
		if err := h.probe(); err != nil {
			h.log.Warn("Health probe failed", "error", err)
			response.Status = "unavailable"
			response.Error = err.Error()
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}
	}
	c.JSON(http.StatusOK, response)
}
