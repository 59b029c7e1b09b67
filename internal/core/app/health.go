package app

import (
	"context"
	"fmt"
	"time"

	"staticlint/internal/shared/util"
)

// A parser held longer than this points at a stuck worker.
const parserLeaseLimit = time.Minute

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
	Runtime    util.RuntimeStats `json:"runtime"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
		Runtime:    util.ReadRuntimeStats(),
	}

	if s.app.Parser != nil {
		status.Components["parser"] = fmt.Sprintf("ok (%v)", s.app.Parser.SupportedExtensions())
		leased, oldest := s.app.Parser.Leases(status.Timestamp)
		switch {
		case leased == 0:
			status.Components["parser_pool"] = "idle"
		case oldest > parserLeaseLimit:
			status.Status = "degraded"
			status.Components["parser_pool"] = fmt.Sprintf("%d leased, oldest held %s", leased, oldest.Round(time.Second))
		default:
			status.Components["parser_pool"] = fmt.Sprintf("%d leased", leased)
		}
	} else {
		status.Status = "degraded"
		status.Components["parser"] = "missing"
	}

	if engine, err := s.app.Registry.Instantiate(s.app.Config); err != nil {
		status.Status = "degraded"
		status.Components["rules"] = err.Error()
	} else {
		status.Components["rules"] = fmt.Sprintf("ok (%d active)", len(engine.Issues()))
	}

	if s.app.History != nil {
		if _, err := s.app.History.LoadRuns(ctx, s.app.ProjectKey(), 1); err != nil {
			status.Status = "degraded"
			status.Components["history"] = err.Error()
		} else {
			status.Components["history"] = "ok"
		}
	} else if s.app.Config.DB.Enabled {
		status.Status = "degraded"
		status.Components["history"] = "missing but enabled in config"
	}

	return status
}
