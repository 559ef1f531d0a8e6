package submitintake

import (
	"time"

	"kokos-intake/internal/common/config"
)

type Config struct {
	Timeout       time.Duration
	MaxJobsActive int
}

// LoadConfig reads the submit-intake entry of the workers map.
func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, TaskType)
	out := &Config{
		Timeout:       time.Duration(wc.Timeout) * time.Millisecond,
		MaxJobsActive: wc.MaxJobsActive,
	}
	if out.Timeout <= 0 {
		out.Timeout = 30 * time.Second
	}
	if out.MaxJobsActive <= 0 {
		out.MaxJobsActive = cfg.Camunda.MaxJobsActive
	}
	if out.MaxJobsActive <= 0 {
		out.MaxJobsActive = 5
	}
	return out
}
