package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type KeepAliveTarget struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

var keepAliveTargets []KeepAliveTarget

var keepAliveClient = &http.Client{Timeout: 30 * time.Second}

func ReadKeepAliveConfig() []KeepAliveTarget {
	var targets []KeepAliveTarget
	if err := viper.UnmarshalKey("keepalive.targets", &targets); err != nil {
		log.Error().Err(err).Msg("Failed to loading keep alive config...")
	}
	keepAliveTargets = targets
	log.Info().Int("count", len(targets)).Msg("Loaded keep alive config!")
	return targets
}

// PingTarget issues a GET to the target and returns the status code.
func PingTarget(ctx context.Context, target KeepAliveTarget) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build ping request: %v", err)
	}
	resp, err := keepAliveClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to ping %s: %v", target.URL, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return resp.StatusCode, fmt.Errorf("ping %s answered %d", target.URL, resp.StatusCode)
	}
	return resp.StatusCode, nil
}

// PingKeepAliveTargets pings every target and returns how many answered.
func PingKeepAliveTargets(ctx context.Context, targets []KeepAliveTarget) int {
	var alive int
	for _, target := range targets {
		status, err := PingTarget(ctx, target)
		if err != nil {
			log.Warn().Err(err).Str("id", target.ID).Str("url", target.URL).Msg("Keep alive target did not answer...")
			continue
		}
		log.Debug().Str("id", target.ID).Int("status", status).Msg("Pinged keep alive target.")
		alive++
	}
	return alive
}

func KeepAliveTimedTask() {
	if len(keepAliveTargets) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	PingKeepAliveTargets(ctx, keepAliveTargets)
}
