package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/seqops/helix/internal/api"
	"github.com/seqops/helix/internal/config"
	"github.com/seqops/helix/internal/engine"
	"github.com/seqops/helix/internal/model"
	"github.com/seqops/helix/internal/runner"
	"github.com/seqops/helix/internal/store"
)

func main() {
	// A missing .env is fine; the environment itself takes precedence anyway.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := config.NewLogger(os.Stdout, cfg.LogLevel)

	logger.Info("helix: starting",
		"listen_addr", cfg.ListenAddr,
		"runner", cfg.Runner,
		"sim_min_duration", cfg.Simulation.MinDuration.String(),
		"sim_max_duration", cfg.Simulation.MaxDuration.String(),
		"sim_success_rate", cfg.Simulation.SuccessRate,
	)

	clock := model.RealClock{}
	jobs := store.NewMemoryStore(clock)

	reg := runner.NewRegistry()
	reg.Register("simulated", runner.NewSimulated(cfg.Simulation))

	eng := engine.NewEngine(jobs, reg, cfg.Runner, clock, logger)
	srv := api.NewServer(cfg.ListenAddr, jobs, reg, eng, clock, logger)

	err := srv.Run()

	// Let in-flight jobs reach a terminal state before exiting, on the error
	// path too.
	eng.Wait()

	if err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
