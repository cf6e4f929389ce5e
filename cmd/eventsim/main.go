// Command eventsim runs the galactic recurring-events and electoral
// simulation against a synthesized galaxy, with an HTTP observation API and a
// SQLite archive of completed events.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/galactic-events/internal/api"
	"github.com/talgya/galactic-events/internal/archive"
	"github.com/talgya/galactic-events/internal/catalog"
	"github.com/talgya/galactic-events/internal/config"
	"github.com/talgya/galactic-events/internal/engine"
	"github.com/talgya/galactic-events/internal/entropy"
	"github.com/talgya/galactic-events/internal/galaxy"
	"github.com/talgya/galactic-events/internal/knobs"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg.Logging)

	slog.Info("Galactic Events — recurring events and electoral simulation")

	// ── Archive ───────────────────────────────────────────────────────
	var db *archive.DB
	if cfg.Archive.Enabled {
		os.MkdirAll(filepath.Dir(cfg.Archive.Path), 0755)
		db, err = archive.Open(cfg.Archive.Path)
		if err != nil {
			slog.Error("failed to open archive", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("archive opened", "path", cfg.Archive.Path)
	}

	// ── Entropy ───────────────────────────────────────────────────────
	src := pickEntropy(cfg.Sim.Seed)

	// ── Engine ────────────────────────────────────────────────────────
	cat := catalog.Builtin()
	ks := knobs.NewStore(knobs.Defaults())
	if len(cfg.Knobs) > 0 {
		rep := ks.Merge(cfg.Knobs, "config")
		slog.Info("config knobs applied", "applied", len(rep.Applied), "rejected", len(rep.Rejected))
	}

	epoch := time.Now()
	synth := galaxy.NewSynth(cfg.Sim.Seed, cfg.Sim.Civilizations, epoch)

	eng := engine.New(cat, ks, src)

	// The sim clock runs compressed: time_scale sim-seconds per real second.
	start := time.Now()
	eng.Now = func() time.Time {
		elapsed := time.Since(start)
		return epoch.Add(time.Duration(float64(elapsed) * cfg.Sim.TimeScale))
	}

	// Seed the galactic senate cycle. Term length shrinks as the electoral
	// frequency knob rises.
	termYears := 5 - 3*ks.Value(knobs.ElectoralFrequency)
	firstVote := epoch.Add(60 * catalog.Day)
	eng.AddElection(engine.Election{
		ID:             "election_galactic_senate_1",
		CivilizationID: "galactic_senate",
		Type:           "senate_election",
		CampaignStart:  firstVote.Add(-30 * catalog.Day),
		ElectionDate:   firstVote,
		CampaignLength: 30 * catalog.Day,
		TermLength:     time.Duration(termYears * float64(catalog.Year)),
		Parties: []string{
			"unity_coalition", "expansion_front", "preservation_league", "free_traders",
		},
	})

	slog.Info("engine ready",
		"templates", cat.Len(),
		"civilizations", cfg.Sim.Civilizations,
		"time_scale", cfg.Sim.TimeScale,
		"seeded", cfg.Sim.Seed != 0,
	)

	// ── HTTP API ──────────────────────────────────────────────────────
	adminKey := cfg.API.AdminKey
	if adminKey == "" {
		adminKey = os.Getenv("EVENTSIM_API_ADMIN_KEY")
	}
	if adminKey == "" {
		slog.Warn("no admin key configured — admin POST endpoints will be disabled")
	}

	apiServer := &api.Server{
		Eng:      eng,
		DB:       db,
		Port:     cfg.API.Port,
		AdminKey: adminKey,
	}
	apiServer.Start()

	// ── Tick loop ─────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Sim.TickInterval)
	defer ticker.Stop()

	fmt.Printf("Simulation running. API: http://localhost:%d/api/v1/status (Ctrl+C to stop)\n", cfg.API.Port)

	for {
		select {
		case sig := <-sigCh:
			slog.Info("received signal, shutting down", "signal", sig)
			shutdown(eng, db)
			return
		case <-ticker.C:
			now := eng.Now()
			rpt := eng.Tick(synth.At(now), nil)
			if rpt == nil {
				continue
			}

			logElections(rpt)

			if db != nil {
				if err := db.ApplyReport(rpt); err != nil {
					slog.Error("archive apply failed", "error", err)
				}
			}
		}
	}
}

func setupLogging(lc config.LoggingConfig) {
	level := slog.LevelInfo
	switch lc.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if lc.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}

// pickEntropy selects the randomness source: a fixed seed for reproducible
// runs, random.org when an API key is present, crypto/rand otherwise.
func pickEntropy(seed int64) entropy.Source {
	if seed != 0 {
		slog.Info("using seeded entropy", "seed", seed)
		return entropy.Seeded(seed)
	}
	if key := os.Getenv("RANDOM_ORG_KEY"); key != "" {
		slog.Info("using random.org entropy")
		return entropy.NewClient(key)
	}
	return entropy.Crypto()
}

func logElections(rpt *engine.Report) {
	for _, eu := range rpt.Elections {
		if eu.Results == nil {
			continue
		}
		winnerVotes := eu.Results.Votes[eu.Results.Winner]
		slog.Info("election decided",
			"election_id", eu.ElectionID,
			"winner", eu.Results.Winner,
			"votes", humanize.Comma(winnerVotes),
			"share", fmt.Sprintf("%.1f%%", eu.Results.WinnerShare),
		)
	}
}

func shutdown(eng *engine.Engine, db *archive.DB) {
	if db == nil {
		return
	}
	slog.Info("final archive save...")
	if err := db.SaveHistory(eng.History(0)); err != nil {
		slog.Error("final save failed", "error", err)
	}
	db.LogSummary()
}
