// Package main provides the battle simulator: it loads content, plays a batch
// of battles against one enemy and logs the outcomes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/cardbattle/internal/config"
	"github.com/cory-johannsen/cardbattle/internal/game/battle"
	"github.com/cory-johannsen/cardbattle/internal/observability"
	"github.com/cory-johannsen/cardbattle/internal/sim"
	"github.com/cory-johannsen/cardbattle/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	enemyKind := flag.String("enemy", "", "enemy kind; overrides battle.enemy")
	difficulty := flag.String("difficulty", "", "easy, normal, hard or nightmare; overrides battle.difficulty")
	battles := flag.Int("battles", 0, "number of battles; overrides battle.battles")
	seed := flag.Uint64("seed", 0, "base seed; overrides battle.seed")
	flag.Parse()

	v := config.NewViper()
	v.SetConfigFile(*configPath)
	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("reading config: %v", err)
	}
	if *enemyKind != "" {
		v.Set("battle.enemy", *enemyKind)
	}
	if *difficulty != "" {
		v.Set("battle.difficulty", *difficulty)
	}
	if *battles > 0 {
		v.Set("battle.battles", *battles)
	}
	if *seed != 0 {
		v.Set("battle.seed", *seed)
	}
	cfg, err := config.LoadFromViper(v)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	content, err := sim.LoadContent(cfg.Content, cfg.Scripting, logger)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	defer content.Close()

	var store battle.FlagStore
	if cfg.Database.Enabled {
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		store = pool.Flags()
	}

	logger.Info("starting battle simulator",
		zap.String("enemy", cfg.Battle.Enemy),
		zap.String("difficulty", cfg.Battle.Difficulty),
		zap.Int("battles", cfg.Battle.Battles),
		zap.Uint64("seed", cfg.Battle.Seed),
	)

	rep, err := sim.NewRunner(content, cfg.Battle, store, logger).Run(ctx)
	for i, o := range rep.Outcomes {
		fmt.Fprintf(os.Stdout, "battle %d: winner=%s turns=%d player_hp=%d enemy_hp=%d seed=%d\n",
			i+1, winnerName(o.Winner), o.Turns, o.PlayerHP, o.EnemyHP, o.Seed)
	}
	fmt.Fprintf(os.Stdout, "player %d, enemy %d, unfinished %d [%s]\n",
		rep.PlayerWins, rep.EnemyWins, rep.Unfinished, time.Since(start))
	if err != nil {
		logger.Error("battle simulation failed", zap.Error(err))
		os.Exit(1)
	}
}

func winnerName(w string) string {
	if w == "" {
		return "none"
	}
	return w
}
