package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/cardbattle/internal/config"
	"github.com/cory-johannsen/cardbattle/internal/game/battle"
	"github.com/cory-johannsen/cardbattle/internal/game/enemy"
	"github.com/cory-johannsen/cardbattle/internal/game/events"
)

// Report tallies a batch of battles. Outcomes are in battle order.
type Report struct {
	Outcomes   []battle.Outcome
	PlayerWins int
	EnemyWins  int
	Unfinished int
}

// Runner plays cfg.Battles battles concurrently, one goroutine per battle.
type Runner struct {
	engine *battle.Engine
	cfg    config.BattleConfig
	store  battle.FlagStore
	logger *zap.Logger
}

// NewRunner creates a Runner. store may be nil, in which case every batch
// starts with no save flags and nothing is persisted.
//
// Precondition: content and logger must be non-nil.
func NewRunner(content *Content, cfg config.BattleConfig, store battle.FlagStore, logger *zap.Logger) *Runner {
	return &Runner{
		engine: battle.NewEngine(content.Enemies, content.Passives, logger),
		cfg:    cfg,
		store:  store,
		logger: logger,
	}
}

// Engine returns the engine holding the runner's live sessions.
func (r *Runner) Engine() *battle.Engine { return r.engine }

// Run plays one batch. Battle i uses seed cfg.Seed+i, so a non-zero seed
// makes the whole batch reproducible. Flags set by any battle are merged and
// saved once every battle has finished.
//
// Postcondition: every session opened by Run is ended before it returns.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	d, err := enemy.ParseDifficulty(r.cfg.Difficulty)
	if err != nil {
		return Report{}, err
	}
	base := battle.NewFlagSet()
	if r.store != nil {
		if base, err = battle.LoadFlags(ctx, r.store, r.cfg.Profile); err != nil {
			return Report{}, fmt.Errorf("loading save flags: %w", err)
		}
	}

	n := r.cfg.Battles
	ids := make([]string, 0, n)
	sets := make([]*battle.FlagSet, 0, n)
	for i := 0; i < n; i++ {
		seed := r.cfg.Seed
		if seed != 0 {
			seed += uint64(i)
		}
		flags := battle.NewFlagSet(base.List()...)
		id, err := r.engine.Open(battle.Options{
			Kind:         enemy.Kind(r.cfg.Enemy),
			Difficulty:   d,
			Seed:         seed,
			PlayerHP:     r.cfg.PlayerHP,
			HandSize:     r.cfg.HandSize,
			PlayerStrike: r.cfg.PlayerStrike,
			StaggerDelay: r.cfg.StaggerDelay,
			Flags:        flags,
		})
		if err != nil {
			for _, id := range ids {
				r.engine.End(id)
			}
			return Report{}, err
		}
		ids = append(ids, id)
		sets = append(sets, flags)
	}

	outcomes := make([]battle.Outcome, n)
	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			defer r.engine.End(id)
			return r.engine.Do(id, func(s *battle.Session) error {
				out, err := s.Run(ctx, s.Greedy(), r.cfg.MaxTurns, r.pledges)
				outcomes[i] = out
				return err
			})
		})
	}
	errs := []error{g.Wait()}

	rep := Report{Outcomes: outcomes}
	for _, o := range outcomes {
		switch o.Winner {
		case events.Player:
			rep.PlayerWins++
		case events.Enemy:
			rep.EnemyWins++
		default:
			rep.Unfinished++
		}
	}
	for _, s := range sets {
		for _, f := range s.List() {
			base.Set(f)
		}
	}
	if r.store != nil {
		if err := battle.SaveFlags(context.WithoutCancel(ctx), r.store, r.cfg.Profile, base); err != nil {
			errs = append(errs, fmt.Errorf("saving save flags: %w", err))
		}
	}
	r.logger.Info("batch finished",
		zap.String("enemy", r.cfg.Enemy),
		zap.Int("battles", n),
		zap.Int("player_wins", rep.PlayerWins),
		zap.Int("enemy_wins", rep.EnemyWins),
		zap.Int("unfinished", rep.Unfinished),
		zap.Duration("elapsed", time.Since(start)),
	)
	return rep, errors.Join(errs...)
}

func (r *Runner) pledges(int) []int {
	if r.cfg.Pledge <= 0 {
		return nil
	}
	return []int{r.cfg.Pledge}
}
