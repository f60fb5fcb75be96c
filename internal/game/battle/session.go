// Package battle runs one player-versus-enemy battle on top of the combat
// core: it owns the bus, the passive service, the trigger queue and the
// player's hand, and drives the turn loop.
package battle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/dice"
	"github.com/cory-johannsen/cardbattle/internal/game/enemy"
	"github.com/cory-johannsen/cardbattle/internal/game/eventbus"
	"github.com/cory-johannsen/cardbattle/internal/game/events"
	"github.com/cory-johannsen/cardbattle/internal/game/passive"
	"github.com/cory-johannsen/cardbattle/internal/game/trigger"
)

// Defaults applied by NewSession to zero Options fields.
const (
	DefaultPlayerHP     = 40
	DefaultHandSize     = 5
	DefaultPlayerStrike = 6
	DefaultStaggerDelay = 250 * time.Millisecond
)

// maxFlushTicks bounds how long Run waits for staggered triggers to drain.
const maxFlushTicks = 1000

var (
	// ErrStarted is returned by Start on a session that already started.
	ErrStarted = errors.New("battle: already started")
	// ErrClosed is returned by turn methods after Close.
	ErrClosed = errors.New("battle: session closed")
	// ErrNotStarted is returned by turn methods before Start.
	ErrNotStarted = errors.New("battle: not started")
)

// Options configures a Session.
type Options struct {
	Kind       enemy.Kind
	Difficulty enemy.Difficulty
	// Seed makes the battle reproducible. Zero draws a fresh seed.
	Seed         uint64
	PlayerHP     int
	HandSize     int
	PlayerStrike int
	StaggerDelay time.Duration
	// Flags is the player's save-flag set; nil means an empty set.
	Flags *FlagSet
	// Deck is the player's deck; nil means StarterDeck.
	Deck []*combat.Card
}

// Outcome summarizes a finished battle.
type Outcome struct {
	SessionID string
	Enemy     enemy.Kind
	Seed      uint64
	Winner    string
	Turns     int
	PlayerHP  int
	EnemyHP   int
}

// Session is one battle. It is not safe for concurrent use; Engine
// serializes access per session.
type Session struct {
	ID string

	opts     Options
	seed     uint64
	bus      *eventbus.Bus
	scope    *eventbus.Scope
	passives *passive.Service
	queue    *trigger.Queue
	rng      *dice.Roller
	tracking *Tracking
	hand     *Hand
	flags    *FlagSet
	advisor  *Advisor
	registry *enemy.Registry
	battle   *combat.Battle

	player *combat.Combatant
	enemy  *enemy.Enemy

	turn    int
	started bool
	winner  string
	closed  bool
	logger  *zap.Logger
}

// NewSession wires a battle against opts.Kind and spawns the enemy.
//
// Precondition: enemies, passives and logger must be non-nil.
// Postcondition: returns a session ready for Start, or an error when the
// enemy kind is unknown or no seed could be drawn.
func NewSession(opts Options, enemies *enemy.Registry, passives *passive.Registry, logger *zap.Logger) (*Session, error) {
	if opts.PlayerHP <= 0 {
		opts.PlayerHP = DefaultPlayerHP
	}
	if opts.HandSize <= 0 {
		opts.HandSize = DefaultHandSize
	}
	if opts.PlayerStrike <= 0 {
		opts.PlayerStrike = DefaultPlayerStrike
	}
	if opts.StaggerDelay <= 0 {
		opts.StaggerDelay = DefaultStaggerDelay
	}
	if opts.Flags == nil {
		opts.Flags = NewFlagSet()
	}
	if opts.Deck == nil {
		opts.Deck = StarterDeck()
	}
	seed := opts.Seed
	if seed == 0 {
		var err error
		if seed, err = dice.NewSeed(); err != nil {
			return nil, fmt.Errorf("drawing battle seed: %w", err)
		}
	}

	id := uuid.NewString()
	logger = logger.With(zap.String("battle", id))
	bus := eventbus.New(logger)
	s := &Session{
		ID:       id,
		opts:     opts,
		seed:     seed,
		bus:      bus,
		scope:    eventbus.NewScope(bus),
		passives: passive.NewService(passives, logger),
		queue:    trigger.NewQueue(logger),
		rng:      dice.NewRoller(dice.NewSeededSource(seed), logger),
		tracking: NewTracking(),
		flags:    opts.Flags,
		registry: enemies,
		player: &combat.Combatant{
			ID:        uuid.NewString(),
			Role:      events.Player,
			Name:      "Player",
			MaxHP:     opts.PlayerHP,
			CurrentHP: opts.PlayerHP,
		},
		logger: logger,
	}
	s.hand = NewHand(opts.Deck, opts.HandSize, s.rng, logger)

	bindPassives(s.scope, s.passives)
	s.tracking.Attach(s.scope)
	s.hand.Attach(s.scope)
	NewHealthSystem(s.scope, s, logger)
	s.advisor = NewAdvisor(s.scope)
	eventbus.On(s.scope, s.onDeath)

	s.battle = &combat.Battle{
		ID:           id,
		Bus:          bus,
		Passives:     s.passives,
		Triggers:     s.queue,
		RNG:          s.rng,
		Entities:     s,
		Tracker:      s.tracking,
		Flags:        s.flags,
		Logger:       logger,
		StaggerDelay: opts.StaggerDelay,
	}
	e, err := enemies.Spawn(opts.Kind, opts.Difficulty, s.battle)
	if err != nil {
		s.scope.Close()
		return nil, err
	}
	s.enemy = e
	logger.Info("battle created",
		zap.String("enemy", string(opts.Kind)),
		zap.String("difficulty", opts.Difficulty.String()),
		zap.Uint64("seed", seed),
	)
	return s, nil
}

// Entity returns the combatant playing role.
func (s *Session) Entity(role string) *combat.Combatant {
	switch role {
	case events.Player:
		return s.player
	case events.Enemy:
		return s.enemy.Combatant
	}
	return nil
}

// Hand returns the cards in the player's hand.
func (s *Session) Hand() []*combat.Card { return s.hand.Cards() }

// PlayerHand returns the player's hand.
func (s *Session) PlayerHand() *Hand { return s.hand }

// Greedy returns a GreedyBlocker that follows this session's block advisories.
func (s *Session) Greedy() GreedyBlocker { return GreedyBlocker{Advisor: s.advisor} }

// Enemy returns the spawned enemy.
func (s *Session) Enemy() *enemy.Enemy { return s.enemy }

// Bus returns the session's event bus.
func (s *Session) Bus() *eventbus.Bus { return s.bus }

// Passives returns the session's passive service.
func (s *Session) Passives() *passive.Service { return s.passives }

// Tracking returns the session's event counters.
func (s *Session) Tracking() *Tracking { return s.tracking }

// Flags returns the save-flag set.
func (s *Session) Flags() *FlagSet { return s.flags }

// Seed returns the seed driving every random draw in the battle.
func (s *Session) Seed() uint64 { return s.seed }

// Turn returns the current turn number; 0 before the first player turn.
func (s *Session) Turn() int { return s.turn }

// Over reports whether either side has died.
func (s *Session) Over() bool { return s.winner != "" }

// Winner returns the role of the surviving side, or "" while the battle runs.
func (s *Session) Winner() string { return s.winner }

func (s *Session) onDeath(e events.EntityDied) {
	if s.winner != "" {
		return
	}
	switch e.ID {
	case events.Enemy:
		s.winner = events.Player
		s.enemy.Dispose()
	case events.Player:
		s.winner = events.Enemy
	default:
		return
	}
	s.logger.Info("battle decided", zap.String("winner", s.winner), zap.Int("turn", s.turn))
}

func (s *Session) check() error {
	if s.closed {
		return ErrClosed
	}
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Start announces the battle and runs the enemy's start-of-battle hook.
// Staggered effects it schedules fire on later Ticks.
func (s *Session) Start() error {
	if s.closed {
		return ErrClosed
	}
	if s.started {
		return ErrStarted
	}
	s.started = true
	eventbus.Publish(s.bus, events.ChangeBattlePhase{Phase: events.StartOfBattle})
	s.enemy.StartOfBattle(s.battle)
	return nil
}

// PlayerTurn starts a new turn: the player's damage-over-time passives tick,
// a new hand is drawn, each pledge is announced and the player strikes for
// PlayerStrike plus Strength plus the pledges. The strike is absorbed by the
// enemy's Aegis, then Armor.
//
// Postcondition: returns the damage dealt to the enemy.
func (s *Session) PlayerTurn(pledges ...int) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	if s.Over() {
		return 0, nil
	}
	s.turn++
	s.battle.Turn = s.turn
	s.tracking.NewTurn()

	tickPassives(s.bus, s.passives, events.Player)
	if s.Over() {
		return 0, nil
	}
	s.hand.Draw()
	eventbus.Publish(s.bus, events.ChangeBattlePhase{Phase: events.PlayerTurnStart, Turn: s.turn})

	strike := s.opts.PlayerStrike + s.passives.Query(events.Player, passive.Strength)
	for _, p := range pledges {
		if s.Over() {
			return 0, nil
		}
		if p <= 0 {
			continue
		}
		eventbus.Publish(s.bus, events.PledgeAdded{Owner: events.Player, Amount: p})
		strike += p
	}
	if s.Over() || strike <= 0 {
		return 0, nil
	}
	m := combat.Mitigate(strike,
		s.passives.Query(events.Enemy, passive.Aegis),
		s.passives.Query(events.Enemy, passive.Armor),
	)
	s.battle.ApplyPassive(events.Enemy, passive.Aegis, -m.Aegis)
	s.battle.ApplyPassive(events.Enemy, passive.Armor, -m.Armor)
	s.battle.Damage(events.Player, events.Enemy, m.Remaining, events.DamageAttack)
	s.logger.Debug("player strike",
		zap.Int("turn", s.turn),
		zap.Int("strike", strike),
		zap.Int("absorbed", m.Absorbed()),
		zap.Int("dealt", m.Remaining),
	)
	return m.Remaining, nil
}

// EnemyTurn ticks the enemy's passives, then selects and resolves this
// turn's attacks in order. blocker assigns blocks per attack; a card blocks
// at most once per turn.
func (s *Session) EnemyTurn(blocker Blocker) ([]combat.Result, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if s.Over() {
		return nil, nil
	}
	if blocker == nil {
		blocker = NoBlocker{}
	}
	tickPassives(s.bus, s.passives, events.Enemy)
	if s.Over() {
		return nil, nil
	}
	eventbus.Publish(s.bus, events.ChangeBattlePhase{Phase: events.EnemyTurnStart, Turn: s.turn})

	ids := s.enemy.SelectAttacks(s.battle, s.turn)
	used := make(map[*combat.Card]bool)
	var results []combat.Result
	for _, a := range s.registry.Instantiate(s.enemy, ids) {
		if s.Over() {
			break
		}
		res, err := s.resolve(a, blocker, used)
		if err != nil {
			return results, fmt.Errorf("resolving %s: %w", a.Def.ID, err)
		}
		results = append(results, res)
	}
	if !s.Over() {
		eventbus.Publish(s.bus, events.ChangeBattlePhase{Phase: events.EnemyTurnEnd, Turn: s.turn})
	}
	return results, nil
}

func (s *Session) resolve(a *combat.Attack, blocker Blocker, used map[*combat.Card]bool) (combat.Result, error) {
	if err := a.Reveal(s.battle); err != nil {
		return combat.Result{}, err
	}
	var available []*combat.Card
	for _, c := range s.hand.Cards() {
		if !used[c] {
			available = append(available, c)
		}
	}
	blocks := blocker.Block(a, available)
	for _, c := range blocks {
		used[c] = true
	}
	if err := a.AssignBlocks(s.battle, blocks...); err != nil {
		return combat.Result{}, err
	}
	if err := a.ConfirmBlocks(s.battle); err != nil {
		return combat.Result{}, err
	}
	return a.Resolve(s.battle)
}

// Tick advances the trigger queue clock.
func (s *Session) Tick(dt time.Duration) int {
	if s.closed {
		return 0
	}
	return s.queue.Tick(dt)
}

// Settle ticks until every pending trigger has fired.
func (s *Session) Settle() int {
	if s.closed {
		return 0
	}
	return s.queue.Flush(s.opts.StaggerDelay, maxFlushTicks)
}

// Close ends the battle: the enemy is disposed and every session handler is
// released. Safe to call repeatedly.
func (s *Session) Close() {
	if s.closed {
		return
	}
	if s.started {
		eventbus.Publish(s.bus, events.ChangeBattlePhase{Phase: events.EndOfBattle, Turn: s.turn})
	}
	s.closed = true
	s.enemy.Dispose()
	s.scope.Close()
}

// Closed reports whether Close has run.
func (s *Session) Closed() bool { return s.closed }

// Outcome returns the battle summary so far.
func (s *Session) Outcome() Outcome {
	return Outcome{
		SessionID: s.ID,
		Enemy:     s.opts.Kind,
		Seed:      s.seed,
		Winner:    s.winner,
		Turns:     s.turn,
		PlayerHP:  s.player.CurrentHP,
		EnemyHP:   s.enemy.CurrentHP,
	}
}

// Run plays the battle to completion with blocker, settling triggers after
// every phase. It stops after maxTurns turns or when ctx is done.
//
// Postcondition: the session is closed on return.
func (s *Session) Run(ctx context.Context, blocker Blocker, maxTurns int, pledges func(turn int) []int) (Outcome, error) {
	defer s.Close()
	if err := s.Start(); err != nil {
		return Outcome{}, err
	}
	s.Settle()
	for !s.Over() && s.turn < maxTurns {
		if err := ctx.Err(); err != nil {
			return s.Outcome(), err
		}
		var p []int
		if pledges != nil {
			p = pledges(s.turn + 1)
		}
		if _, err := s.PlayerTurn(p...); err != nil {
			return s.Outcome(), err
		}
		s.Settle()
		if _, err := s.EnemyTurn(blocker); err != nil {
			return s.Outcome(), err
		}
		s.Settle()
	}
	return s.Outcome(), nil
}
