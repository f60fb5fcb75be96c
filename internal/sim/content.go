// Package sim loads battle content and runs batches of simulated battles.
package sim

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/cardbattle/internal/config"
	"github.com/cory-johannsen/cardbattle/internal/game/enemy"
	"github.com/cory-johannsen/cardbattle/internal/game/passive"
	"github.com/cory-johannsen/cardbattle/internal/scripting"
)

// Content is every registry a battle draws from.
type Content struct {
	Passives *passive.Registry
	Enemies  *enemy.Registry
	Scripts  *scripting.Manager
}

// LoadContent builds the registries. Builtin passives and enemies are used
// as the base; each configured directory adds to or replaces them.
//
// Precondition: logger must be non-nil.
// Postcondition: returns Content whose scripted attacks and templates are all
// registered, or an error naming the first directory that failed.
func LoadContent(cc config.ContentConfig, sc config.ScriptingConfig, logger *zap.Logger) (*Content, error) {
	start := time.Now()
	c := &Content{
		Passives: passive.DefaultRegistry(),
		Enemies:  enemy.DefaultRegistry(logger),
		Scripts:  scripting.NewManager(sc.InstructionLimit, logger),
	}

	if cc.PassivesDir != "" {
		reg, err := passive.LoadDirectory(cc.PassivesDir)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Passives = reg
		logger.Info("loaded passives",
			zap.String("dir", cc.PassivesDir),
			zap.Int("count", len(reg.All())),
		)
	}

	if cc.ScriptsDir != "" {
		if err := c.Scripts.Load(cc.ScriptsDir); err != nil {
			c.Close()
			return nil, fmt.Errorf("loading scripts: %w", err)
		}
	}

	if cc.AttacksDir != "" {
		defs, err := scripting.LoadAttackDefs(cc.AttacksDir)
		if err != nil {
			c.Close()
			return nil, err
		}
		if err := c.Scripts.RegisterAll(c.Enemies, defs); err != nil {
			c.Close()
			return nil, err
		}
		logger.Info("loaded scripted attacks",
			zap.String("dir", cc.AttacksDir),
			zap.Int("count", len(defs)),
		)
	}

	if cc.EnemiesDir != "" {
		tmpls, err := enemy.LoadTemplates(cc.EnemiesDir)
		if err != nil {
			c.Close()
			return nil, err
		}
		for _, t := range tmpls {
			if err := c.Enemies.RegisterTemplate(t); err != nil {
				c.Close()
				return nil, fmt.Errorf("registering enemy %q: %w", t.Kind, err)
			}
		}
		logger.Info("loaded enemy templates",
			zap.String("dir", cc.EnemiesDir),
			zap.Int("count", len(tmpls)),
		)
	}

	logger.Info("content ready",
		zap.Int("enemies", len(c.Enemies.Kinds())),
		zap.Duration("elapsed", time.Since(start)),
	)
	return c, nil
}

// Close releases the Lua VM.
func (c *Content) Close() {
	c.Scripts.Close()
}
