package dice

import "go.uber.org/zap"

// Roll evaluates expr with src.
//
// Postcondition: len(result.Dice) == expr.Count and
// expr.Min() <= result.Total() <= expr.Max().
func Roll(expr Expression, src Source) RollResult {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}
	return RollResult{Expression: expr.Raw, Dice: rolled, Modifier: expr.Modifier}
}

// RollExpr parses expr and rolls it with src.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src), nil
}

// Roller wraps a Source and logs every labelled draw at debug level, so a
// seeded battle can be audited draw by draw.
//
// Roller itself satisfies Source.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewRoller creates a Roller drawing from src.
//
// Precondition: src and logger must be non-nil.
func NewRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Intn draws from the underlying source without logging.
func (r *Roller) Intn(n int) int { return r.src.Intn(n) }

// Draw returns a value in [0, n) and logs it under label.
func (r *Roller) Draw(label string, n int) int {
	v := r.src.Intn(n)
	r.logger.Debug("rng draw", zap.String("label", label), zap.Int("bound", n), zap.Int("value", v))
	return v
}

// Percent draws in [0, 100) and logs it under label.
func (r *Roller) Percent(label string) int {
	return r.Draw(label, 100)
}

// Roll evaluates expr and logs the result.
func (r *Roller) Roll(expr Expression) RollResult {
	result := Roll(expr, r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

// RollExpr parses expr and rolls it, logging the result.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(e), nil
}
