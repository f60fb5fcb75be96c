package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/cardbattle/internal/game/dice"
)

func TestRollResult_Total(t *testing.T) {
	r := dice.RollResult{Expression: "2d6+3", Dice: []int{4, 5}, Modifier: 3}
	assert.Equal(t, 12, r.Total())
	assert.Equal(t, "2d6+3 = [4 5] +3 = 12", r.String())
}

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
	assert.Panics(t, func() { src.Intn(0) })
}

func TestSeededSource_Reproducible(t *testing.T) {
	a, b := dice.NewSeededSource(42), dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Intn(1000), b.Intn(1000))
	}
	seed, ok := dice.Seed(a)
	assert.True(t, ok)
	assert.Equal(t, uint64(42), seed)
	_, ok = dice.Seed(dice.NewCryptoSource())
	assert.False(t, ok)
}

func TestNewSeed(t *testing.T) {
	_, err := dice.NewSeed()
	assert.NoError(t, err)
}

func TestParse(t *testing.T) {
	cases := []struct {
		in                    string
		count, sides, modifer int
	}{
		{"d4", 1, 4, 0},
		{"2d6+3", 2, 6, 3},
		{"1D8-2", 1, 8, -2},
		{"7", 0, 0, 7},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			e, err := dice.Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.count, e.Count)
			assert.Equal(t, tc.sides, e.Sides)
			assert.Equal(t, tc.modifer, e.Modifier)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "d1", "0d6", "2x6", "d"} {
		_, err := dice.Parse(in)
		assert.Error(t, err, in)
	}
	assert.Panics(t, func() { dice.MustParse("nope") })
}

func TestPropertyRoll_WithinBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 6).Draw(rt, "count")
		sides := rapid.IntRange(2, 20).Draw(rt, "sides")
		mod := rapid.IntRange(-5, 5).Draw(rt, "mod")
		seed := rapid.Uint64().Draw(rt, "seed")
		e := dice.Expression{Raw: "x", Count: count, Sides: sides, Modifier: mod}
		r := dice.Roll(e, dice.NewSeededSource(seed))
		assert.Len(rt, r.Dice, count)
		assert.GreaterOrEqual(rt, r.Total(), e.Min())
		assert.LessOrEqual(rt, r.Total(), e.Max())
	})
}

func TestRoller_LogsLabelledDraws(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := dice.NewRoller(dice.NewSeededSource(1), zap.New(core))
	v := r.Percent("skeleton.turn1")
	assert.Less(t, v, 100)
	_, err := r.RollExpr("1d4+1")
	require.NoError(t, err)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "skeleton.turn1", logs.All()[0].ContextMap()["label"])
}
