package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pingodeleite/internal/models"
)

func TestBalloonPrice_ReferenceScenario(t *testing.T) {
	t.Parallel()

	// Nacional Customizado at 95/m, good filling doubles the meter cost.
	got := BalloonPrice(Domestic, Custom, FillGood, 5)
	require.InDelta(t, 950, got, 1e-9)
}

func TestBalloonPrice_BaseTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		origin, customization string
		want                  float64
	}{
		{Imported, Custom, 150},
		{Imported, HalfAndHalf, 140},
		{Imported, None, 130},
		{Domestic, Custom, 95},
		{Domestic, HalfAndHalf, 87.5},
		{Domestic, None, 80},
	}
	for _, tc := range cases {
		got := BalloonPrice(tc.origin, tc.customization, FillNone, 1)
		require.InDelta(t, tc.want, got, 1e-9, "%s/%s", tc.origin, tc.customization)
	}
}

func TestBalloonPrice_UnknownCombinationIsZero(t *testing.T) {
	t.Parallel()

	require.Zero(t, BalloonPrice("Marciano", Custom, FillGood, 5))
	require.Zero(t, BalloonPrice(Domestic, "Glitter", FillGood, 5))
}

func TestBalloonPrice_FillLevelsAreMonotonic(t *testing.T) {
	t.Parallel()

	levels := []string{FillNone, FillLight, FillMedium, FillGood, FillHeavy}
	prev := -1.0
	for _, lvl := range levels {
		p := BalloonPrice(Imported, Custom, lvl, 3)
		require.Greater(t, p, prev, "fill %q should cost more than the level below", lvl)
		prev = p
	}
}

func TestBalloonPrice_ImportedCostsMore(t *testing.T) {
	t.Parallel()

	for _, c := range []string{Custom, HalfAndHalf, None} {
		imp := BalloonPrice(Imported, c, FillMedium, 4)
		dom := BalloonPrice(Domestic, c, FillMedium, 4)
		require.Greater(t, imp, dom, "customization %q", c)
	}
}

func TestSpecialPrice(t *testing.T) {
	t.Parallel()

	require.InDelta(t, 15, SpecialPrice("Esphera", "Gobo"), 1e-9)
	require.InDelta(t, 30, SpecialPrice("Esphera", `18"`), 1e-9)
	require.InDelta(t, 60, SpecialPrice("Bubble com Confete", `24"`), 1e-9)
	require.InDelta(t, 20, SpecialPrice("Bubble Foil", "Tamanho Unico"), 1e-9)
}

func TestSpecialPrice_UndefinedPairIsZero(t *testing.T) {
	t.Parallel()

	require.Zero(t, SpecialPrice("Esphera", `11"`))
	require.Zero(t, SpecialPrice("Bubble Foil", `18"`))
	require.Zero(t, SpecialPrice("", ""))
}

func TestEventPrice_FullOrder(t *testing.T) {
	t.Parallel()

	b := models.Balloon{
		Nationality:   Domestic,
		Customization: Custom,
		Filling:       FillGood,
		Meters:        5,
		Shine:         2,
	}
	// 950 for the arch, 40 of shine, no specials.
	require.InDelta(t, 990, EventPrice(b, nil), 1e-9)

	specials := []models.SpecialBalloon{
		{Type: "Esphera", Size: `18"`, Quantity: 2},
		{Type: "Bubble Simples", Size: `11"`, Quantity: 1},
	}
	require.InDelta(t, 990+60+15, EventPrice(b, specials), 1e-9)
}

func TestEventPrice_ShineOnly(t *testing.T) {
	t.Parallel()

	b := models.Balloon{Shine: 3.5}
	require.InDelta(t, 3.5*ShineUnitPrice, EventPrice(b, nil), 1e-9)
}

func TestEventPrice_ZeroOrderIsFree(t *testing.T) {
	t.Parallel()

	require.Zero(t, EventPrice(models.Balloon{}, nil))
}
