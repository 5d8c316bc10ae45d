// Package pricing turns an order description into a price. All functions are
// pure: same inputs always produce the same output, so the engine serves both
// live form totals and validation of persisted totals.
package pricing

import "pingodeleite/internal/models"

// Balloon origins.
const (
	Domestic = "Nacional"
	Imported = "Importado"
)

// Customization levels.
const (
	Custom      = "Customizado"
	HalfAndHalf = "Meio a Meio"
	None        = "Sem Customização"
)

// Fill levels, ordered.
const (
	FillNone   = "Sem Preenchimento"
	FillLight  = "Pouco Preenchimento"
	FillMedium = "Médio Preenchimento"
	FillGood   = "Bom Preenchimento"
	FillHeavy  = "Muito Preenchimento"
)

// ShineUnitPrice is the fixed price per meter of shine garland.
const ShineUnitPrice = 20

type originCustomization struct {
	origin        string
	customization string
}

// Base unit price per meter by (origin, customization). Unknown combinations
// price at 0.
var basePrices = map[originCustomization]float64{
	{Imported, Custom}:      150,
	{Imported, HalfAndHalf}: 140,
	{Imported, None}:        130,
	{Domestic, Custom}:      95,
	{Domestic, HalfAndHalf}: 87.5,
	{Domestic, None}:        80,
}

// Multiplicative surcharge factor per fill level.
var fillFactors = map[string]float64{
	FillNone:   0,
	FillLight:  0.5,
	FillMedium: 0.8,
	FillGood:   1,
	FillHeavy:  1.2,
}

type typeSize struct {
	typ  string
	size string
}

// Fixed price table for special balloons. Pairs not listed price at 0 rather
// than erroring.
var specialPrices = map[typeSize]float64{
	{"Esphera", "Gobo"}: 15,
	{"Esphera", `15"`}:  20,
	{"Esphera", `18"`}:  30,
	{"Esphera", `24"`}:  40,

	{"Bubble Simples", `11"`}: 15,
	{"Bubble Simples", `18"`}: 20,
	{"Bubble Simples", `24"`}: 40,

	{"Bubble com Balão", `11"`}: 20,
	{"Bubble com Balão", `18"`}: 40,
	{"Bubble com Balão", `24"`}: 60,

	{"Bubble com Confete", `11"`}: 20,
	{"Bubble com Confete", `18"`}: 40,
	{"Bubble com Confete", `24"`}: 60,

	{"Bubble Foil", "Tamanho Unico"}: 20,
}

// BalloonPrice prices the base balloon configuration:
// basePrice * meters * (1 + fillFactor).
func BalloonPrice(origin, customization, filling string, meters float64) float64 {
	base := basePrices[originCustomization{origin, customization}]
	factor := fillFactors[filling]
	baseCost := base * meters
	fillingCost := base * meters * factor
	return baseCost + fillingCost
}

// SpecialPrice looks up the unit price of a special balloon.
func SpecialPrice(typ, size string) float64 {
	return specialPrices[typeSize{typ, size}]
}

// EventPrice prices a whole event: base configuration, shine meters and
// special line items.
func EventPrice(b models.Balloon, specials []models.SpecialBalloon) float64 {
	total := BalloonPrice(b.Nationality, b.Customization, b.Filling, b.Meters)
	total += b.Shine * ShineUnitPrice
	for _, sb := range specials {
		total += SpecialPrice(sb.Type, sb.Size) * float64(sb.Quantity)
	}
	return total
}
