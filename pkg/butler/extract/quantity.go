package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Unit describes one recognized measurement noun. Milliliters > 0 marks
// a volume unit; volume quantities always resolve to milliliters.
// Canonical names count-like units ("serving", "slice").
type Unit struct {
	Canonical   string
	Milliliters float64
}

// Units maps surface unit nouns to their definitions.
type Units map[string]Unit

// DefaultUnits returns the built-in unit table. Container defaults
// (bottle 710 ml, glass/cup 240 ml) are the configured serving sizes a
// bare noun resolves to.
func DefaultUnits() Units {
	u := Units{}
	add := func(def Unit, names ...string) {
		for _, n := range names {
			u[n] = def
		}
	}
	add(Unit{Canonical: "ml", Milliliters: 29.5735}, "oz", "ounce", "ounces")
	add(Unit{Canonical: "ml", Milliliters: 1}, "ml", "milliliter", "milliliters")
	add(Unit{Canonical: "ml", Milliliters: 1000}, "liter", "liters", "litre", "litres")
	add(Unit{Canonical: "ml", Milliliters: 240}, "cup", "cups", "glass", "glasses")
	add(Unit{Canonical: "ml", Milliliters: 710}, "bottle", "bottles")
	add(Unit{Canonical: "serving"}, "serving", "servings")
	add(Unit{Canonical: "piece"}, "piece", "pieces")
	add(Unit{Canonical: "slice"}, "slice", "slices")
	add(Unit{Canonical: "bowl"}, "bowl", "bowls")
	add(Unit{Canonical: "plate"}, "plate", "plates")
	add(Unit{Canonical: "scoop"}, "scoop", "scoops")
	add(Unit{Canonical: "tub"}, "tub", "tubs")
	add(Unit{Canonical: "bar"}, "bar", "bars")
	return u
}

var wordAmounts = map[string]float64{
	"a": 1, "an": 1,
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"couple": 2, "couple of": 2,
	"half": 0.5, "half a": 0.5, "half an": 0.5,
	"quarter": 0.25, "quarter of a": 0.25,
}

var (
	numberUnitPattern = regexp.MustCompile(`\b(\d+(?:\.\d+)?|\d+/\d+) ?([a-z]+)\b`)

	// Longest alternatives first so "half a" beats "half".
	wordUnitPattern = regexp.MustCompile(`\b(quarter of a|couple of|half an|half a|couple|quarter|half|one|two|three|four|five|six|seven|eight|nine|ten|an|a) ([a-z]+)\b`)

	bareFractionPattern = regexp.MustCompile(`\b(\d+)/(\d+)\b`)
)

// Quantity scans normalized text for amount+unit expressions: "24oz",
// "2 cups", "half a bottle", "a bottle". A bare container noun counts
// as one of that container's default serving.
func Quantity(norm string, units Units) []Entity {
	if units == nil {
		units = DefaultUnits()
	}
	var entities []Entity
	var consumed []Span

	overlapsConsumed := func(s Span) bool {
		for _, c := range consumed {
			if s.Overlaps(c) {
				return true
			}
		}
		return false
	}

	emit := func(span Span, amount float64, unit Unit) {
		val := &QuantityValue{Amount: amount, Unit: unit.Canonical}
		if unit.Milliliters > 0 {
			val.Amount = amount * unit.Milliliters
			val.Unit = "ml"
		}
		entities = append(entities, Entity{
			Kind:     KindQuantity,
			Span:     span,
			Text:     norm[span.Start:span.End],
			Quantity: val,
		})
		consumed = append(consumed, span)
	}

	for _, m := range numberUnitPattern.FindAllStringSubmatchIndex(norm, -1) {
		unit, ok := units[norm[m[4]:m[5]]]
		if !ok {
			continue
		}
		span := Span{Start: m[0], End: m[1]}
		emit(span, parseAmount(norm[m[2]:m[3]]), unit)
	}

	for _, m := range wordUnitPattern.FindAllStringSubmatchIndex(norm, -1) {
		unit, ok := units[norm[m[4]:m[5]]]
		if !ok {
			continue
		}
		span := Span{Start: m[0], End: m[1]}
		if overlapsConsumed(span) {
			continue
		}
		emit(span, wordAmounts[norm[m[2]:m[3]]], unit)
	}

	// A digit fraction with no unit stands for a portion of one serving.
	for _, m := range bareFractionPattern.FindAllStringSubmatchIndex(norm, -1) {
		span := Span{Start: m[0], End: m[1]}
		if overlapsConsumed(span) {
			continue
		}
		emit(span, parseAmount(norm[span.Start:span.End]), Unit{Canonical: "serving"})
	}

	sortBySpan(entities)
	return entities
}

// parseAmount reads a decimal or a simple fraction like "1/2".
func parseAmount(s string) float64 {
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 == nil && err2 == nil && d != 0 {
			return n / d
		}
		return 0
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
