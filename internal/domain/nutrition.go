package domain

import "math"

const (
	kcalPerGramProtein = 4
	kcalPerGramFat     = 9
	kcalPerGramCarb    = 4
)

// ActivityLevels lists the usual activity multipliers offered to users.
var ActivityLevels = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// BodyMetrics is the input of ComputeTarget.
type BodyMetrics struct {
	WeightKg float64
	HeightCm float64
	AgeYears float64
	Gender   string
	Activity float64
}

// Target is a daily calorie and macronutrient goal. Macros are in grams.
type Target struct {
	Calories int `json:"calories"`
	Proteins int `json:"proteins"`
	Fats     int `json:"fats"`
	Carbs    int `json:"carbs"`
}

// BMR returns the Harris-Benedict basal metabolic rate. Any gender other
// than "male" uses the female coefficients.
func BMR(weightKg, heightCm, ageYears float64, gender string) float64 {
	if gender == "male" {
		return 88.36 + 13.4*weightKg + 4.8*heightCm - 5.7*ageYears
	}
	return 447.6 + 9.2*weightKg + 3.1*heightCm - 4.3*ageYears
}

// ComputeTarget derives a daily target from body metrics. Non-finite input
// yields the zero Target.
func ComputeTarget(m BodyMetrics) Target {
	for _, v := range []float64{m.WeightKg, m.HeightCm, m.AgeYears, m.Activity} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Target{}
		}
	}

	calories := RoundHalfUp(BMR(m.WeightKg, m.HeightCm, m.AgeYears, m.Gender) * m.Activity)
	proteins := RoundHalfUp(m.WeightKg * 1.5)
	fats := RoundHalfUp(m.WeightKg)
	carbs := RoundHalfUp(float64(calories-(proteins*kcalPerGramProtein+fats*kcalPerGramFat)) / kcalPerGramCarb)

	return Target{
		Calories: calories,
		Proteins: proteins,
		Fats:     fats,
		Carbs:    max(0, carbs),
	}
}

// MacroCalories converts gram amounts into the calories they contribute.
func MacroCalories(proteins, fats, carbs int) (int, int, int) {
	return proteins * kcalPerGramProtein, fats * kcalPerGramFat, carbs * kcalPerGramCarb
}

// RoundHalfUp rounds to the nearest integer with halves going towards +Inf.
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
