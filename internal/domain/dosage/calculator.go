package dosage

import (
	"errors"
	"fmt"
	"math"

	"peds-medsafety/internal/domain/drugs"
	"peds-medsafety/internal/domain/patients"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// Defaults conservadores cuando la guía no trae un número interpretable.
// No son constantes clínicas: son placeholders y SIEMPRE se marcan al caller
// vía GuidelineUnavailable + warning explícito.
const (
	fallbackMinPerKg      = 10.0
	fallbackMaxPerKg      = 15.0
	fallbackMaxDailyPerKg = 60.0
)

// Result es el resultado de un cálculo de dosis. Es un value object:
// se produce fresco en cada evaluación y no se persiste desde el core.
type Result struct {
	WeightBasedDose float64  // mg
	BSABasedDose    *float64 // mg, solo si hay guía por m² y talla
	MaxDailyDose    float64  // mg/día
	RecommendedDose float64  // mg; la dosis por peso manda, BSA es informativa

	Route     drugs.Route
	Frequency string

	Warnings []string
	Level    Level

	// GuidelineUnavailable indica que algún rango de la guía no se pudo
	// interpretar y se aplicó un default conservador.
	GuidelineUnavailable bool
}

// Evaluate calcula la dosis recomendada, la dosis máxima diaria y el veredicto
// de seguridad para un paciente, un fármaco y una vía. Función pura: no hace
// I/O ni muta sus entradas.
func Evaluate(p patients.Patient, d drugs.Drug, route drugs.Route) (Result, error) {
	if p.WeightKg <= 0 {
		return Result{}, fmt.Errorf("%w: patient weight must be > 0", ErrInvalidInput)
	}
	if !d.HasRoute(route) {
		return Result{}, fmt.Errorf("%w: route %q not in drug guideline", ErrInvalidInput, route)
	}

	res := Result{
		Route:     route,
		Frequency: d.Guideline.Frequency,
	}

	minPerKg, maxPerKg, ok := drugs.ParseRange(d.Guideline.WeightBased)
	if !ok {
		minPerKg, maxPerKg = fallbackMinPerKg, fallbackMaxPerKg
		res.GuidelineUnavailable = true
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("Guía de dosificación no disponible para %s: se aplicó el rango por defecto %.0f-%.0f mg/kg", d.Name, fallbackMinPerKg, fallbackMaxPerKg))
	}
	res.WeightBasedDose = round1(p.WeightKg * (minPerKg + maxPerKg) / 2)

	// BSA (Mosteller) solo si el fármaco declara dosis por m² y hay talla.
	if d.Guideline.DosePerM2 != nil && p.HeightCm != nil {
		bsa := math.Sqrt(*p.HeightCm * p.WeightKg / 3600)
		dose := round1(*d.Guideline.DosePerM2 * bsa)
		res.BSABasedDose = &dose
	}

	maxDailyPerKg, _, okMax := drugs.ParseRange(d.Guideline.MaxDailyPerKg)
	if !okMax {
		maxDailyPerKg = fallbackMaxDailyPerKg
		res.GuidelineUnavailable = true
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("Máximo diario no disponible para %s: se aplicó el tope por defecto %.0f mg/kg/día", d.Name, fallbackMaxDailyPerKg))
	}
	res.MaxDailyDose = round1(maxDailyPerKg * p.WeightKg)

	res.RecommendedDose = res.WeightBasedDose

	res.Warnings, res.Level = Aggregate(p, d, res)
	return res, nil
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
