package dosage

import (
	"fmt"
	"strings"

	"peds-medsafety/internal/domain/drugs"
	"peds-medsafety/internal/domain/patients"
)

// Level es el veredicto de seguridad en tres niveles.
type Level string

const (
	LevelSafe    Level = "safe"
	LevelCaution Level = "caution"
	LevelDanger  Level = "danger"
)

func (l Level) rank() int {
	switch l {
	case LevelDanger:
		return 2
	case LevelCaution:
		return 1
	default:
		return 0
	}
}

// escalate solo permite subir de nivel, nunca bajar.
func escalate(cur, to Level) Level {
	if to.rank() > cur.rank() {
		return to
	}
	return cur
}

// crossReactivity: set fijo de reactividades cruzadas conocidas.
// Clave: etiqueta de alergia (minúsculas). Valores: substrings a buscar en el
// nombre del fármaco. No pretende ser una base de conocimiento completa.
var crossReactivity = map[string][]string{
	"penicillin": {"penicillin", "amoxicillin", "ampicillin", "augmentin"},
	"sulfa":      {"sulfa", "sulfamethoxazole", "trimethoprim"},
	"aspirin":    {"aspirin", "ibuprofen", "naproxen", "ketorolac"},
}

// Aggregate deriva la lista ordenada de warnings y el veredicto final a partir
// del paciente, el fármaco y el cálculo. Los chequeos corren en orden fijo y
// cada uno solo puede escalar el nivel:
//  1. alergias (categoría exacta o reactividad cruzada) => danger
//  2. tope diario (> max => danger; > 80% => caution)
//  3. edad/categoría (menores de 2 con NSAIDs) => danger
//  4. warnings declarados por el fármaco, verbatim (no escalan)
//  5. lista no vacía con nivel safe => caution
func Aggregate(p patients.Patient, d drugs.Drug, calc Result) ([]string, Level) {
	warnings := make([]string, 0, len(calc.Warnings)+len(d.Warnings)+3)
	warnings = append(warnings, calc.Warnings...)
	level := LevelSafe

	// 1. Alergias
	for _, allergy := range p.Allergies {
		if allergyMatches(allergy, d) {
			warnings = append(warnings,
				fmt.Sprintf("Alergia documentada: %s — posible reacción con %s", allergy, d.Name))
			level = escalate(level, LevelDanger)
		}
	}

	// 2. Tope diario
	switch {
	case calc.RecommendedDose > calc.MaxDailyDose:
		warnings = append(warnings,
			fmt.Sprintf("La dosis recomendada (%.1f mg) supera el máximo diario (%.1f mg)", calc.RecommendedDose, calc.MaxDailyDose))
		level = escalate(level, LevelDanger)
	case calc.RecommendedDose > 0.8*calc.MaxDailyDose:
		warnings = append(warnings,
			fmt.Sprintf("La dosis recomendada (%.1f mg) supera el 80%% del máximo diario (%.1f mg)", calc.RecommendedDose, calc.MaxDailyDose))
		level = escalate(level, LevelCaution)
	}

	// 3. Edad / categoría
	if p.AgeYears < 2 && d.Category == drugs.CategoryNSAIDs {
		warnings = append(warnings,
			fmt.Sprintf("%s (AINE) no recomendado en menores de 2 años", d.Name))
		level = escalate(level, LevelDanger)
	}

	// 4. Warnings del fármaco, verbatim; informativos, no escalan.
	warnings = append(warnings, d.Warnings...)

	// 5. Con warnings presentes el veredicto nunca queda en safe.
	if len(warnings) > 0 {
		level = escalate(level, LevelCaution)
	}

	return warnings, level
}

// allergyMatches: match exacto contra la categoría del fármaco, o substring
// del nombre para el set fijo de reactividades cruzadas.
func allergyMatches(allergy string, d drugs.Drug) bool {
	a := strings.ToLower(strings.TrimSpace(allergy))
	if a == "" {
		return false
	}
	if a == string(d.Category) {
		return true
	}

	name := strings.ToLower(d.Name)
	if subs, ok := crossReactivity[a]; ok {
		for _, sub := range subs {
			if strings.Contains(name, sub) {
				return true
			}
		}
	}
	// La etiqueta misma como substring cubre alergias al principio activo
	// ("Amoxicillin" vs "Amoxicillin 250mg susp").
	return strings.Contains(name, a)
}
