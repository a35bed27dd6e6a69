package dosage

import (
	"strings"
	"testing"

	"peds-medsafety/internal/domain/drugs"
)

func TestAggregate_CrossReactivity_PenicillinVsAmoxicillin(t *testing.T) {
	p := testPatient()
	p.Allergies = []string{"Penicillin"}

	res, err := Evaluate(p, testAmoxicillin(), drugs.RouteOral)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}

	if res.Level != LevelDanger {
		t.Fatalf("expected danger for penicillin allergy vs amoxicillin, got %s", res.Level)
	}

	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "Penicillin") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a warning naming the allergy, got %v", res.Warnings)
	}
}

func TestAggregate_AllergyByCategory(t *testing.T) {
	p := testPatient()
	p.Allergies = []string{"antibiotics"}

	res, err := Evaluate(p, testAmoxicillin(), drugs.RouteOral)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if res.Level != LevelDanger {
		t.Fatalf("expected danger for category allergy, got %s", res.Level)
	}
}

func TestAggregate_UnrelatedAllergy_StaysSafe(t *testing.T) {
	p := testPatient()
	p.Allergies = []string{"latex"}

	res, err := Evaluate(p, testAmoxicillin(), drugs.RouteOral)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if res.Level != LevelSafe {
		t.Fatalf("expected safe for unrelated allergy, got %s (warnings=%v)", res.Level, res.Warnings)
	}
}

func TestAggregate_DailyLimit_ExceededIsDanger(t *testing.T) {
	d := testAmoxicillin()
	d.Guideline.WeightBased = "40-60" // promedio 50 mg/kg por dosis
	d.Guideline.MaxDailyPerKg = "40"  // tope diario menor

	res, err := Evaluate(testPatient(), d, drugs.RouteOral)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if res.Level != LevelDanger {
		t.Fatalf("expected danger when recommended exceeds daily max, got %s", res.Level)
	}
}

func TestAggregate_DailyLimit_Above80PercentIsCaution(t *testing.T) {
	d := testAmoxicillin()
	d.Guideline.WeightBased = "10-15" // promedio 12.5
	d.Guideline.MaxDailyPerKg = "15"  // 80% = 12

	res, err := Evaluate(testPatient(), d, drugs.RouteOral)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if res.Level != LevelCaution {
		t.Fatalf("expected caution above 80%% of daily max, got %s", res.Level)
	}
}

func TestAggregate_NSAIDsUnderTwoYears(t *testing.T) {
	p := testPatient()
	p.AgeYears = 1
	p.WeightKg = 10

	d := drugs.Drug{
		ID:       "drug-ibu",
		Name:     "Ibuprofen susp",
		Category: drugs.CategoryNSAIDs,
		Guideline: drugs.Guideline{
			WeightBased:   "5-10",
			MaxDailyPerKg: "40",
			Routes:        []drugs.Route{drugs.RouteOral},
		},
	}

	res, err := Evaluate(p, d, drugs.RouteOral)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if res.Level != LevelDanger {
		t.Fatalf("expected danger for NSAID under 2 years, got %s", res.Level)
	}
}

func TestAggregate_DrugWarnings_VerbatimAndNeverSafe(t *testing.T) {
	d := testAmoxicillin()
	d.Warnings = []string{"Tomar con alimentos"}

	res, err := Evaluate(testPatient(), d, drugs.RouteOral)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}

	found := false
	for _, w := range res.Warnings {
		if w == "Tomar con alimentos" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected drug warning verbatim, got %v", res.Warnings)
	}
	// Con warnings presentes el veredicto nunca queda en safe.
	if res.Level != LevelCaution {
		t.Fatalf("expected caution with informational warnings, got %s", res.Level)
	}
}

func TestEscalate_NeverDowngrades(t *testing.T) {
	if got := escalate(LevelDanger, LevelCaution); got != LevelDanger {
		t.Fatalf("expected danger to stick, got %s", got)
	}
	if got := escalate(LevelSafe, LevelCaution); got != LevelCaution {
		t.Fatalf("expected escalation to caution, got %s", got)
	}
	if got := escalate(LevelCaution, LevelDanger); got != LevelDanger {
		t.Fatalf("expected escalation to danger, got %s", got)
	}
}
