package prescriptions

import (
	"errors"
	"testing"
	"time"

	"peds-medsafety/internal/ports/auth"
)

var (
	doctor     = Actor{ID: "doc-1", Role: auth.RoleDoctor}
	pharmacist = Actor{ID: "pharm-1", Role: auth.RolePharmacist}
	nurse      = Actor{ID: "nurse-1", Role: auth.RoleNurse}
)

func pendingPrescription(now time.Time) Prescription {
	return Prescription{
		ID:           "rx-1",
		PatientID:    "pat-1",
		DrugID:       "drug-1",
		PrescriberID: doctor.ID,
		Dosage:       "318.8 mg",
		Quantity:     21,
		Status:       StatusPending,
		Priority:     PriorityNormal,
		Timeline: []TimelineEntry{{
			Event:     EventCreated,
			ActorID:   doctor.ID,
			ActorRole: auth.RoleDoctor,
			Timestamp: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestApply_HappyPath_FullLifecycle(t *testing.T) {
	now := time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC)
	p := pendingPrescription(now)

	steps := []struct {
		act   Action
		actor Actor
		notes string
		next  Status
	}{
		{ActionSend, doctor, "", StatusSent},
		{ActionVerify, pharmacist, "", StatusVerified},
		{ActionDispense, pharmacist, "", StatusDispensed},
		{ActionAdminister, nurse, "dosis completa, sin reacción", StatusAdministered},
	}

	for i, s := range steps {
		ts := now.Add(time.Duration(i+1) * time.Minute)
		next, err := Apply(p, s.act, s.actor, ts, s.notes)
		if err != nil {
			t.Fatalf("step %s: %v", s.act, err)
		}
		if next.Status != s.next {
			t.Fatalf("step %s: expected status %s, got %s", s.act, s.next, next.Status)
		}
		if len(next.Timeline) != len(p.Timeline)+1 {
			t.Fatalf("step %s: expected exactly one new timeline entry", s.act)
		}
		p = next
	}

	// created + 4 transiciones
	if len(p.Timeline) != 5 {
		t.Fatalf("expected 5 timeline entries, got %d", len(p.Timeline))
	}
	if p.Timeline[0].Event != EventCreated {
		t.Fatalf("expected first entry created, got %s", p.Timeline[0].Event)
	}
	last := p.Timeline[len(p.Timeline)-1]
	if last.Event != EventAdministered || last.ActorRole != auth.RoleNurse {
		t.Fatalf("unexpected final entry: %+v", last)
	}
	if StatusFromTimeline(p.Timeline) != StatusAdministered {
		t.Fatalf("timeline fold disagrees with status")
	}
}

func TestApply_WrongState_IsInvalidTransition(t *testing.T) {
	now := time.Now()
	p := pendingPrescription(now)

	// verify sobre pending: el rol (pharmacist) es el correcto para verify,
	// el estado no acompaña.
	_, err := Apply(p, ActionVerify, pharmacist, now, "")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestApply_WrongRole_IsUnauthorized(t *testing.T) {
	now := time.Now()
	p := pendingPrescription(now)

	// send es acción de doctor
	_, err := Apply(p, ActionSend, nurse, now, "")
	if !errors.Is(err, ErrUnauthorizedTransition) {
		t.Fatalf("expected ErrUnauthorizedTransition, got %v", err)
	}
}

func TestApply_WrongRoleAndWrongState_RoleWins(t *testing.T) {
	now := time.Now()
	p := pendingPrescription(now)

	// administer sobre pending por doctor: ni el rol ni el estado acompañan.
	// El error debe ser el mismo que con el estado correcto: rol primero.
	_, err := Apply(p, ActionAdminister, doctor, now, "notas")
	if !errors.Is(err, ErrUnauthorizedTransition) {
		t.Fatalf("expected ErrUnauthorizedTransition, got %v", err)
	}
}

func TestApply_UnknownAction_IsInvalidInput(t *testing.T) {
	now := time.Now()
	p := pendingPrescription(now)

	_, err := Apply(p, Action("archive"), doctor, now, "")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestApply_AdministerTwice_Fails(t *testing.T) {
	now := time.Now()
	p := pendingPrescription(now)
	p.Status = StatusDispensed

	first, err := Apply(p, ActionAdminister, nurse, now, "primera dosis")
	if err != nil {
		t.Fatalf("first administer: %v", err)
	}

	// Reintentar sobre el estado terminal debe fallar, no aceptarse.
	_, err = Apply(first, ActionAdminister, nurse, now, "repetida")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on repeat administer, got %v", err)
	}
}

func TestApply_AdministerRequiresNotes(t *testing.T) {
	now := time.Now()
	p := pendingPrescription(now)
	p.Status = StatusDispensed

	_, err := Apply(p, ActionAdminister, nurse, now, "   ")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for blank notes, got %v", err)
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	now := time.Now()
	p := pendingPrescription(now)

	_, err := Apply(p, ActionSend, doctor, now.Add(time.Minute), "")
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	if p.Status != StatusPending {
		t.Fatalf("input prescription was mutated: status=%s", p.Status)
	}
	if len(p.Timeline) != 1 {
		t.Fatalf("input timeline was mutated: %d entries", len(p.Timeline))
	}
}

func TestStatusFromTimeline_EmptyIsPending(t *testing.T) {
	if st := StatusFromTimeline(nil); st != StatusPending {
		t.Fatalf("expected pending for empty timeline, got %s", st)
	}
}

func TestStatusFromTimeline_Deterministic(t *testing.T) {
	now := time.Now()
	entries := []TimelineEntry{
		{Event: EventCreated, Timestamp: now},
		{Event: EventSent, Timestamp: now},
		{Event: EventVerified, Timestamp: now},
	}

	if st := StatusFromTimeline(entries); st != StatusVerified {
		t.Fatalf("expected verified, got %s", st)
	}
	// mismo timeline, mismo resultado
	if st := StatusFromTimeline(entries); st != StatusVerified {
		t.Fatalf("expected verified on refold, got %s", st)
	}
}
