package prescriptions

import (
	"errors"
	"strings"
	"time"

	"peds-medsafety/internal/ports/auth"
)

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrUnauthorizedTransition = errors.New("role not allowed for this transition")
	ErrInvalidTransition      = errors.New("invalid state transition")
	ErrValidation             = errors.New("validation failed")
)

type transition struct {
	role  auth.Role
	next  Status
	event Event
}

// transitionTable fija quién puede mover la receta y hacia dónde.
// Reintentar una acción sobre una receta que ya pasó ese estado falla con
// ErrInvalidTransition: aceptarla en silencio podría enmascarar una doble
// administración.
var transitionTable = map[Status]map[Action]transition{
	StatusPending: {
		ActionSend: {role: auth.RoleDoctor, next: StatusSent, event: EventSent},
	},
	StatusSent: {
		ActionVerify: {role: auth.RolePharmacist, next: StatusVerified, event: EventVerified},
	},
	StatusVerified: {
		ActionDispense: {role: auth.RolePharmacist, next: StatusDispensed, event: EventDispensed},
	},
	StatusDispensed: {
		ActionAdminister: {role: auth.RoleNurse, next: StatusAdministered, event: EventAdministered},
	},
	// StatusAdministered: terminal, sin acciones.
}

// Apply ejecuta una transición sobre una copia de la receta y la devuelve con
// el timeline extendido en exactamente una entrada. No muta la receta de
// entrada: la serialización de intentos concurrentes es del caller, que usa
// el chequeo de estado actual como detector de conflicto.
func Apply(p Prescription, act Action, actor Actor, now time.Time, notes string) (Prescription, error) {
	if strings.TrimSpace(actor.ID) == "" || actor.Role == "" {
		return Prescription{}, ErrInvalidInput
	}

	// Primero el rol: un actor no autorizado recibe el mismo error tanto si
	// el estado acompaña como si no.
	tr, ok := lookup(p.Status, act)
	if !ok {
		// La acción existe en la tabla para otro estado => transición
		// inválida; acción desconocida => input inválido.
		if _, known := actionRole(act); !known {
			return Prescription{}, ErrInvalidInput
		}
		if role, _ := actionRole(act); role != actor.Role {
			return Prescription{}, ErrUnauthorizedTransition
		}
		return Prescription{}, ErrInvalidTransition
	}
	if tr.role != actor.Role {
		return Prescription{}, ErrUnauthorizedTransition
	}

	notes = strings.TrimSpace(notes)
	if act == ActionAdminister && notes == "" {
		// La administración exige registro de qué se hizo.
		return Prescription{}, ErrValidation
	}

	out := p
	out.Status = tr.next
	out.UpdatedAt = now
	out.Timeline = append(append([]TimelineEntry{}, p.Timeline...), TimelineEntry{
		Event:     tr.event,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Timestamp: now,
		Notes:     notes,
	})
	return out, nil
}

func lookup(from Status, act Action) (transition, bool) {
	m, ok := transitionTable[from]
	if !ok {
		return transition{}, false
	}
	tr, ok := m[act]
	return tr, ok
}

// actionRole devuelve el rol requerido por la acción, independiente del
// estado. Sirve para distinguir "rol equivocado" de "estado equivocado".
func actionRole(act Action) (auth.Role, bool) {
	for _, m := range transitionTable {
		if tr, ok := m[act]; ok {
			return tr.role, true
		}
	}
	return "", false
}

// StatusFromTimeline reconstruye el estado como fold puro sobre el log de
// eventos: con el mismo timeline, siempre el mismo estado.
func StatusFromTimeline(entries []TimelineEntry) Status {
	st := StatusPending
	for _, e := range entries {
		switch e.Event {
		case EventSent:
			st = StatusSent
		case EventVerified:
			st = StatusVerified
		case EventDispensed:
			st = StatusDispensed
		case EventAdministered:
			st = StatusAdministered
		}
	}
	return st
}
