package prescriptions

// Status es el estado del ciclo de vida de una receta. Avanza solo hacia
// adelante; `administered` es el estado terminal. `completed` se declara por
// compatibilidad con reporting externo pero ninguna transición lo produce.
type Status string

const (
	StatusPending      Status = "pending"
	StatusSent         Status = "sent"
	StatusVerified     Status = "verified"
	StatusDispensed    Status = "dispensed"
	StatusAdministered Status = "administered"
	StatusCompleted    Status = "completed"
)

// Action es la acción de workflow que un rol intenta ejecutar.
type Action string

const (
	ActionSend       Action = "send"
	ActionVerify     Action = "verify"
	ActionDispense   Action = "dispense"
	ActionAdminister Action = "administer"
)

// Event es lo que queda registrado en el timeline.
type Event string

const (
	EventCreated      Event = "created"
	EventSent         Event = "sent"
	EventVerified     Event = "verified"
	EventDispensed    Event = "dispensed"
	EventAdministered Event = "administered"
)

// Priority marca la urgencia de la receta.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityUrgent Priority = "urgent"
	PriorityStat   Priority = "stat"
)

func validPriority(p Priority) bool {
	switch p {
	case PriorityNormal, PriorityUrgent, PriorityStat:
		return true
	default:
		return false
	}
}
