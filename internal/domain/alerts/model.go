package alerts

import "time"

// Severity replica el nivel del veredicto de seguridad o la prioridad del
// evento de workflow que originó la alerta.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityCaution Severity = "caution"
	SeverityDanger  Severity = "danger"
)

// Channel es la clasificación de la política de emisión: feed pasivo o
// interrupción sincrónica al actor que originó la acción.
type Channel string

const (
	ChannelPassive      Channel = "passive"
	ChannelInterrupting Channel = "interrupting"
)

// Alert es el registro que el core emite; la entrega (push, UI, etc.)
// es responsabilidad del colaborador que consume el feed.
type Alert struct {
	ID string

	PatientID      string
	PrescriptionID string // opcional

	Severity Severity
	Channel  Channel

	Summary string
	Detail  string

	FiredAt time.Time
}
