package alerts

// EventPriority marca la urgencia del veredicto o evento de workflow que
// genera la alerta.
type EventPriority string

const (
	PriorityNormal EventPriority = "normal"
	PriorityHigh   EventPriority = "high"
)

// Classify decide el canal de una alerta. Política sin estado y sin efectos:
// un veredicto danger, o cualquier evento con prioridad high, interrumpe al
// actor antes de que pueda continuar; todo lo demás va al feed pasivo.
func Classify(sev Severity, prio EventPriority) Channel {
	if sev == SeverityDanger || prio == PriorityHigh {
		return ChannelInterrupting
	}
	return ChannelPassive
}
