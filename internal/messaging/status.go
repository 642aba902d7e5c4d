// Package messaging define o ciclo de vida de entrega das mensagens de
// chat e WhatsApp e o transporte que empurra os eventos de status.
package messaging

import "time"

type Status string

const (
	StatusSending   Status = "sending"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
	// StatusReceived marca mensagens de entrada (do contato), fora do
	// ciclo de envio.
	StatusReceived Status = "received"
)

// Rank ordena o ciclo de envio: sending < sent < delivered < read.
// O status de uma mensagem nunca regride nessa ordem; um timer atrasado
// de "delivered" não sobrescreve um "read" já aplicado.
func (s Status) Rank() int {
	switch s {
	case StatusSending:
		return 1
	case StatusSent:
		return 2
	case StatusDelivered:
		return 3
	case StatusRead:
		return 4
	default:
		return 0
	}
}

// Event é uma mudança de status empurrada pelo transporte.
type Event struct {
	MessageID string
	Status    Status
	At        time.Time
}

// Transport inicia o envio de uma mensagem e publica as mudanças de
// status para os assinantes. O simulador local e qualquer gateway real
// implementam o mesmo contrato.
type Transport interface {
	Send(messageID string)
	Subscribe(fn func(Event))
}
