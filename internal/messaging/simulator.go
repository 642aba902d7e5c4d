package messaging

import (
	"sync"
	"time"
)

// Offsets padrão da progressão simulada.
const (
	DefaultSentAfter      = 1 * time.Second
	DefaultDeliveredAfter = 2 * time.Second
)

// CancelFunc cancela um disparo agendado; devolve false se já disparou.
type CancelFunc func() bool

// Scheduler agenda a execução de f após d. O padrão usa time.AfterFunc;
// os testes injetam um scheduler manual determinístico.
type Scheduler func(d time.Duration, f func()) CancelFunc

// Simulator progride o status de cada mensagem enviada por timers fixos:
// sent após +1s, delivered após +2s. "read" nunca vem do timer — só de um
// evento explícito do leitor. O envio nunca falha (falibilidade de rede
// não é modelada aqui).
//
// Os timers pertencem ao simulador, não à view: uma tela desmontada não
// interrompe a progressão enquanto o store viver.
type Simulator struct {
	mu             sync.Mutex
	subs           []func(Event)
	pending        map[string][]CancelFunc
	sentAfter      time.Duration
	deliveredAfter time.Duration
	schedule       Scheduler
	now            func() time.Time
	closed         bool
}

type SimulatorOption func(*Simulator)

// WithOffsets ajusta os atrasos de sent/delivered.
func WithOffsets(sentAfter, deliveredAfter time.Duration) SimulatorOption {
	return func(s *Simulator) {
		s.sentAfter = sentAfter
		s.deliveredAfter = deliveredAfter
	}
}

// WithScheduler injeta o agendador (testes).
func WithScheduler(schedule Scheduler) SimulatorOption {
	return func(s *Simulator) { s.schedule = schedule }
}

func WithNow(now func() time.Time) SimulatorOption {
	return func(s *Simulator) { s.now = now }
}

func NewSimulator(opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		pending:        map[string][]CancelFunc{},
		sentAfter:      DefaultSentAfter,
		deliveredAfter: DefaultDeliveredAfter,
		now:            time.Now,
		schedule: func(d time.Duration, f func()) CancelFunc {
			t := time.AfterFunc(d, f)
			return t.Stop
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) Subscribe(fn func(Event)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Send agenda a progressão sent -> delivered para a mensagem. A mensagem
// já nasce "sending" no store; nada é emitido imediatamente.
func (s *Simulator) Send(messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	cancels := []CancelFunc{
		s.schedule(s.sentAfter, func() { s.emit(messageID, StatusSent) }),
		s.schedule(s.deliveredAfter, func() { s.emit(messageID, StatusDelivered) }),
	}
	s.pending[messageID] = cancels
}

func (s *Simulator) emit(messageID string, status Status) {
	s.mu.Lock()
	subs := make([]func(Event), len(s.subs))
	copy(subs, s.subs)
	at := s.now()
	if status == StatusDelivered {
		delete(s.pending, messageID)
	}
	s.mu.Unlock()

	ev := Event{MessageID: messageID, Status: status, At: at}
	for _, fn := range subs {
		fn(ev)
	}
}

// Stop cancela todos os timers pendentes e rejeita novos envios.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, cancels := range s.pending {
		for _, cancel := range cancels {
			cancel()
		}
		delete(s.pending, id)
	}
}
