package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// agendador manual: guarda os disparos agendados e executa sob demanda.
type agendador struct {
	tarefas []tarefa
}

type tarefa struct {
	apos      time.Duration
	executar  func()
	cancelada bool
}

func (a *agendador) Schedule(d time.Duration, f func()) CancelFunc {
	idx := len(a.tarefas)
	a.tarefas = append(a.tarefas, tarefa{apos: d, executar: f})
	return func() bool {
		if a.tarefas[idx].cancelada {
			return false
		}
		a.tarefas[idx].cancelada = true
		return true
	}
}

func (a *agendador) Disparar() {
	for i := range a.tarefas {
		if !a.tarefas[i].cancelada {
			a.tarefas[i].cancelada = true
			a.tarefas[i].executar()
		}
	}
}

func TestSimulator_ProgressaoSentDelivered(t *testing.T) {
	ag := &agendador{}
	sim := NewSimulator(WithScheduler(ag.Schedule))

	var eventos []Event
	sim.Subscribe(func(ev Event) { eventos = append(eventos, ev) })

	sim.Send("m1")
	require.Len(t, ag.tarefas, 2)
	assert.Equal(t, DefaultSentAfter, ag.tarefas[0].apos)
	assert.Equal(t, DefaultDeliveredAfter, ag.tarefas[1].apos)

	ag.Disparar()
	require.Len(t, eventos, 2)
	assert.Equal(t, StatusSent, eventos[0].Status)
	assert.Equal(t, StatusDelivered, eventos[1].Status)
	assert.Equal(t, "m1", eventos[0].MessageID)
}

func TestSimulator_NadaEmitidoNoEnvio(t *testing.T) {
	ag := &agendador{}
	sim := NewSimulator(WithScheduler(ag.Schedule))

	var eventos []Event
	sim.Subscribe(func(ev Event) { eventos = append(eventos, ev) })

	sim.Send("m1")
	assert.Empty(t, eventos, "a mensagem nasce sending no store, sem evento imediato")
}

func TestSimulator_StopCancelaPendentes(t *testing.T) {
	ag := &agendador{}
	sim := NewSimulator(WithScheduler(ag.Schedule))

	var eventos []Event
	sim.Subscribe(func(ev Event) { eventos = append(eventos, ev) })

	sim.Send("m1")
	sim.Stop()

	ag.Disparar()
	assert.Empty(t, eventos)

	sim.Send("m2")
	assert.Len(t, ag.tarefas, 2, "simulador parado não agenda novos envios")
}

func TestSimulator_OffsetsCustomizados(t *testing.T) {
	ag := &agendador{}
	sim := NewSimulator(WithScheduler(ag.Schedule), WithOffsets(10*time.Millisecond, 20*time.Millisecond))

	sim.Send("m1")
	require.Len(t, ag.tarefas, 2)
	assert.Equal(t, 10*time.Millisecond, ag.tarefas[0].apos)
	assert.Equal(t, 20*time.Millisecond, ag.tarefas[1].apos)
}

func TestStatus_RankOrdenaCicloDeEnvio(t *testing.T) {
	assert.Less(t, StatusSending.Rank(), StatusSent.Rank())
	assert.Less(t, StatusSent.Rank(), StatusDelivered.Rank())
	assert.Less(t, StatusDelivered.Rank(), StatusRead.Rank())
	assert.Equal(t, 0, StatusReceived.Rank(), "mensagens recebidas ficam fora do ciclo")
}
