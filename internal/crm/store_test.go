package crm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func relogioFixo(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func funilPadrao() Pipeline {
	return Pipeline{
		ID:   "default",
		Name: "Sales Pipeline",
		Stages: []Stage{
			{ID: "new", Name: "New", Order: 0, Color: "bg-gray-500"},
			{ID: "qualified", Name: "Qualified", Order: 2, Color: "bg-indigo-500"},
			{ID: "proposal", Name: "Proposal", Order: 3, Color: "bg-purple-500"},
			{ID: "negotiation", Name: "Negotiation", Order: 4, Color: "bg-yellow-500"},
			{ID: "won", Name: "Won", Order: 5, Color: "bg-green-500"},
			{ID: "lost", Name: "Lost", Order: 6, Color: "bg-red-500"},
		},
	}
}

func TestStore_UpdateDealIdInexistenteEhNoOp(t *testing.T) {
	s := NewStore()
	s.SetDeals([]Deal{{ID: "1", Title: "Projeto ERP"}})

	titulo := "Outro"
	ok := s.UpdateDeal("999", DealPatch{Title: &titulo})

	assert.False(t, ok)
	assert.Len(t, s.Deals(), 1, "nenhum registro criado")
	assert.Equal(t, "Projeto ERP", s.Deals()[0].Title)
}

func TestStore_PatchSemMudancaNaoAvancaUpdatedAt(t *testing.T) {
	criado := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	agora := time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC)
	s := NewStore(WithClock(relogioFixo(agora)))
	s.SetDeals([]Deal{{ID: "1", Title: "Projeto ERP", Value: 150000, UpdatedAt: criado}})

	mesmoTitulo := "Projeto ERP"
	ok := s.UpdateDeal("1", DealPatch{Title: &mesmoTitulo})
	require.True(t, ok)
	assert.Equal(t, criado, s.Deals()[0].UpdatedAt, "patch idêntico não conta como mudança")

	novoValor := 160000.0
	require.True(t, s.UpdateDeal("1", DealPatch{Value: &novoValor}))
	assert.Equal(t, agora, s.Deals()[0].UpdatedAt)
}

func TestStore_MoveDealSoMudaUmRegistro(t *testing.T) {
	agora := time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC)
	s := NewStore(WithClock(relogioFixo(agora)))
	s.SetDeals([]Deal{
		{ID: "1", Title: "Projeto ERP", StageID: "proposal"},
		{ID: "2", Title: "Consultoria Tech", StageID: "negotiation"},
	})

	require.True(t, s.MoveDeal("1", "won"))

	deals := s.Deals()
	assert.Equal(t, "won", deals[0].StageID)
	assert.Equal(t, agora, deals[0].UpdatedAt)
	assert.Equal(t, "negotiation", deals[1].StageID)
	assert.True(t, deals[1].UpdatedAt.IsZero(), "o outro negócio fica intacto")
}

func TestStore_PipelineOfEActivePipeline(t *testing.T) {
	s := NewStore()
	s.SetPipelines([]Pipeline{funilPadrao()})

	p, ok := s.PipelineOf("proposal")
	require.True(t, ok)
	assert.Equal(t, "default", p.ID)

	_, ok = s.PipelineOf("etapa-fantasma")
	assert.False(t, ok)

	ativo, ok := s.ActivePipeline()
	require.True(t, ok)
	assert.Equal(t, "Sales Pipeline", ativo.Name)
}

func TestStore_UpdateLeadStatus(t *testing.T) {
	agora := time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC)
	s := NewStore(WithClock(relogioFixo(agora)))
	s.SetLeads([]Lead{{ID: "1", Name: "João Silva", Status: "new"}})

	require.True(t, s.UpdateLeadStatus("1", "contacted"))
	assert.Equal(t, "contacted", s.Leads()[0].Status)

	assert.False(t, s.UpdateLeadStatus("999", "qualified"))
}
