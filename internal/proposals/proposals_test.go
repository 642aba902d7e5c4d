package proposals

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KromaEnergia/crm-vendas/internal/storage"
	"github.com/KromaEnergia/crm-vendas/internal/validation"
)

func propostaValida() Proposal {
	return Proposal{
		Title:       "Implantação ERP",
		ClientName:  "Tech Solutions",
		Value:       150000,
		Description: "Implantação completa do sistema de gestão",
		ValidUntil:  "2030-12-31",
		Terms:       "Pagamento em três parcelas mensais",
	}
}

func TestValidateProposal_Campos(t *testing.T) {
	now := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	casos := []struct {
		nome   string
		ajuste func(*Proposal)
		campo  string
	}{
		{"título curto", func(p *Proposal) { p.Title = "ab" }, "title"},
		{"cliente curto", func(p *Proposal) { p.ClientName = "xy" }, "clientName"},
		{"valor negativo", func(p *Proposal) { p.Value = -1 }, "value"},
		{"valor alto demais", func(p *Proposal) { p.Value = 2_000_000_000 }, "value"},
		{"descrição curta", func(p *Proposal) { p.Description = "curta" }, "description"},
		{"termos curtos", func(p *Proposal) { p.Terms = "curto" }, "terms"},
		{"validade malformada", func(p *Proposal) { p.ValidUntil = "31/12/2030" }, "validUntil"},
		{"validade no passado", func(p *Proposal) { p.ValidUntil = "2020-01-01" }, "validUntil"},
	}
	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			p := propostaValida()
			c.ajuste(&p)
			err := ValidateProposal(p, now)
			var verr *validation.Error
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, c.campo, verr.Field)
		})
	}

	assert.NoError(t, ValidateProposal(propostaValida(), now))
}

func TestStatus_TransicoesDeMaoUnica(t *testing.T) {
	assert.True(t, StatusDraft.CanTransition(StatusSent))
	assert.True(t, StatusSent.CanTransition(StatusAccepted))
	assert.True(t, StatusSent.CanTransition(StatusRejected))

	assert.False(t, StatusDraft.CanTransition(StatusAccepted))
	assert.False(t, StatusSent.CanTransition(StatusDraft))
	assert.False(t, StatusAccepted.CanTransition(StatusRejected))
	assert.False(t, StatusRejected.CanTransition(StatusSent))
}

func TestAPI_CreateProposalNasceRascunho(t *testing.T) {
	api := NewAPI(storage.NewMemoryGateway(0))
	ctx := context.Background()

	entrada := propostaValida()
	entrada.Status = StatusAccepted // ignorado: toda proposta nasce rascunho

	p, err := api.CreateProposal(ctx, entrada)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, p.Status)
	assert.NotEmpty(t, p.ID)
	assert.NotNil(t, p.Fields)
}

func TestAPI_SoRascunhoEhEditavel(t *testing.T) {
	api := NewAPI(storage.NewMemoryGateway(0))
	ctx := context.Background()

	p, err := api.CreateProposal(ctx, propostaValida())
	require.NoError(t, err)

	novoTitulo := "Implantação ERP v2"
	_, err = api.UpdateProposal(ctx, p.ID, Patch{Title: &novoTitulo})
	require.NoError(t, err)

	_, err = api.UpdateStatus(ctx, p.ID, StatusSent)
	require.NoError(t, err)

	_, err = api.UpdateProposal(ctx, p.ID, Patch{Title: &novoTitulo})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)
}

func TestAPI_UpdateProposalRevalidaOResultado(t *testing.T) {
	api := NewAPI(storage.NewMemoryGateway(0))
	ctx := context.Background()

	p, err := api.CreateProposal(ctx, propostaValida())
	require.NoError(t, err)

	negativo := -500.0
	passado := "2000-01-01"
	_, err = api.UpdateProposal(ctx, p.ID, Patch{Value: &negativo, ValidUntil: &passado})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "value", verr.Field)

	_, err = api.UpdateProposal(ctx, p.ID, Patch{ValidUntil: &passado})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "validUntil", verr.Field)

	guardada, err := api.Proposal(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 150000.0, guardada.Value, "patch rejeitado não é persistido")
	assert.Equal(t, "2030-12-31", guardada.ValidUntil)
}

func TestAPI_PatchDeCamposIdenticosNaoMexeEmUpdatedAt(t *testing.T) {
	api := NewAPI(storage.NewMemoryGateway(0))
	ctx := context.Background()

	entrada := propostaValida()
	entrada.Fields = map[string]any{"prazo": "30 dias"}
	p, err := api.CreateProposal(ctx, entrada)
	require.NoError(t, err)

	igual, err := api.UpdateProposal(ctx, p.ID, Patch{Fields: map[string]any{"prazo": "30 dias"}})
	require.NoError(t, err)
	assert.Equal(t, p.UpdatedAt, igual.UpdatedAt, "bag idêntico não conta como mudança")

	diferente, err := api.UpdateProposal(ctx, p.ID, Patch{Fields: map[string]any{"prazo": "60 dias"}})
	require.NoError(t, err)
	assert.True(t, diferente.UpdatedAt.After(p.UpdatedAt))
}

func TestAPI_UpdateStatusRejeitaTransicaoInvalida(t *testing.T) {
	api := NewAPI(storage.NewMemoryGateway(0))
	ctx := context.Background()

	p, err := api.CreateProposal(ctx, propostaValida())
	require.NoError(t, err)

	_, err = api.UpdateStatus(ctx, p.ID, StatusAccepted)
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)

	_, err = api.UpdateStatus(ctx, "999", StatusSent)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAPI_CreateTemplateUnicoPadrao(t *testing.T) {
	api := NewAPI(storage.NewMemoryGateway(0))
	ctx := context.Background()

	a, err := api.CreateTemplate(ctx, Template{Name: "Modelo A", IsDefault: true})
	require.NoError(t, err)
	_, err = api.CreateTemplate(ctx, Template{Name: "Modelo B", IsDefault: true})
	require.NoError(t, err)

	ts, err := api.Templates(ctx)
	require.NoError(t, err)
	require.Len(t, ts, 2)

	padroes := 0
	for _, tpl := range ts {
		if tpl.IsDefault {
			padroes++
			assert.NotEqual(t, a.ID, tpl.ID, "o padrão antigo perde a marcação")
		}
	}
	assert.Equal(t, 1, padroes)
}

func TestValidateTemplate_Invariantes(t *testing.T) {
	err := ValidateTemplate(Template{Name: "Modelo", Fields: []Field{
		{Name: "valor", Order: 0},
		{Name: "valor", Order: 1},
	}})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "fields", verr.Field)

	err = ValidateTemplate(Template{Name: "Modelo", Fields: []Field{
		{Name: "a", Order: 0},
		{Name: "b", Order: 0},
	}})
	require.ErrorAs(t, err, &verr)

	err = ValidateTemplate(Template{Name: "Modelo", Fields: []Field{
		{Name: "tipo", Type: FieldSelect, Order: 0},
	}})
	require.ErrorAs(t, err, &verr)
}

func TestValidateFields_SchemaDoTemplate(t *testing.T) {
	tpl := Template{
		ID:   "t1",
		Name: "Modelo",
		Fields: []Field{
			{Name: "prazo", Type: FieldNumber, Required: true, Order: 0},
			{Name: "plano", Type: FieldSelect, Options: []string{"básico", "completo"}, Order: 1},
		},
	}

	require.NoError(t, ValidateFields(tpl, map[string]any{"prazo": 30.0, "plano": "básico"}))

	err := ValidateFields(tpl, map[string]any{"prazo": "trinta"})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)

	err = ValidateFields(tpl, map[string]any{"prazo": 30.0, "plano": "inexistente"})
	require.ErrorAs(t, err, &verr)

	err = ValidateFields(tpl, map[string]any{"prazo": 30.0, "extra": "não declarado"})
	require.ErrorAs(t, err, &verr)
}
