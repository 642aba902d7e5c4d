package whatsapp

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KromaEnergia/crm-vendas/internal/messaging"
	"github.com/KromaEnergia/crm-vendas/internal/storage"
	"github.com/KromaEnergia/crm-vendas/internal/validation"
)

func idsSequenciais() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("w%d", n)
	}
}

func montarStore(t *testing.T) (*Store, *messaging.Manual) {
	t.Helper()
	transport := messaging.NewManual()
	s := NewStore(transport, WithIDs(idsSequenciais()))
	s.Seed(
		[]Contact{{ID: "1", Name: "João Cliente", Phone: "+5511987654321"}},
		[]Template{
			{ID: "t1", Name: "Boas-vindas", Content: "Olá {{nome}}, seja bem-vindo(a) à {{empresa}}!", Variables: []string{"nome", "empresa"}, Status: TemplateApproved},
			{ID: "t2", Name: "Proposta Comercial", Content: "Prezado(a) {{nome}}", Variables: []string{"nome"}, Status: TemplatePending},
		},
		nil,
	)
	return s, transport
}

func TestStore_SendTemplateRenderizaVariaveis(t *testing.T) {
	s, transport := montarStore(t)

	msg, err := s.SendTemplate("t1", "1", map[string]string{"nome": "João", "empresa": "Kroma"})
	require.NoError(t, err)

	assert.Equal(t, "Olá João, seja bem-vindo(a) à Kroma!", msg.Content)
	assert.Equal(t, TypeTemplate, msg.Type)
	assert.Equal(t, "t1", msg.Metadata["templateId"])
	assert.Equal(t, messaging.StatusSending, msg.Status)
	assert.Equal(t, []string{msg.ID}, transport.SentIDs())
}

func TestStore_SendTemplateNaoAprovadoFalha(t *testing.T) {
	s, transport := montarStore(t)

	_, err := s.SendTemplate("t2", "1", map[string]string{"nome": "João"})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "templateId", verr.Field)
	assert.Empty(t, transport.SentIDs())
}

func TestStore_SendTemplateInexistente(t *testing.T) {
	s, _ := montarStore(t)

	_, err := s.SendTemplate("fantasma", "1", nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_SendMessageAtualizaLastMessageDoContato(t *testing.T) {
	s, transport := montarStore(t)

	msg := s.SendMessage("1", "Olá, gostaria de mais informações", TypeText, nil)

	contatos := s.Contacts()
	require.Len(t, contatos, 1)
	require.NotNil(t, contatos[0].LastMessage)
	assert.Equal(t, msg.ID, contatos[0].LastMessage.ID)

	transport.Push(msg.ID, messaging.StatusSent)
	contatos = s.Contacts()
	assert.Equal(t, messaging.StatusSent, contatos[0].LastMessage.Status)
}

func TestStore_StatusMonotonico(t *testing.T) {
	s, transport := montarStore(t)
	msg := s.SendMessage("1", "oi", TypeText, nil)

	require.True(t, s.MarkRead(msg.ID))
	transport.Push(msg.ID, messaging.StatusDelivered)

	m, ok := s.Message(msg.ID)
	require.True(t, ok)
	assert.Equal(t, messaging.StatusRead, m.Status)
}

func TestStore_CreateTemplateNascePendente(t *testing.T) {
	s, _ := montarStore(t)

	tpl := s.CreateTemplate("Follow-up", "Olá {{nome}}, tudo bem?", []string{"nome"})
	assert.Equal(t, TemplatePending, tpl.Status)

	_, err := s.SendTemplate(tpl.ID, "1", map[string]string{"nome": "João"})
	assert.Error(t, err, "template recém-criado ainda não pode ser enviado")
}

func TestStore_ContasConectamEDesconectam(t *testing.T) {
	s, _ := montarStore(t)

	acc := s.ConnectAccount("+5511999990000")
	assert.Equal(t, AccountConnected, acc.Status)

	ativa, ok := s.ActiveAccount()
	require.True(t, ok)
	assert.Equal(t, acc.ID, ativa.ID)

	s.DisconnectAccount(acc.ID)
	_, ok = s.ActiveAccount()
	assert.False(t, ok)
	assert.Equal(t, AccountDisconnected, s.Accounts()[0].Status)
}

func TestStore_MessagesFiltraPorContato(t *testing.T) {
	s, _ := montarStore(t)
	s.SendMessage("1", "para o João", TypeText, nil)
	s.SendMessage("2", "para outro", TypeText, nil)

	msgs := s.Messages("1")
	require.Len(t, msgs, 1)
	assert.Equal(t, "para o João", msgs[0].Content)

	assert.Len(t, s.Messages(""), 2)
}
