// Package seed carrega o conjunto de dados de demonstração quando as
// coleções ainda estão vazias.
package seed

import (
	"context"
	"time"

	"github.com/KromaEnergia/crm-vendas/internal/chat"
	"github.com/KromaEnergia/crm-vendas/internal/crm"
	"github.com/KromaEnergia/crm-vendas/internal/proposals"
	"github.com/KromaEnergia/crm-vendas/internal/storage"
	"github.com/KromaEnergia/crm-vendas/internal/whatsapp"
)

func date(value string) time.Time {
	t, _ := time.Parse("2006-01-02", value)
	return t
}

func datetime(value string) time.Time {
	t, _ := time.Parse(time.RFC3339, value)
	return t
}

func floatPtr(v float64) *float64 { return &v }

func timePtr(t time.Time) *time.Time { return &t }

// Pipelines é o funil de vendas padrão.
func Pipelines() []crm.Pipeline {
	return []crm.Pipeline{
		{
			ID:   "default",
			Name: "Sales Pipeline",
			Stages: []crm.Stage{
				{ID: "new", Name: "New", Order: 0, Color: "bg-gray-500"},
				{ID: "contacted", Name: "Contacted", Order: 1, Color: "bg-blue-500"},
				{ID: "qualified", Name: "Qualified", Order: 2, Color: "bg-indigo-500"},
				{ID: "proposal", Name: "Proposal", Order: 3, Color: "bg-purple-500"},
				{ID: "negotiation", Name: "Negotiation", Order: 4, Color: "bg-yellow-500"},
				{ID: "won", Name: "Won", Order: 5, Color: "bg-green-500"},
				{ID: "lost", Name: "Lost", Order: 6, Color: "bg-red-500"},
			},
		},
	}
}

func Deals() []crm.Deal {
	return []crm.Deal{
		{
			ID:                "1",
			Title:             "Projeto ERP",
			Value:             150000,
			Currency:          "BRL",
			ContactID:         "1",
			StageID:           "proposal",
			AssignedTo:        "user1",
			ExpectedCloseDate: timePtr(date("2024-03-30")),
			Probability:       floatPtr(0.7),
			Notes:             "Cliente interessado em implementação completa",
			CreatedAt:         date("2024-01-20"),
			UpdatedAt:         date("2024-02-15"),
		},
		{
			ID:                "2",
			Title:             "Consultoria Tech",
			Value:             75000,
			Currency:          "BRL",
			ContactID:         "2",
			StageID:           "negotiation",
			AssignedTo:        "user2",
			ExpectedCloseDate: timePtr(date("2024-04-15")),
			Probability:       floatPtr(0.85),
			Notes:             "Aguardando aprovação final do orçamento",
			CreatedAt:         date("2024-02-01"),
			UpdatedAt:         date("2024-02-10"),
		},
		{
			ID:                "3",
			Title:             "Desenvolvimento Mobile",
			Value:             95000,
			Currency:          "BRL",
			ContactID:         "3",
			StageID:           "qualified",
			AssignedTo:        "user1",
			ExpectedCloseDate: timePtr(date("2024-05-01")),
			Probability:       floatPtr(0.6),
			Notes:             "Desenvolvimento de app iOS e Android",
			CreatedAt:         date("2024-02-05"),
			UpdatedAt:         date("2024-02-15"),
		},
	}
}

func Leads() []crm.Lead {
	return []crm.Lead{
		{
			ID: "1", Name: "João Silva", Email: "joao@empresa.com",
			Phone: "(11) 98765-4321", Company: "Tech Solutions",
			Status: "new", AssignedTo: "user1",
			CreatedAt: date("2024-01-15"), UpdatedAt: date("2024-01-15"),
		},
		{
			ID: "2", Name: "Maria Santos", Email: "maria@corporacao.com",
			Phone: "(11) 91234-5678", Company: "Corporação ABC",
			Status: "contacted", AssignedTo: "user2",
			CreatedAt: date("2024-02-01"), UpdatedAt: date("2024-02-03"),
		},
		{
			ID: "3", Name: "Pedro Oliveira", Email: "pedro@startup.com",
			Phone: "(11) 99876-5432", Company: "Startup XYZ",
			Status: "qualified", AssignedTo: "user1",
			CreatedAt: date("2024-02-10"), UpdatedAt: date("2024-02-12"),
		},
	}
}

// DefaultTemplate é o modelo de proposta criado na primeira execução.
func DefaultTemplate(now time.Time) proposals.Template {
	return proposals.Template{
		ID:          "default",
		Name:        "Modelo Padrão",
		Description: "Modelo padrão de proposta comercial",
		Fields: []proposals.Field{
			{ID: "title", Name: "title", Label: "Título", Type: proposals.FieldText, Required: true, Order: 0, Placeholder: "Digite o título da proposta"},
			{ID: "clientName", Name: "clientName", Label: "Nome do Cliente", Type: proposals.FieldText, Required: true, Order: 1, Placeholder: "Nome do cliente ou empresa"},
			{ID: "value", Name: "value", Label: "Valor", Type: proposals.FieldCurrency, Required: true, Order: 2},
			{ID: "description", Name: "description", Label: "Descrição", Type: proposals.FieldTextarea, Required: true, Order: 3, Placeholder: "Descreva os detalhes da proposta"},
			{ID: "validUntil", Name: "validUntil", Label: "Válido até", Type: proposals.FieldDate, Required: true, Order: 4},
		},
		Style: proposals.Style{
			HeaderColor:     "#2AA3B5",
			HeaderTextColor: "#FFFFFF",
			FontFamily:      "Inter, sans-serif",
			FontSize:        "16px",
			ShowLogo:        true,
			UseCustomHeader: false,
		},
		IsDefault: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Gateway grava os dados de demonstração nas coleções persistidas que
// ainda estão vazias.
func Gateway(ctx context.Context, gw storage.Gateway) error {
	if err := seedCollection(ctx, gw, storage.ColPipelines, Pipelines()); err != nil {
		return err
	}
	if err := seedCollection(ctx, gw, storage.ColDeals, Deals()); err != nil {
		return err
	}
	if err := seedCollection(ctx, gw, storage.ColLeads, Leads()); err != nil {
		return err
	}
	return seedCollection(ctx, gw, storage.ColProposalTemplates, []proposals.Template{DefaultTemplate(time.Now())})
}

func seedCollection[T any](ctx context.Context, gw storage.Gateway, collection string, items []T) error {
	existing, err := storage.LoadCollection[T](ctx, gw, collection)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	return storage.SaveCollection(ctx, gw, collection, items)
}

// Chat popula o store de conversas internas.
func Chat(store *chat.Store) {
	messages := []chat.Message{
		{ID: "1", ConversationID: "1", SenderID: "user1", Content: "Olá, como está o andamento do projeto?", Timestamp: datetime("2024-02-15T10:00:00Z"), Status: "read", Type: chat.TypeText},
		{ID: "2", ConversationID: "1", SenderID: "user2", Content: "Está progredindo bem! Já finalizamos a fase inicial.", Timestamp: datetime("2024-02-15T10:02:00Z"), Status: "read", Type: chat.TypeText},
		{ID: "3", ConversationID: "1", SenderID: "user1", Content: "Ótimo! Podemos agendar uma reunião para discutir os próximos passos?", Timestamp: datetime("2024-02-15T10:05:00Z"), Status: "delivered", Type: chat.TypeText},
		{ID: "4", ConversationID: "2", SenderID: "user3", Content: "Documentação atualizada disponível", Timestamp: datetime("2024-02-14T15:30:00Z"), Status: "read", Type: chat.TypeText},
	}
	conversations := []chat.Conversation{
		{ID: "1", Participants: []string{"user1", "user2"}, LastMessage: &messages[2]},
		{ID: "2", Participants: []string{"user1", "user3"}, LastMessage: &messages[3]},
	}
	store.Seed(conversations, messages)
}

// WhatsApp popula contatos, templates e histórico de mensagens.
func WhatsApp(store *whatsapp.Store) {
	messages := []whatsapp.Message{
		{ID: "1", ContactID: "1", Content: "Olá, gostaria de mais informações sobre os serviços", Timestamp: datetime("2024-02-15T09:00:00Z"), Status: "read", Type: whatsapp.TypeText},
		{ID: "2", ContactID: "1", Content: "Claro! Vou te enviar nossa apresentação comercial.", Timestamp: datetime("2024-02-15T09:05:00Z"), Status: "delivered", Type: whatsapp.TypeText},
	}
	contacts := []whatsapp.Contact{
		{ID: "1", Name: "João Cliente", Phone: "+5511987654321", ProfilePic: "https://ui-avatars.com/api/?name=João+Cliente", LastMessage: &messages[1]},
		{ID: "2", Name: "Maria Empresa", Phone: "+5511912345678", ProfilePic: "https://ui-avatars.com/api/?name=Maria+Empresa"},
	}
	templates := []whatsapp.Template{
		{ID: "1", Name: "Boas-vindas", Content: "Olá {{nome}}, seja bem-vindo(a) à {{empresa}}! Como podemos ajudar?", Variables: []string{"nome", "empresa"}, Status: whatsapp.TemplateApproved},
		{ID: "2", Name: "Confirmação de Reunião", Content: "Confirmando nossa reunião para {{data}} às {{hora}}. Tema: {{assunto}}", Variables: []string{"data", "hora", "assunto"}, Status: whatsapp.TemplateApproved},
		{ID: "3", Name: "Proposta Comercial", Content: "Prezado(a) {{nome}}, sua proposta no valor de {{valor}} está disponível para análise.", Variables: []string{"nome", "valor"}, Status: whatsapp.TemplatePending},
	}
	store.Seed(contacts, templates, messages)
}
