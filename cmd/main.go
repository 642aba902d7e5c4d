package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/KromaEnergia/crm-vendas/internal/ai"
	"github.com/KromaEnergia/crm-vendas/internal/analytics"
	"github.com/KromaEnergia/crm-vendas/internal/auth"
	"github.com/KromaEnergia/crm-vendas/internal/automation"
	"github.com/KromaEnergia/crm-vendas/internal/cache"
	"github.com/KromaEnergia/crm-vendas/internal/chat"
	"github.com/KromaEnergia/crm-vendas/internal/contracts"
	"github.com/KromaEnergia/crm-vendas/internal/crm"
	"github.com/KromaEnergia/crm-vendas/internal/messaging"
	"github.com/KromaEnergia/crm-vendas/internal/notify"
	"github.com/KromaEnergia/crm-vendas/internal/proposals"
	"github.com/KromaEnergia/crm-vendas/internal/seed"
	"github.com/KromaEnergia/crm-vendas/internal/storage"
	"github.com/KromaEnergia/crm-vendas/internal/users"
	"github.com/KromaEnergia/crm-vendas/internal/whatsapp"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("sem arquivo .env, usando variáveis do ambiente")
	}

	port := env("PORT", "8080")
	dataDir := env("DATA_DIR", "./data")
	delayMS, _ := strconv.Atoi(env("GATEWAY_DELAY_MS", "0"))

	gw, err := storage.OpenBadger(dataDir, time.Duration(delayMS)*time.Millisecond)
	if err != nil {
		log.Fatal("erro ao abrir o gateway de persistência:", err)
	}
	defer gw.Close()

	ctx := context.Background()
	if err := seed.Gateway(ctx, gw); err != nil {
		log.Fatal("erro ao semear as coleções:", err)
	}

	// Notificações: log do processo, stream websocket e webhook opcional.
	hub := notify.NewHub()
	notifier := notify.Multi{notify.Log{}, hub}
	if url := os.Getenv("WEBHOOK_URL"); url != "" {
		notifier = append(notifier, notify.NewWebhook(url))
	}

	c := cache.New(notifier,
		cache.WithStaleness(storage.ColPipelines, cache.StableStaleness),
		cache.WithStaleness(storage.ColProposalTemplates, cache.StableStaleness),
	)

	// CRM
	crmStore := crm.NewStore()
	crmAPI := crm.NewAPI(gw)
	if err := hydrateCRM(ctx, crmStore, crmAPI); err != nil {
		log.Fatal("erro ao carregar as coleções do CRM:", err)
	}
	engine := crm.NewEngine(crmStore, crmAPI, c)
	crmHandler := crm.NewHandler(crmStore, crmAPI, c, engine)

	// Propostas
	propStore := proposals.NewStore()
	propAPI := proposals.NewAPI(gw)
	if err := hydrateProposals(ctx, propStore, propAPI); err != nil {
		log.Fatal("erro ao carregar as propostas:", err)
	}
	propHandler := proposals.NewHandler(propStore, propAPI, c)

	// Mensageria simulada: os timers vivem no transporte, compartilhado
	// entre chat e whatsapp.
	sim := messaging.NewSimulator()
	defer sim.Stop()
	chatStore := chat.NewStore(sim)
	seed.Chat(chatStore)
	chatHandler := chat.NewHandler(chatStore)

	waStore := whatsapp.NewStore(sim)
	seed.WhatsApp(waStore)
	waHandler := whatsapp.NewHandler(waStore)

	aiHandler := ai.NewHandler(ai.NewStore())
	analyticsHandler := analytics.NewHandler(analytics.NewService(crmStore))
	contractsHandler := contracts.NewHandler(contracts.NewAPI(gw), c)

	// Automação: regras disparadas pelos eventos do CRM e das propostas.
	autoEngine := automation.NewEngine(notifier)
	autoHandler := automation.NewHandler(autoEngine)
	engine.OnStageChange(func(sc crm.StageChange) {
		autoEngine.Fire(automation.Event{
			Type: automation.TriggerDealStageChanged,
			Fields: map[string]string{
				"dealId":      sc.Deal.ID,
				"stageId":     sc.To.ID,
				"fromStageId": sc.From.ID,
			},
		})
	})
	crmHandler.LeadCreated = func(l crm.Lead) {
		autoEngine.Fire(automation.Event{
			Type:   automation.TriggerNewLeadCreated,
			Fields: map[string]string{"leadId": l.ID, "status": l.Status},
		})
	}
	propHandler.StatusChanged = func(p proposals.Proposal) {
		autoEngine.Fire(automation.Event{
			Type:   automation.TriggerProposalStatusChanged,
			Fields: map[string]string{"proposalId": p.ID, "status": string(p.Status)},
		})
	}

	r := mux.NewRouter()

	// Rotas de negócios e funil
	r.HandleFunc("/deals", crmHandler.ListarDeals).Methods("GET")
	r.HandleFunc("/deals", crmHandler.CriarDeal).Methods("POST")
	r.HandleFunc("/deals/{id}", crmHandler.BuscarDeal).Methods("GET")
	r.HandleFunc("/deals/{id}", crmHandler.AtualizarDeal).Methods("PUT")
	r.HandleFunc("/deals/{id}/move", crmHandler.MoverDeal).Methods("POST")
	r.HandleFunc("/pipelines", crmHandler.ListarPipelines).Methods("GET")
	r.HandleFunc("/leads", crmHandler.ListarLeads).Methods("GET")
	r.HandleFunc("/leads", crmHandler.CriarLead).Methods("POST")
	r.HandleFunc("/contacts", crmHandler.ListarContatos).Methods("GET")

	// Rotas de propostas
	r.HandleFunc("/proposals", propHandler.ListarPropostas).Methods("GET")
	r.HandleFunc("/proposals", propHandler.CriarProposta).Methods("POST")
	r.HandleFunc("/proposals/{id}", propHandler.BuscarProposta).Methods("GET")
	r.HandleFunc("/proposals/{id}", propHandler.AtualizarProposta).Methods("PUT")
	r.HandleFunc("/proposals/{id}/status", propHandler.AtualizarStatus).Methods("PUT")
	r.HandleFunc("/proposals/{id}", propHandler.RemoverProposta).Methods("DELETE")
	r.HandleFunc("/proposal-templates", propHandler.ListarTemplates).Methods("GET")
	r.HandleFunc("/proposal-templates", propHandler.CriarTemplate).Methods("POST")
	r.HandleFunc("/proposal-templates/{id}", propHandler.RemoverTemplate).Methods("DELETE")

	// Rotas de chat interno
	r.HandleFunc("/conversations", chatHandler.ListarConversas).Methods("GET")
	r.HandleFunc("/conversations", chatHandler.CriarConversa).Methods("POST")
	r.HandleFunc("/conversations/{id}/messages", chatHandler.ListarMensagens).Methods("GET")
	r.HandleFunc("/conversations/{id}/messages", chatHandler.EnviarMensagem).Methods("POST")
	r.HandleFunc("/messages/{id}/read", chatHandler.MarcarLida).Methods("POST")

	// Rotas de WhatsApp
	r.HandleFunc("/whatsapp/contacts", waHandler.ListarContatos).Methods("GET")
	r.HandleFunc("/whatsapp/messages", waHandler.ListarMensagens).Methods("GET")
	r.HandleFunc("/whatsapp/messages", waHandler.EnviarMensagem).Methods("POST")
	r.HandleFunc("/whatsapp/messages/template", waHandler.EnviarTemplate).Methods("POST")
	r.HandleFunc("/whatsapp/messages/{id}/read", waHandler.MarcarLida).Methods("POST")
	r.HandleFunc("/whatsapp/templates", waHandler.ListarTemplates).Methods("GET")
	r.HandleFunc("/whatsapp/templates", waHandler.CriarTemplate).Methods("POST")
	r.HandleFunc("/whatsapp/accounts", waHandler.ListarContas).Methods("GET")
	r.HandleFunc("/whatsapp/accounts", waHandler.ConectarConta).Methods("POST")
	r.HandleFunc("/whatsapp/accounts/{id}", waHandler.DesconectarConta).Methods("DELETE")

	// Assistente, relatórios, automação e contratos
	r.HandleFunc("/assistant/messages", aiHandler.ListarMensagens).Methods("GET")
	r.HandleFunc("/assistant/messages", aiHandler.EnviarMensagem).Methods("POST")
	r.HandleFunc("/analytics/dashboard", analyticsHandler.Dashboard).Methods("GET")
	r.HandleFunc("/analytics/deals", analyticsHandler.Deals).Methods("GET")
	r.HandleFunc("/automation/rules", autoHandler.ListarRegras).Methods("GET")
	r.HandleFunc("/automation/rules", autoHandler.CriarRegra).Methods("POST")
	r.HandleFunc("/automation/rules/{id}/toggle", autoHandler.AlternarRegra).Methods("PUT")
	r.HandleFunc("/contracts", contractsHandler.ListarContratos).Methods("GET")
	r.HandleFunc("/contracts", contractsHandler.CriarContrato).Methods("POST")
	r.HandleFunc("/contracts/{id}", contractsHandler.BuscarContrato).Methods("GET")
	r.HandleFunc("/contracts/{id}", contractsHandler.RemoverContrato).Methods("DELETE")

	// Stream de notificações
	r.Handle("/notifications/stream", hub)

	// Usuários e autenticação sobre Postgres. Sem DB_HOST o módulo fica
	// desligado e o restante da aplicação segue normalmente.
	if os.Getenv("DB_HOST") != "" {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			log.Fatal("JWT_SECRET não definida")
		}
		tokens := auth.NewManager(secret)

		db, err := users.GetDB()
		if err != nil {
			log.Fatal("erro ao conectar no banco:", err)
		}
		usersHandler := users.NewHandler(db, tokens)

		r.HandleFunc("/auth/login", usersHandler.Login).Methods("POST")
		protected := r.NewRoute().Subrouter()
		protected.Use(tokens.MiddlewareAutenticacao)
		protected.HandleFunc("/users", usersHandler.ListarUsuarios).Methods("GET")
		protected.HandleFunc("/users/{id}", usersHandler.BuscarUsuario).Methods("GET")
		protected.HandleFunc("/me/permissions", usersHandler.MinhasPermissoes).Methods("GET")

		// Escritas em usuários exigem a permissão de gestão.
		gestao := protected.NewRoute().Subrouter()
		gestao.Use(auth.RequirePermission(usersHandler.Authz, "users:manage"))
		gestao.HandleFunc("/users", usersHandler.CriarUsuario).Methods("POST")
		gestao.HandleFunc("/users/{id}", usersHandler.AtualizarUsuario).Methods("PUT")
		gestao.HandleFunc("/users/{id}", usersHandler.DeletarUsuario).Methods("DELETE")
	} else {
		log.Println("DB_HOST não definido, módulo de usuários desligado")
	}

	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}).Handler(r)

	log.Println("Servidor rodando em http://localhost:" + port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}

func hydrateCRM(ctx context.Context, store *crm.Store, api *crm.API) error {
	deals, err := api.Deals(ctx)
	if err != nil {
		return err
	}
	pipelines, err := api.Pipelines(ctx)
	if err != nil {
		return err
	}
	leads, err := api.Leads(ctx)
	if err != nil {
		return err
	}
	contacts, err := api.Contacts(ctx)
	if err != nil {
		return err
	}
	store.SetDeals(deals)
	store.SetPipelines(pipelines)
	store.SetLeads(leads)
	store.SetContacts(contacts)
	return nil
}

func hydrateProposals(ctx context.Context, store *proposals.Store, api *proposals.API) error {
	ps, err := api.Proposals(ctx)
	if err != nil {
		return err
	}
	ts, err := api.Templates(ctx)
	if err != nil {
		return err
	}
	store.SetProposals(ps)
	store.SetTemplates(ts)
	return nil
}
