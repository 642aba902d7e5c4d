package notify

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// Webhook envia cada notificação via POST para uma URL externa
// (integração com sistemas de alerta). Falhas são apenas logadas.
type Webhook struct {
	URL    string
	Client *http.Client
}

func NewWebhook(url string) *Webhook {
	return &Webhook{URL: url, Client: &http.Client{Timeout: 5 * time.Second}}
}

func (w *Webhook) Notify(kind Kind, title, message string) {
	payload := map[string]string{
		"kind":     string(kind),
		"titulo":   title,
		"mensagem": message,
	}
	body, _ := json.Marshal(payload)

	resp, err := w.Client.Post(w.URL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		log.Printf("Erro ao enviar webhook: %v", err)
		return
	}
	defer resp.Body.Close()
}
