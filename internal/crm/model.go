package crm

import "time"

// Stage é uma etapa nomeada do funil que um negócio ocupa.
type Stage struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
	Color string `json:"color"`
}

// Pipeline é o conjunto ordenado de etapas do processo de vendas.
// Invariantes: pelo menos uma etapa; valores de Order únicos e crescentes.
type Pipeline struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Stages []Stage `json:"stages"`
}

// Stage devolve a etapa com o id dado, se existir no pipeline.
func (p Pipeline) Stage(id string) (Stage, bool) {
	for _, s := range p.Stages {
		if s.ID == id {
			return s, true
		}
	}
	return Stage{}, false
}

// Deal é uma oportunidade de negócio no funil. StageID deve referenciar
// uma etapa do pipeline ativo; Value nunca é negativo.
type Deal struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Value             float64    `json:"value"`
	Currency          string     `json:"currency"`
	ContactID         string     `json:"contactId"`
	StageID           string     `json:"stageId"`
	AssignedTo        string     `json:"assignedTo"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate,omitempty"`
	Probability       *float64   `json:"probability,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// DealPatch é a atualização parcial de um negócio; campos nil ficam como
// estão.
type DealPatch struct {
	Title             *string    `json:"title,omitempty"`
	Value             *float64   `json:"value,omitempty"`
	Currency          *string    `json:"currency,omitempty"`
	ContactID         *string    `json:"contactId,omitempty"`
	StageID           *string    `json:"stageId,omitempty"`
	AssignedTo        *string    `json:"assignedTo,omitempty"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate,omitempty"`
	Probability       *float64   `json:"probability,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
}

// apply escreve os campos presentes do patch e informa se algo de fato
// mudou. UpdatedAt só avança quando houve mudança real.
func (p DealPatch) apply(d *Deal) bool {
	changed := false
	if p.Title != nil && *p.Title != d.Title {
		d.Title = *p.Title
		changed = true
	}
	if p.Value != nil && *p.Value != d.Value {
		d.Value = *p.Value
		changed = true
	}
	if p.Currency != nil && *p.Currency != d.Currency {
		d.Currency = *p.Currency
		changed = true
	}
	if p.ContactID != nil && *p.ContactID != d.ContactID {
		d.ContactID = *p.ContactID
		changed = true
	}
	if p.StageID != nil && *p.StageID != d.StageID {
		d.StageID = *p.StageID
		changed = true
	}
	if p.AssignedTo != nil && *p.AssignedTo != d.AssignedTo {
		d.AssignedTo = *p.AssignedTo
		changed = true
	}
	if p.ExpectedCloseDate != nil {
		if d.ExpectedCloseDate == nil || !d.ExpectedCloseDate.Equal(*p.ExpectedCloseDate) {
			t := *p.ExpectedCloseDate
			d.ExpectedCloseDate = &t
			changed = true
		}
	}
	if p.Probability != nil {
		if d.Probability == nil || *d.Probability != *p.Probability {
			v := *p.Probability
			d.Probability = &v
			changed = true
		}
	}
	if p.Notes != nil && *p.Notes != d.Notes {
		d.Notes = *p.Notes
		changed = true
	}
	return changed
}

// Lead é um contato ainda não qualificado como negócio.
type Lead struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Company    string    `json:"company"`
	Status     string    `json:"status"`
	AssignedTo string    `json:"assignedTo"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Contact é um contato da base.
type Contact struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Company     string     `json:"company"`
	Position    string     `json:"position,omitempty"`
	LastContact *time.Time `json:"lastContact,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
