package proposals

import (
	"fmt"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/KromaEnergia/crm-vendas/internal/validation"
)

// ValidateProposal aplica as regras estáticas do formulário. Erros são
// devolvidos com o campo ofensor para exibição inline.
func ValidateProposal(p Proposal, now time.Time) error {
	if n := len([]rune(p.Title)); n < 3 || n > 100 {
		return validation.Errorf("title", "título deve ter entre 3 e 100 caracteres")
	}
	if n := len([]rune(p.ClientName)); n < 3 || n > 100 {
		return validation.Errorf("clientName", "nome do cliente deve ter entre 3 e 100 caracteres")
	}
	if p.Value < 0 {
		return validation.Errorf("value", "valor deve ser positivo")
	}
	if p.Value > 1_000_000_000 {
		return validation.Errorf("value", "valor muito alto")
	}
	if n := len([]rune(p.Description)); n < 10 || n > 5000 {
		return validation.Errorf("description", "descrição deve ter entre 10 e 5000 caracteres")
	}
	if n := len([]rune(p.Terms)); n < 10 || n > 10000 {
		return validation.Errorf("terms", "termos devem ter entre 10 e 10000 caracteres")
	}
	until, err := time.Parse("2006-01-02", p.ValidUntil)
	if err != nil {
		return validation.Errorf("validUntil", "data de validade inválida")
	}
	if !until.After(now) {
		return validation.Errorf("validUntil", "data de validade deve ser no futuro")
	}
	return nil
}

// ValidateTemplate garante os invariantes do template: nome, ordem única
// de campos e nomes de campo únicos.
func ValidateTemplate(t Template) error {
	if t.Name == "" {
		return validation.Errorf("name", "nome é obrigatório")
	}
	orders := map[int]bool{}
	names := map[string]bool{}
	for _, f := range t.Fields {
		if f.Name == "" {
			return validation.Errorf("fields", "campo sem nome")
		}
		if names[f.Name] {
			return validation.Errorf("fields", "campo duplicado: %s", f.Name)
		}
		names[f.Name] = true
		if orders[f.Order] {
			return validation.Errorf("fields", "ordem duplicada no campo %s", f.Name)
		}
		orders[f.Order] = true
		if f.Type == FieldSelect && len(f.Options) == 0 {
			return validation.Errorf("fields", "campo select %s sem opções", f.Name)
		}
	}
	return nil
}

// FieldsSchema compila um JSON Schema a partir das definições de campo do
// template. O bag dinâmico da proposta é validado contra ele na borda em
// vez de confiado implicitamente.
func FieldsSchema(t Template) (*jsonschema.Schema, error) {
	properties := map[string]any{}
	required := []any{}
	for _, f := range t.Fields {
		var prop map[string]any
		switch f.Type {
		case FieldNumber, FieldCurrency:
			prop = map[string]any{"type": "number"}
		case FieldDate:
			prop = map[string]any{"type": "string", "format": "date"}
		case FieldSelect:
			opts := make([]any, len(f.Options))
			for i, o := range f.Options {
				opts[i] = o
			}
			prop = map[string]any{"type": "string", "enum": opts}
		default:
			prop = map[string]any{"type": "string"}
		}
		properties[f.Name] = prop
		if f.Required {
			required = append(required, f.Name)
		}
	}
	doc := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}

	c := jsonschema.NewCompiler()
	url := "template-" + t.ID + ".json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("montar schema do template %s: %w", t.ID, err)
	}
	return c.Compile(url)
}

// ValidateFields valida o bag dinâmico contra o schema do template.
func ValidateFields(t Template, fields map[string]any) error {
	schema, err := FieldsSchema(t)
	if err != nil {
		return err
	}
	instance := map[string]any{}
	for k, v := range fields {
		instance[k] = v
	}
	if err := schema.Validate(instance); err != nil {
		return validation.Errorf("fields", "campos dinâmicos inválidos: %v", err)
	}
	return nil
}
