// Package analytics calcula as métricas do dashboard de relatórios a
// partir do estado vivo do CRM, em vez dos números fixos do protótipo.
package analytics

import (
	"sort"

	"github.com/KromaEnergia/crm-vendas/internal/crm"
)

type DashboardMetrics struct {
	TotalDeals     int     `json:"totalDeals"`
	TotalRevenue   float64 `json:"totalRevenue"`
	AverageTicket  float64 `json:"averageTicket"`
	ConversionRate float64 `json:"conversionRate"`
}

type Distribution struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

type DealsAnalytics struct {
	StageDistribution Distribution `json:"stageDistribution"`
	ForecastByStage   Distribution `json:"forecastByStage"`
}

type Service struct {
	store *crm.Store
}

func NewService(store *crm.Store) *Service {
	return &Service{store: store}
}

// Dashboard agrega os números gerais: total de negócios, receita dos
// ganhos, ticket médio e taxa de conversão (ganhos / encerrados).
func (s *Service) Dashboard() DashboardMetrics {
	deals := s.store.Deals()
	m := DashboardMetrics{TotalDeals: len(deals)}

	var won, lost int
	for _, d := range deals {
		if d.StageID == "won" {
			won++
			m.TotalRevenue += d.Value
		}
		if d.StageID == "lost" {
			lost++
		}
	}
	if won > 0 {
		m.AverageTicket = m.TotalRevenue / float64(won)
	}
	if closed := won + lost; closed > 0 {
		m.ConversionRate = 100 * float64(won) / float64(closed)
	}
	return m
}

// Deals distribui os negócios pelas etapas do pipeline ativo, contagem e
// previsão de valor ponderada por probabilidade.
func (s *Service) Deals() DealsAnalytics {
	deals := s.store.Deals()

	counts := map[string]float64{}
	forecast := map[string]float64{}
	for _, d := range deals {
		counts[d.StageID]++
		weight := 1.0
		if d.Probability != nil {
			weight = *d.Probability
		}
		forecast[d.StageID] += d.Value * weight
	}

	var out DealsAnalytics
	pipeline, ok := s.store.ActivePipeline()
	if !ok {
		// sem pipeline, ordena pelas etapas observadas
		stages := make([]string, 0, len(counts))
		for id := range counts {
			stages = append(stages, id)
		}
		sort.Strings(stages)
		for _, id := range stages {
			out.StageDistribution.Labels = append(out.StageDistribution.Labels, id)
			out.StageDistribution.Data = append(out.StageDistribution.Data, counts[id])
			out.ForecastByStage.Labels = append(out.ForecastByStage.Labels, id)
			out.ForecastByStage.Data = append(out.ForecastByStage.Data, forecast[id])
		}
		return out
	}

	for _, stage := range pipeline.Stages {
		out.StageDistribution.Labels = append(out.StageDistribution.Labels, stage.Name)
		out.StageDistribution.Data = append(out.StageDistribution.Data, counts[stage.ID])
		out.ForecastByStage.Labels = append(out.ForecastByStage.Labels, stage.Name)
		out.ForecastByStage.Data = append(out.ForecastByStage.Data, forecast[stage.ID])
	}
	return out
}
