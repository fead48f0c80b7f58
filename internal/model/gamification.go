package model

import "github.com/shopspring/decimal"

// Milestone is a revenue threshold tied to a reward.
type Milestone struct {
	Label  string          `json:"label"`
	Reward string          `json:"reward"`
	Icon   string          `json:"icon"`
	Target decimal.Decimal `json:"target"`
}

// ProfitBucket is a named share of realized profit. Percentages across the
// configured buckets are expected to sum to 1.
type ProfitBucket struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Icon       string          `json:"icon"`
	Blurb      string          `json:"blurb"`
	Percentage decimal.Decimal `json:"percentage"`
}

// LevelTitles maps the number of unlocked milestones to a title.
var LevelTitles = []string{"Beginner", "Apprentice", "Builder", "Achiever", "Master", "Legend"}

// DefaultMilestones returns the ascending revenue milestones.
func DefaultMilestones() []Milestone {
	return []Milestone{
		{Label: "Primeiro Passo", Target: decimal.NewFromInt(50000), Reward: "Jantar de Comemoração", Icon: "🍽️"},
		{Label: "Consolidação", Target: decimal.NewFromInt(150000), Reward: "Escapada de Fim de Semana", Icon: "⛺"},
		{Label: "Paraíso Nacional", Target: decimal.NewFromInt(275000), Reward: "Noronha (3 dias)", Icon: "🏝️"},
		{Label: "Expansão Sólida", Target: decimal.NewFromInt(400000), Reward: "Novo Setup de Trabalho", Icon: "💻"},
		{Label: "Sonho Europeu", Target: decimal.NewFromInt(550000), Reward: "Portugal (7 dias)", Icon: "✈️"},
	}
}

// DefaultProfitBuckets returns the profit distribution plan.
func DefaultProfitBuckets() []ProfitBucket {
	pct := decimal.RequireFromString
	return []ProfitBucket{
		{ID: "reinvest", Name: "Reinvestimento", Percentage: pct("0.40"), Color: "#6366f1", Icon: "TrendingUp", Blurb: "Fundo para o próximo nível da empresa."},
		{ID: "lazer", Name: "Lazer & Viagens", Percentage: pct("0.20"), Color: "#10b981", Icon: "Heart", Blurb: "Viagens, jantares e momentos de recompensa."},
		{ID: "equip", Name: "Equipamentos", Percentage: pct("0.15"), Color: "#0ea5e9", Icon: "Zap", Blurb: "Equipamentos e tecnologia de ponta."},
		{ID: "imagem", Name: "Imagem Pessoal", Percentage: pct("0.10"), Color: "#f59e0b", Icon: "Shirt", Blurb: "Alfaiataria e autocuidado para marca pessoal."},
		{ID: "gastar", Name: "Livre", Percentage: pct("0.10"), Color: "#ec4899", Icon: "ShoppingBag", Blurb: "Verba para gastos impulsivos sem culpa."},
		{ID: "doar", Name: "Doações", Percentage: pct("0.05"), Color: "#ef4444", Icon: "Gift", Blurb: "Contribuição social e impacto positivo."},
	}
}
