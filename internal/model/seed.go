package model

import "github.com/shopspring/decimal"

// SeedTransactions is the dataset used when no transactions were ever saved.
func SeedTransactions() []Transaction {
	amt := decimal.NewFromInt
	return []Transaction{
		{ID: "1", Date: "2024-03-01", Description: "Consultoria Estratégica", Amount: amt(20000), Category: "Serviços", Type: TypeIncome, Nature: NatureBusiness},
		{ID: "2", Date: "2024-03-02", Description: "Aluguel Casa (Home Office)", Amount: amt(4000), Category: "Habitação", Type: TypeExpense, Nature: NatureMixed},
		{ID: "3", Date: "2024-03-05", Description: "Café no Iate Clube (Trabalho)", Amount: amt(120), Category: "Ambiente", Type: TypeExpense, Nature: NatureBusiness},
		{ID: "4", Date: "2024-03-10", Description: "Pró-labore", Amount: amt(8000), Category: "Folha", Type: TypeExpense, Nature: NatureBusiness},
		{ID: "5", Date: "2024-03-12", Description: "Luz & Internet", Amount: amt(600), Category: "Habitação", Type: TypeExpense, Nature: NatureMixed},
		{ID: "6", Date: "2024-03-15", Description: "Assinatura AI Business", Amount: amt(150), Category: "Software", Type: TypeExpense, Nature: NatureBusiness},
	}
}

// SeedDebts is the dataset used when no debts were ever saved.
func SeedDebts() []Debt {
	amt := decimal.NewFromInt
	return []Debt{
		{ID: "d1", Description: "Financiamento Carro", DebtType: DebtFinancing, TotalAmount: amt(80000), RemainingAmount: amt(32000), InstallmentValue: amt(1200)},
		{ID: "d2", Description: "IPVA 2024", DebtType: DebtOther, TotalAmount: amt(2400), RemainingAmount: amt(800), InstallmentValue: amt(400)},
	}
}
