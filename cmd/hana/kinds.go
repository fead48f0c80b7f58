package main

import (
	"strconv"

	"github.com/Veraticus/finanhome/internal/cli"
	"github.com/Veraticus/finanhome/internal/model"
	"github.com/Veraticus/finanhome/internal/store"
	"github.com/spf13/cobra"
)

func txCmd() *cobra.Command {
	return recordKind[model.TransactionDraft, model.Transaction]{
		use:     "tx",
		aliases: []string{"transactions"},
		noun:    "transaction",
		fields: []field{
			{flag: "date", prompt: "Date (YYYY-MM-DD, blank for today)", usage: "transaction date, YYYY-MM-DD (default today)"},
			{flag: "description", prompt: "Description", usage: "what the money was for"},
			{flag: "amount", prompt: "Amount (R$)", usage: "amount, e.g. 1.234,56 or 1234.56"},
			{flag: "category", prompt: "Category", usage: "category (default Vendas)"},
			{flag: "type", prompt: "Type (INCOME/EXPENSE)", usage: "INCOME or EXPENSE (default INCOME)"},
			{flag: "nature", prompt: "Nature (BUSINESS/PERSONAL/MIXED)", usage: "BUSINESS, PERSONAL or MIXED (default BUSINESS)"},
		},
		list:   func(st store.State) []model.Transaction { return st.Transactions },
		render: cli.RenderTransactions,
		lookup: (*store.Store).Transaction,
		draft:  model.Transaction.Draft,
		values: func(d model.TransactionDraft) map[string]string {
			return map[string]string{
				"date":        d.Date,
				"description": d.Description,
				"amount":      d.Amount,
				"category":    d.Category,
				"type":        d.Type,
				"nature":      d.Nature,
			}
		},
		build: func(v map[string]string) model.TransactionDraft {
			return model.TransactionDraft{
				Date:        v["date"],
				Description: v["description"],
				Amount:      v["amount"],
				Category:    v["category"],
				Type:        v["type"],
				Nature:      v["nature"],
			}
		},
		create: func(d model.TransactionDraft) store.Command { return store.CreateTransaction{Draft: d} },
		update: func(id string, d model.TransactionDraft) store.Command {
			return store.UpdateTransaction{ID: id, Draft: d}
		},
		remove: func(id string, confirmed bool) store.Command {
			return store.DeleteTransaction{ID: id, Confirmed: confirmed}
		},
	}.command()
}

func debtsCmd() *cobra.Command {
	return recordKind[model.DebtDraft, model.Debt]{
		use:     "debts",
		aliases: []string{"debt"},
		noun:    "debt",
		fields: []field{
			{flag: "description", prompt: "Description", usage: "creditor or contract"},
			{flag: "total", prompt: "Total amount (R$)", usage: "original amount"},
			{flag: "remaining", prompt: "Remaining amount (R$)", usage: "amount still owed"},
			{flag: "installment", prompt: "Monthly installment (R$)", usage: "monthly installment"},
			{flag: "debt-type", prompt: "Type (CREDIT_CARD/LOAN/RENEGOTIATION/FINANCING/OTHER)", usage: "CREDIT_CARD, LOAN, RENEGOTIATION, FINANCING or OTHER"},
			{flag: "interest", prompt: "Monthly interest rate (%)", usage: "monthly interest rate in percent"},
			{flag: "start", prompt: "Start date (YYYY-MM-DD)", usage: "start date, YYYY-MM-DD"},
			{flag: "high-risk", prompt: "High risk? (true/false)", usage: "mark as high risk (credit cards always are)"},
		},
		list:   func(st store.State) []model.Debt { return st.Debts },
		render: cli.RenderDebts,
		lookup: (*store.Store).Debt,
		draft:  model.Debt.Draft,
		values: func(d model.DebtDraft) map[string]string {
			return map[string]string{
				"description": d.Description,
				"total":       d.TotalAmount,
				"remaining":   d.RemainingAmount,
				"installment": d.InstallmentValue,
				"debt-type":   d.DebtType,
				"interest":    d.InterestRate,
				"start":       d.StartDate,
				"high-risk":   strconv.FormatBool(d.IsHighRisk),
			}
		},
		build: func(v map[string]string) model.DebtDraft {
			highRisk, _ := strconv.ParseBool(v["high-risk"])
			return model.DebtDraft{
				Description:      v["description"],
				TotalAmount:      v["total"],
				RemainingAmount:  v["remaining"],
				InstallmentValue: v["installment"],
				DebtType:         v["debt-type"],
				InterestRate:     v["interest"],
				StartDate:        v["start"],
				IsHighRisk:       highRisk,
			}
		},
		create: func(d model.DebtDraft) store.Command { return store.CreateDebt{Draft: d} },
		update: func(id string, d model.DebtDraft) store.Command { return store.UpdateDebt{ID: id, Draft: d} },
		remove: func(id string, confirmed bool) store.Command {
			return store.DeleteDebt{ID: id, Confirmed: confirmed}
		},
	}.command()
}

func taxesCmd() *cobra.Command {
	return recordKind[model.TaxPaymentDraft, model.TaxPayment]{
		use:     "taxes",
		aliases: []string{"tax"},
		noun:    "tax payment",
		fields: []field{
			{flag: "date", prompt: "Payment date (YYYY-MM-DD, blank for today)", usage: "payment date, YYYY-MM-DD (default today)"},
			{flag: "name", prompt: "Tax", usage: "tax name (default DAS - Simples Nacional)"},
			{flag: "amount", prompt: "Amount (R$)", usage: "amount paid"},
			{flag: "period", prompt: "Reference period", usage: "reference period, e.g. 2025-01"},
		},
		list:   func(st store.State) []model.TaxPayment { return st.TaxPayments },
		render: cli.RenderTaxPayments,
		lookup: (*store.Store).TaxPayment,
		draft:  model.TaxPayment.Draft,
		values: func(d model.TaxPaymentDraft) map[string]string {
			return map[string]string{
				"date":   d.Date,
				"name":   d.TaxName,
				"amount": d.Amount,
				"period": d.Period,
			}
		},
		build: func(v map[string]string) model.TaxPaymentDraft {
			return model.TaxPaymentDraft{
				Date:    v["date"],
				TaxName: v["name"],
				Amount:  v["amount"],
				Period:  v["period"],
			}
		},
		create: func(d model.TaxPaymentDraft) store.Command { return store.CreateTaxPayment{Draft: d} },
		update: func(id string, d model.TaxPaymentDraft) store.Command {
			return store.UpdateTaxPayment{ID: id, Draft: d}
		},
		remove: func(id string, confirmed bool) store.Command {
			return store.DeleteTaxPayment{ID: id, Confirmed: confirmed}
		},
	}.command()
}

func costsCmd() *cobra.Command {
	return recordKind[model.FixedCostDraft, model.FixedCost]{
		use:     "costs",
		aliases: []string{"fixed-costs"},
		noun:    "fixed cost",
		fields: []field{
			{flag: "description", prompt: "Description", usage: "what the cost is"},
			{flag: "total", prompt: "Monthly amount (R$)", usage: "monthly amount"},
			{flag: "business-share", prompt: "Business share (0 to 1)", usage: "share paid by the business, 0 to 1"},
			{flag: "category", prompt: "Category", usage: "category"},
			{flag: "end", prompt: "End date (YYYY-MM-DD, blank if ongoing)", usage: "end date, YYYY-MM-DD"},
		},
		list:   func(st store.State) []model.FixedCost { return st.FixedCosts },
		render: cli.RenderFixedCosts,
		lookup: (*store.Store).FixedCost,
		draft:  model.FixedCost.Draft,
		values: func(d model.FixedCostDraft) map[string]string {
			return map[string]string{
				"description":    d.Description,
				"total":          d.TotalAmount,
				"business-share": d.BusinessPercentage,
				"category":       d.Category,
				"end":            d.EndDate,
			}
		},
		build: func(v map[string]string) model.FixedCostDraft {
			return model.FixedCostDraft{
				Description:        v["description"],
				TotalAmount:        v["total"],
				BusinessPercentage: v["business-share"],
				Category:           v["category"],
				EndDate:            v["end"],
			}
		},
		create: func(d model.FixedCostDraft) store.Command { return store.CreateFixedCost{Draft: d} },
		update: func(id string, d model.FixedCostDraft) store.Command {
			return store.UpdateFixedCost{ID: id, Draft: d}
		},
		remove: func(id string, confirmed bool) store.Command {
			return store.DeleteFixedCost{ID: id, Confirmed: confirmed}
		},
	}.command()
}
