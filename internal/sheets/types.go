package sheets

import (
	"context"
	"time"

	"github.com/Veraticus/finanhome/internal/engine"
	"github.com/Veraticus/finanhome/internal/model"
)

// Tab names written by the exporter.
const (
	SummaryTab      = "Summary"
	TransactionsTab = "Transactions"
)

// Report is everything one export writes.
type Report struct {
	GeneratedAt  time.Time
	Dashboard    engine.Dashboard
	Transactions []model.Transaction
}

// Exporter writes a report somewhere and returns the spreadsheet id.
type Exporter interface {
	Export(ctx context.Context, report Report) (string, error)
}
