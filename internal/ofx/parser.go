// Package ofx turns OFX/QFX bank and credit card statements into transaction
// drafts for the record store.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/Veraticus/finanhome/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Options control how statement lines become drafts.
type Options struct {
	// Nature applied to every imported line; empty means BUSINESS.
	Nature string
	// Category overrides the per-type default when set.
	Category string
}

// Parser implements OFX/QFX file parsing.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new OFX parser.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// Severity must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML files sometimes drop the closing bracket of bare tags.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseFile parses a statement and returns one draft per distinct FITID.
// Debits (negative amounts) become EXPENSE, credits INCOME.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader, opts Options) ([]model.TransactionDraft, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var drafts []model.TransactionDraft
	var bankStmts, ccStmts int

	add := func(list *ofxgo.TransactionList) {
		if list == nil {
			return
		}
		for _, tx := range list.Transactions {
			if ctx.Err() != nil {
				return
			}
			if id := string(tx.FiTID); id != "" {
				if seen[id] {
					continue
				}
				seen[id] = true
			}
			drafts = append(drafts, p.convertTransaction(tx, opts))
		}
	}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			add(stmt.BankTranList)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			add(stmt.BankTranList)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.logger.Info("Parsed OFX file",
		"transactions", len(drafts),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return drafts, nil
}

// convertTransaction maps one statement line to a draft.
func (p *Parser) convertTransaction(tx ofxgo.Transaction, opts Options) model.TransactionDraft {
	amount, err := decimal.NewFromString(tx.TrnAmt.FloatString(2))
	if err != nil {
		amount = decimal.Zero
	}

	txType := model.TypeIncome
	if amount.IsNegative() {
		txType = model.TypeExpense
	}

	category := opts.Category
	if category == "" {
		category = defaultCategory(tx.TrnType, txType)
	}

	return model.TransactionDraft{
		Date:        tx.DtPosted.Time.Format(model.DateLayout),
		Description: extractDescription(tx),
		Amount:      amount.Abs().StringFixed(2),
		Category:    category,
		Type:        string(txType),
		Nature:      opts.Nature,
	}
}

func defaultCategory(trnType any, txType model.TransactionType) string {
	switch trnType {
	case ofxgo.TrnTypeInt, ofxgo.TrnTypeDiv:
		return "Rendimentos"
	case ofxgo.TrnTypeFee, ofxgo.TrnTypeSrvChg:
		return "Tarifas"
	case ofxgo.TrnTypeATM, ofxgo.TrnTypeCash:
		return "Saque"
	}
	if txType == model.TypeIncome {
		return model.DefaultIncomeCategory
	}
	return "Importado"
}

// genericNames are statement labels that say nothing about the counterparty.
var genericNames = map[string]bool{
	"DEBITO":    true,
	"CREDITO":   true,
	"DEBIT":     true,
	"CREDIT":    true,
	"PAGAMENTO": true,
	"PAYMENT":   true,
	"COMPRA":    true,
}

var descriptionPrefixes = []string{
	"COMPRA CARTAO DEB ",
	"COMPRA COM CARTAO ",
	"COMPRA CARTAO ",
	"PAGTO ",
	"POS PURCHASE ",
	"DEBIT CARD PURCHASE ",
}

// extractDescription picks the most informative text on the line.
func extractDescription(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && (name == "" || genericNames[strings.ToUpper(name)]) {
		name = strings.TrimSpace(string(tx.Memo))
	}

	for _, prefix := range descriptionPrefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = strings.TrimSpace(name[len(prefix):])
			break
		}
	}

	// Leading "DD/MM " card dates.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	if name == "" {
		name = tx.TrnType.String()
	}
	return name
}

// Accounts lists the account ids present in a statement.
func (p *Parser) Accounts(_ context.Context, reader io.Reader) ([]string, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	accountMap := make(map[string]bool)
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankAcctFrom.AcctID != "" {
			accountMap[string(stmt.BankAcctFrom.AcctID)] = true
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.CCAcctFrom.AcctID != "" {
			accountMap[string(stmt.CCAcctFrom.AcctID)] = true
		}
	}

	accounts := make([]string, 0, len(accountMap))
	for acct := range accountMap {
		accounts = append(accounts, acct)
	}
	sort.Strings(accounts)
	return accounts, nil
}
