package pipeline

import (
	"strings"

	"github.com/google/uuid"

	"github.com/ledgersift/ledgersift/internal/common"
	"github.com/ledgersift/ledgersift/internal/ingest"
	"github.com/ledgersift/ledgersift/internal/lineclass"
	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/ledgersift/ledgersift/internal/service"
	"github.com/ledgersift/ledgersift/internal/txtype"
)

// columnMap locates the transaction fields in a tabular export's header
// row. Index -1 means the column was not found.
type columnMap struct {
	date        int
	description int
	amount      int
	debit       int
	credit      int
	merchant    int
}

// usable reports whether the header row carries enough structure to parse
// rows directly instead of falling back to line classification.
func (m columnMap) usable() bool {
	return m.date >= 0 && m.description >= 0 && (m.amount >= 0 || m.debit >= 0 || m.credit >= 0)
}

func mapColumns(headers []string) columnMap {
	m := columnMap{date: -1, description: -1, amount: -1, debit: -1, credit: -1, merchant: -1}
	for i, header := range headers {
		lower := strings.ToLower(strings.TrimSpace(header))
		switch {
		case m.date < 0 && (strings.Contains(lower, "date") || strings.Contains(lower, "posted")):
			m.date = i
		case m.debit < 0 && strings.Contains(lower, "debit"):
			m.debit = i
		case m.credit < 0 && strings.Contains(lower, "credit") && !strings.Contains(lower, "card"):
			m.credit = i
		case m.amount < 0 && strings.Contains(lower, "amount"):
			m.amount = i
		case m.merchant < 0 && strings.Contains(lower, "merchant"):
			m.merchant = i
		case m.description < 0 && (strings.Contains(lower, "description") ||
			strings.Contains(lower, "memo") || strings.Contains(lower, "details") ||
			strings.Contains(lower, "payee") || lower == "name" || lower == "transaction"):
			m.description = i
		}
	}
	return m
}

// extractFromRows parses CSV/Excel data rows. Exports with recognizable
// columns are parsed directly; anything else is joined back into a line
// and pushed through the line classifier.
func (p *Pipeline) extractFromRows(doc *ingest.Document, account *model.DetectedAccount, stats *service.ImportStats) []model.ParsedTransaction {
	columns := mapColumns(doc.Headers)
	year := p.inferredYear()

	var txns []model.ParsedTransaction
	for _, row := range doc.Rows {
		stats.TotalLines++

		var txn model.ParsedTransaction
		var ok bool
		if columns.usable() {
			txn, ok = p.parseRow(row, columns, account, doc.Source, year)
		} else {
			line := strings.TrimSpace(strings.Join(row, " "))
			match := p.classifier.Classify(line, year, p.cfg.DateFirst)
			if !match.Matched {
				continue
			}
			txn, ok = p.buildTransaction(match, account, doc.Source)
		}

		if !ok {
			stats.SkippedCount++
			continue
		}
		txns = append(txns, txn)
	}
	return txns
}

// parseRow builds a transaction from mapped columns. Split debit/credit
// columns already encode direction, so the credit-card sign reversal only
// applies to single signed amount columns.
func (p *Pipeline) parseRow(row []string, columns columnMap, account *model.DetectedAccount, source model.TransactionSource, year int) (model.ParsedTransaction, bool) {
	date, err := lineclass.ParseDate(cell(row, columns.date), year, p.cfg.DateFirst)
	if err != nil {
		return model.ParsedTransaction{}, false
	}

	description := strings.TrimSpace(cell(row, columns.description))
	if description == "" {
		return model.ParsedTransaction{}, false
	}

	var amount float64
	var indicator string
	switch {
	case columns.amount >= 0 && strings.TrimSpace(cell(row, columns.amount)) != "":
		raw, parseErr := lineclass.ParseAmount(cell(row, columns.amount))
		if parseErr != nil {
			return model.ParsedTransaction{}, false
		}
		amount = txtype.NormalizeStatementAmount(account, raw)
	case columns.debit >= 0 && strings.TrimSpace(cell(row, columns.debit)) != "":
		raw, parseErr := lineclass.ParseAmount(cell(row, columns.debit))
		if parseErr != nil {
			return model.ParsedTransaction{}, false
		}
		amount = -abs(raw)
		indicator = "DEBIT"
	case columns.credit >= 0 && strings.TrimSpace(cell(row, columns.credit)) != "":
		raw, parseErr := lineclass.ParseAmount(cell(row, columns.credit))
		if parseErr != nil {
			return model.ParsedTransaction{}, false
		}
		amount = abs(raw)
		indicator = "CREDIT"
	default:
		return model.ParsedTransaction{}, false
	}

	if amount == 0 {
		common.LogDebug("skipping zero-amount row", common.Fields{
			"description": description,
		})
		return model.ParsedTransaction{}, false
	}

	txn := model.ParsedTransaction{
		Date:                 date,
		TransactionID:        uuid.NewString(),
		AccountID:            account.AccountNumber,
		Description:          description,
		MerchantName:         strings.TrimSpace(cell(row, columns.merchant)),
		Amount:               amount,
		DebitCreditIndicator: indicator,
		Source:               source,
		Confidence:           1.0,
	}
	txn.Hash = txn.GenerateHash()
	return txn, true
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
