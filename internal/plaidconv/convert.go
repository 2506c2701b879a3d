package plaidconv

import (
	"strings"
	"time"

	"github.com/plaid/plaid-go/v20/plaid"

	"github.com/ledgersift/ledgersift/internal/common"
	"github.com/ledgersift/ledgersift/internal/model"
)

// Convert maps one Plaid transaction into the import model. Plaid reports
// debits as positive amounts; the import model uses the statement
// convention where money out is negative, so the sign flips here.
func Convert(pt plaid.Transaction) model.ParsedTransaction {
	date, err := time.Parse("2006-01-02", pt.GetDate())
	if err != nil {
		common.LogError(err, "failed to parse Plaid transaction date", common.Fields{
			"date":           pt.GetDate(),
			"transaction_id": pt.GetTransactionId(),
		})
		date = time.Now()
	}

	merchantName := pt.GetMerchantName()
	if merchantName == "" {
		merchantName = pt.GetName()
	}
	merchantName = CleanMerchantName(merchantName)

	pfc := pt.GetPersonalFinanceCategory()
	primaryHint, detailedHint := MapCategory(pfc.GetPrimary(), pfc.GetDetailed(), merchantName, pt.GetName())

	txn := model.ParsedTransaction{
		Date:               date,
		TransactionID:      pt.GetTransactionId(),
		PlaidTransactionID: pt.GetTransactionId(),
		AccountID:          pt.GetAccountId(),
		Description:        pt.GetName(),
		MerchantName:       merchantName,
		CategoryHint:       primaryHint,
		DetailedHint:       detailedHint,
		PaymentChannel:     pt.GetPaymentChannel(),
		Source:             model.SourcePlaid,
		Amount:             -pt.GetAmount(),
		Confidence:         1.0,
	}
	txn.Hash = txn.GenerateHash()
	return txn
}

// Suffixes payment processors append to business names.
var merchantSuffixes = []string{
	" Llc", " Inc", " Corp", " Corporation", " Company", " Co", " Ltd", " Limited",
}

// CleanMerchantName standardizes a merchant name: title case, trailing
// transaction-ID digits removed, corporate suffixes stripped.
func CleanMerchantName(name string) string {
	words := strings.Fields(strings.ToLower(name))
	for i, word := range words {
		runes := []rune(word)
		for j := range runes {
			if j == 0 || !isLetter(runes[j-1]) {
				runes[j] = toUpper(runes[j])
			}
		}
		words[i] = string(runes)
	}

	// A trailing all-digit token longer than 5 chars is a processor
	// reference, not part of the name.
	if len(words) > 1 {
		last := words[len(words)-1]
		if len(last) > 5 && isAllDigits(last) {
			words = words[:len(words)-1]
		}
	}
	name = strings.Join(words, " ")

	changed := true
	for changed {
		changed = false
		for _, suffix := range merchantSuffixes {
			if strings.HasSuffix(name, suffix) {
				name = strings.TrimSuffix(name, suffix)
				changed = true
			}
		}
	}

	return strings.TrimSpace(name)
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 32
	}
	return r
}
