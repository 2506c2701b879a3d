package ingest

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/ledgersift/ledgersift/internal/common"
	"github.com/ledgersift/ledgersift/internal/model"
)

var (
	severityRe = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	openTagRe  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocessOFX fixes common formatting issues in bank-produced OFX
// files: leading blank lines, mixed-case SEVERITY values, and SGML-style
// tags missing their closing bracket.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRe.ReplaceAllStringFunc(content, strings.ToUpper)
	content = openTagRe.ReplaceAllString(content, "$1>")
	return content
}

// readOFX parses an OFX/QFX download into structured transactions.
func readOFX(_ context.Context, r io.Reader, doc *Document) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return fmt.Errorf("failed to parse OFX file: %w", err)
	}

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		accountID := string(stmt.BankAcctFrom.AcctID)
		for _, ofxTx := range stmt.BankTranList.Transactions {
			doc.Transactions = append(doc.Transactions, convertOFXTransaction(ofxTx, accountID))
		}
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		accountID := string(stmt.CCAcctFrom.AcctID)
		for _, ofxTx := range stmt.BankTranList.Transactions {
			doc.Transactions = append(doc.Transactions, convertOFXTransaction(ofxTx, accountID))
		}
	}

	if len(doc.Transactions) == 0 {
		common.LogDebug("OFX file contained no transactions", common.Fields{
			"filename": doc.Filename,
		})
	}
	return nil
}

// convertOFXTransaction maps one OFX transaction into the import model.
// OFX amounts already carry the right sign (negative debits).
func convertOFXTransaction(ofxTx ofxgo.Transaction, accountID string) model.ParsedTransaction {
	amount, _ := ofxTx.TrnAmt.Float64()

	txn := model.ParsedTransaction{
		TransactionID:        string(ofxTx.FiTID),
		Date:                 ofxTx.DtPosted.Time,
		Description:          string(ofxTx.Name),
		MerchantName:         extractOFXMerchant(ofxTx),
		Amount:               amount,
		AccountID:            accountID,
		DebitCreditIndicator: fmt.Sprintf("%v", ofxTx.TrnType),
		Source:               model.SourceOFX,
		Confidence:           1.0,
	}

	// OFX doesn't carry categories, but the transaction type implies a
	// few with certainty.
	switch txn.DebitCreditIndicator {
	case "INT":
		txn.CategoryHint = "income"
		txn.DetailedHint = "interest"
	case "FEE", "SRVCHG":
		txn.CategoryHint = "fees"
	case "ATM":
		txn.CategoryHint = "cash"
	case "DIRECTDEP":
		txn.CategoryHint = "income"
		txn.DetailedHint = "salary"
	}

	txn.Hash = txn.GenerateHash()
	return txn
}

// Prefixes that card networks prepend to merchant names.
var ofxMerchantPrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
}

// extractOFXMerchant tries to get a clean merchant name from OFX data.
func extractOFXMerchant(tx ofxgo.Transaction) string {
	// PAYEE, when present, is the cleanest name.
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericOFXName(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	for _, prefix := range ofxMerchantPrefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Strip a leading "MM/DD " date fragment.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericOFXName checks if a transaction name is too generic to be a
// merchant.
func isGenericOFXName(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
