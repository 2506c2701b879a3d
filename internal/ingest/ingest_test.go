package ingest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgersift/ledgersift/internal/common"
	"github.com/ledgersift/ledgersift/internal/model"
)

func TestDetectSource(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected model.TransactionSource
		wantErr  bool
	}{
		{name: "csv", filename: "chase_export.csv", expected: model.SourceCSV},
		{name: "txt treated as csv", filename: "statement.txt", expected: model.SourceCSV},
		{name: "xlsx", filename: "Transactions.XLSX", expected: model.SourceExcel},
		{name: "legacy xls", filename: "old.xls", expected: model.SourceExcel},
		{name: "pdf", filename: "statement_jan.pdf", expected: model.SourcePDF},
		{name: "ofx", filename: "download.ofx", expected: model.SourceOFX},
		{name: "qfx treated as ofx", filename: "download.QFX", expected: model.SourceOFX},
		{name: "unsupported", filename: "notes.docx", wantErr: true},
		{name: "no extension", filename: "statement", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, err := DetectSource(tt.filename)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, source)
		})
	}
}

func TestReadCSV(t *testing.T) {
	t.Run("headers and rows", func(t *testing.T) {
		input := "Date,Description,Amount\n" +
			"01/15/2024,STARBUCKS STORE #1234,-25.50\n" +
			"01/20/2024,\"Whole Foods, Market\",-125.00\n"

		doc := &Document{Filename: "export.csv", Source: model.SourceCSV}
		require.NoError(t, readCSV(strings.NewReader(input), doc))

		assert.Equal(t, []string{"Date", "Description", "Amount"}, doc.Headers)
		require.Len(t, doc.Rows, 2)
		assert.Equal(t, "Whole Foods, Market", doc.Rows[1][1])
	})

	t.Run("metadata comment rows", func(t *testing.T) {
		input := "# Account Number,****2222\n" +
			"# Institution,Chase\n" +
			"Date,Description,Amount\n" +
			"01/15/2024,COFFEE,-4.50\n"

		doc := &Document{Filename: "export.csv", Source: model.SourceCSV}
		require.NoError(t, readCSV(strings.NewReader(input), doc))

		assert.Equal(t, "****2222", doc.Metadata["account_number"])
		assert.Equal(t, "Chase", doc.Metadata["institution"])
		assert.Equal(t, []string{"Date", "Description", "Amount"}, doc.Headers)
		assert.Len(t, doc.Rows, 1)
	})

	t.Run("skips blank rows and tolerates ragged rows", func(t *testing.T) {
		input := "Date,Description,Amount\n" +
			",,\n" +
			"01/15/2024,COFFEE,-4.50,extra\n"

		doc := &Document{Filename: "export.csv", Source: model.SourceCSV}
		require.NoError(t, readCSV(strings.NewReader(input), doc))

		require.Len(t, doc.Rows, 1)
		assert.Len(t, doc.Rows[0], 4)
	})

	t.Run("empty file", func(t *testing.T) {
		doc := &Document{Filename: "empty.csv", Source: model.SourceCSV}
		err := readCSV(strings.NewReader(""), doc)
		assert.ErrorIs(t, err, common.ErrEmptyDocument)
	})
}

const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>INT
<DTPOSTED>20240131120000[0:GMT]
<TRNAMT>1.23
<FITID>2024013101
<NAME>INTEREST PAYMENT
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM*RT4Y7HG2
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestReadOFX_BankStatement(t *testing.T) {
	doc := &Document{Filename: "bank.ofx", Source: model.SourceOFX}
	require.NoError(t, readOFX(context.Background(), strings.NewReader(sampleBankOFX), doc))
	require.Len(t, doc.Transactions, 2)

	tx1 := doc.Transactions[0]
	assert.Equal(t, "2024011501", tx1.TransactionID)
	assert.Equal(t, "STARBUCKS STORE #1234", tx1.Description)
	assert.Equal(t, "STARBUCKS STORE #1234", tx1.MerchantName)
	assert.InDelta(t, -25.50, tx1.Amount, 0.001) // debits keep their sign
	assert.Equal(t, "1234567890", tx1.AccountID)
	assert.Equal(t, model.SourceOFX, tx1.Source)
	assert.NotEmpty(t, tx1.Hash)
	assert.Equal(t, 2024, tx1.Date.Year())
	assert.Equal(t, time.January, tx1.Date.Month())
	assert.Equal(t, 15, tx1.Date.Day())
	assert.Empty(t, tx1.CategoryHint)

	tx2 := doc.Transactions[1]
	assert.InDelta(t, 1.23, tx2.Amount, 0.001)
	assert.Equal(t, "income", tx2.CategoryHint)
	assert.Equal(t, "interest", tx2.DetailedHint)
}

func TestReadOFX_CreditCardStatement(t *testing.T) {
	doc := &Document{Filename: "card.qfx", Source: model.SourceOFX}
	require.NoError(t, readOFX(context.Background(), strings.NewReader(sampleCreditCardOFX), doc))
	require.Len(t, doc.Transactions, 1)

	tx := doc.Transactions[0]
	assert.Equal(t, "CC2024011001", tx.TransactionID)
	assert.Equal(t, "AMAZON.COM*RT4Y7HG2", tx.Description)
	assert.InDelta(t, -45.99, tx.Amount, 0.001)
	assert.Equal(t, "4111111111111111", tx.AccountID)
}

func TestReadOFX_InvalidData(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not OFX", data: "not valid OFX"},
		{name: "empty", data: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{Filename: "bad.ofx", Source: model.SourceOFX}
			assert.Error(t, readOFX(context.Background(), strings.NewReader(tt.data), doc))
		})
	}
}

func TestPreprocessOFX(t *testing.T) {
	t.Run("uppercases severity values", func(t *testing.T) {
		out := preprocessOFX("<SEVERITY>Info</SEVERITY>")
		assert.Equal(t, "<SEVERITY>INFO</SEVERITY>", out)
	})

	t.Run("closes unterminated tags", func(t *testing.T) {
		out := preprocessOFX("<STMTTRN\n<TRNTYPE>DEBIT")
		assert.Equal(t, "<STMTTRN>\n<TRNTYPE>DEBIT", out)
	})

	t.Run("trims leading whitespace", func(t *testing.T) {
		out := preprocessOFX("\r\n  OFXHEADER:100")
		assert.Equal(t, "OFXHEADER:100", out)
	})
}

func TestExtractOFXMerchant(t *testing.T) {
	tests := []struct {
		name     string
		tx       ofxgo.Transaction
		expected string
	}{
		{
			name:     "strips POS prefix",
			tx:       ofxgo.Transaction{Name: "POS PURCHASE STARBUCKS"},
			expected: "STARBUCKS",
		},
		{
			name:     "strips debit card prefix",
			tx:       ofxgo.Transaction{Name: "DEBIT CARD PURCHASE WHOLE FOODS"},
			expected: "WHOLE FOODS",
		},
		{
			name:     "strips leading date fragment",
			tx:       ofxgo.Transaction{Name: "01/15 TRADER JOES"},
			expected: "TRADER JOES",
		},
		{
			name:     "clean name unchanged",
			tx:       ofxgo.Transaction{Name: "NETFLIX.COM"},
			expected: "NETFLIX.COM",
		},
		{
			name:     "payee preferred over name",
			tx:       ofxgo.Transaction{Name: "DEBIT", Payee: &ofxgo.Payee{Name: "Trader Joes #42"}},
			expected: "Trader Joes #42",
		},
		{
			name:     "memo replaces generic name",
			tx:       ofxgo.Transaction{Name: "PURCHASE", Memo: "COSTCO WHOLESALE"},
			expected: "COSTCO WHOLESALE",
		},
		{
			name:     "memo ignored for specific name",
			tx:       ofxgo.Transaction{Name: "COSTCO WHOLESALE", Memo: "card ending 1234"},
			expected: "COSTCO WHOLESALE",
		},
		{
			name:     "trims whitespace",
			tx:       ofxgo.Transaction{Name: "  AMAZON.COM  "},
			expected: "AMAZON.COM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractOFXMerchant(tt.tx))
		})
	}
}
