package sheets

import (
	"time"

	"github.com/ledgersift/ledgersift/internal/model"
)

// ClassifiedTransaction pairs a stored transaction with its
// classification results for export.
type ClassifiedTransaction struct {
	Transaction model.ParsedTransaction
	Category    model.CategoryResult
	Type        *model.TypeResult
}

// Report holds everything the writer exports to one spreadsheet.
type Report struct {
	DateRange    DateRange
	Transactions []ClassifiedTransaction
	// ByCategory sums amounts per primary category.
	ByCategory map[string]float64
}

// DateRange is the period the report covers.
type DateRange struct {
	Start time.Time
	End   time.Time
}
