// Package sheets defines the outbound port for exporting transaction
// history to a spreadsheet.
package sheets

import (
	"context"

	"monetto/internal/core"
)

// TransactionAppender appends one transaction as a row and returns an
// implementation-specific row reference.
type TransactionAppender interface {
	Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
}
