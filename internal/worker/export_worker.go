// Package worker consumes transaction export messages and appends the
// referenced transactions to a spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"monetto/internal/amqp"
	"monetto/internal/sheets"
	"monetto/internal/storage"
)

type ExportWorker struct {
	store *storage.Store
	sheet sheets.TransactionAppender
}

func NewExportWorker(store *storage.Store, sheet sheets.TransactionAppender) *ExportWorker {
	return &ExportWorker{store: store, sheet: sheet}
}

// HandleExportMessage processes a single export message. A transaction that
// no longer exists is logged and dropped rather than requeued forever.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.TransactionExportMessage) error {
	t, err := w.store.TransactionByID(ctx, msg.ID)
	if errors.Is(err, storage.ErrTransactionNotFound) {
		slog.WarnContext(ctx, "Transaction for export no longer exists, dropping message", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load transaction %d: %w", msg.ID, err)
	}

	if w.sheet == nil {
		slog.WarnContext(ctx, "No spreadsheet configured, skipping export", "id", msg.ID)
		return nil
	}

	ref, err := w.sheet.Append(ctx, t)
	if err != nil {
		return fmt.Errorf("export transaction %d: %w", msg.ID, err)
	}

	slog.InfoContext(ctx, "Transaction exported",
		"id", msg.ID,
		"row_ref", ref,
		"category", t.Category)
	return nil
}
