// Package worker contains the mirror worker that copies locally saved
// expenses to the hosted Google Sheets ledger.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"paisa/internal/amqp"
	"paisa/internal/core"
	"paisa/internal/sheets"
	"paisa/internal/storage"
)

// SyncWorker mirrors expenses from the SQLite ledger to Google Sheets.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	sheets    sheets.ExpenseWriter
	batchSize int
}

func NewSyncWorker(st *storage.SQLiteRepository, writer sheets.ExpenseWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   st,
		sheets:    writer,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single expense sync message from AMQP.
// The message carries only the record ID; the row is always re-read from
// storage so a stale message can never mirror stale data.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.ExpenseSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID)

	expense, err := w.storage.GetExpense(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get expense from storage: %w", err)
	}

	if err := w.mirrorExpense(ctx, expense.ID, expense); err != nil {
		return fmt.Errorf("mirror expense: %w", err)
	}

	return nil
}

// ProcessPendingExpenses mirrors any expenses still marked pending. This
// is the backup path in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingExpenses(ctx context.Context) error {
	pending, err := w.storage.ListPendingSyncExpenses(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending expenses: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending expenses", "count", len(pending))

	for _, expense := range pending {
		if err := w.mirrorExpense(ctx, expense.ID, expense); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror expense",
				"id", expense.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck mirrors pending expenses at worker startup, recovering
// from missed messages or worker downtime. It scans a larger batch than
// the periodic pass.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.ListPendingSyncExpenses(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list pending expenses for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending expenses found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending expenses on startup, processing",
		"count", len(pending))

	synced := 0
	failed := 0
	for _, expense := range pending {
		if err := w.mirrorExpense(ctx, expense.ID, expense); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror expense during startup",
				"id", expense.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)

	return nil
}

func (w *SyncWorker) mirrorExpense(ctx context.Context, id string, expense core.Expense) error {
	ref, err := w.sheets.Append(ctx, expense)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		// The row is mirrored; only the local flag failed.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Mirrored expense to sheet",
		"id", id,
		"sheets_ref", ref,
		"amount_cents", expense.Amount.Cents)

	return nil
}
