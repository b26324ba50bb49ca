package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/JoeShih716/go-audit-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-audit-ledger/internal/app/core/usecase"
)

// CSVReporter 每個 (客戶, 帳戶) 一列
type CSVReporter struct {
	Path string
	Out  io.Writer
	// IncludeHeader 在欄位列之前輸出交易數與總資產
	IncludeHeader bool
}

func (r *CSVReporter) Report(ctx context.Context, snapshot *domain.Snapshot) error {
	return writeTo(r.Path, r.Out, func(w io.Writer) error {
		return r.Write(w, snapshot)
	})
}

// Write writes the snapshot in CSV format to the given writer.
func (r *CSVReporter) Write(out io.Writer, snapshot *domain.Snapshot) error {
	writer := csv.NewWriter(out)

	if r.IncludeHeader {
		writer.Write([]string{"# Transactions", strconv.FormatUint(snapshot.TransactionCount, 10)})
		writer.Write([]string{"# Total Assets", snapshot.TotalTender.String()})
	}

	header := []string{"CustomerID", "Name", "Slot", "AccountID", "Type", "Balance", "APR", "Linked"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, customer := range snapshot.Customers {
		id := strconv.FormatUint(uint64(customer.ID), 10)
		if len(customer.Accounts) == 0 {
			row := []string{id, customer.Name, "", "", "--", "", "", "--"}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
			continue
		}
		for _, account := range customer.Accounts {
			row := []string{
				id,
				customer.Name,
				account.Slot.String(),
				strconv.FormatUint(uint64(account.AccountID), 10),
				account.Kind.String(),
				account.Balance.String(),
				account.APR.String(),
				account.Linked,
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

var _ usecase.Reporter = (*CSVReporter)(nil)
