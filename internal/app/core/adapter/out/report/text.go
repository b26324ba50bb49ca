package report

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/JoeShih716/go-audit-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-audit-ledger/internal/app/core/usecase"
)

const maxNameWidth = 18

// TextReporter 輸出最終狀態表格
type TextReporter struct {
	Path string
	Out  io.Writer
}

func (r *TextReporter) Report(ctx context.Context, snapshot *domain.Snapshot) error {
	return writeTo(r.Path, r.Out, func(w io.Writer) error {
		return WriteText(w, snapshot)
	})
}

// WriteText 依客戶編號列出兩個帳戶的種類、餘額、利率與連結狀態
func WriteText(out io.Writer, snapshot *domain.Snapshot) error {
	fmt.Fprintf(out, "Final State (run %s)\n\n", snapshot.RunID)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tName\tType\tBalance\tAPR\tLinked\t|\tType\tBalance\tAPR\tLinked")
	for _, customer := range snapshot.Customers {
		fmt.Fprintf(tw, "%d\t%s", customer.ID, truncate(customer.Name, maxNameWidth))
		for _, slot := range []domain.Slot{domain.SlotPrimary, domain.SlotSecondary} {
			if slot == domain.SlotSecondary {
				fmt.Fprint(tw, "\t|")
			}
			account, ok := customer.Account(slot)
			if !ok {
				fmt.Fprint(tw, "\t--\t--\t--\t--")
				continue
			}
			fmt.Fprintf(tw, "\t%s\t%s\t%s\t%s",
				account.Kind, FormatPrice(account.Balance), FormatAPR(account.APR), account.Linked)
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nNumber of Transactions: %d\n", snapshot.TransactionCount)
	_, err := fmt.Fprintf(out, "Total Assets: %s\n", FormatCurrency(snapshot.TotalTender))
	return err
}

var _ usecase.Reporter = (*TextReporter)(nil)
