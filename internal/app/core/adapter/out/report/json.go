package report

import (
	"context"
	"encoding/json"
	"io"

	"github.com/JoeShih716/go-audit-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-audit-ledger/internal/app/core/usecase"
)

// JSONReporter 將 Snapshot 輸出為 JSON
//
// 寫入檔案時採原子寫入 (tmp + rename)。
type JSONReporter struct {
	Path string
	Out  io.Writer
}

func (r *JSONReporter) Report(ctx context.Context, snapshot *domain.Snapshot) error {
	if r.Path == "" {
		return encodeJSON(r.Out, snapshot)
	}
	return writeAtomic(r.Path, func(w io.Writer) error {
		return encodeJSON(w, snapshot)
	})
}

func encodeJSON(w io.Writer, snapshot *domain.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snapshot)
}

var _ usecase.Reporter = (*JSONReporter)(nil)
