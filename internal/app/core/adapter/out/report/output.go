package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/JoeShih716/go-audit-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-audit-ledger/internal/app/core/usecase"
)

// 報表格式
const (
	FormatText = "text"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// New 依格式建立 Reporter
//
// 參數:
//
//	format: text / csv / json
//	path: 輸出檔案路徑，空字串時寫到 out
//	out: 預設輸出 (通常是 os.Stdout)
//
// 回傳:
//
//	usecase.Reporter: 報表輸出器
//	error: 格式不支援時回傳 domain.ErrUnsupportedFormat
func New(format, path string, out io.Writer) (usecase.Reporter, error) {
	switch format {
	case FormatText, "":
		return &TextReporter{Path: path, Out: out}, nil
	case FormatCSV:
		return &CSVReporter{Path: path, Out: out, IncludeHeader: true}, nil
	case FormatJSON:
		return &JSONReporter{Path: path, Out: out}, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
}

// writeTo path 為空時直接寫到 out，否則建立檔案
func writeTo(path string, out io.Writer, fn func(io.Writer) error) error {
	if path == "" {
		return fn(out)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeAtomic 先寫入 path+".tmp" 再 rename，避免寫到一半的檔案被讀到
func writeAtomic(path string, fn func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
