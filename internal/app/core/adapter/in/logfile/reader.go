package logfile

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/JoeShih716/go-audit-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-audit-ledger/internal/app/core/usecase"
)

// Option 設定 Reader
type Option func(*Reader)

// WithAllowUnknownActions 不認得的交易代碼交由 Ledger 處理，而不是視為格式錯誤
func WithAllowUnknownActions(allow bool) Option {
	return func(r *Reader) {
		r.allowUnknown = allow
	}
}

// Reader 依序讀取交易日誌，實作 usecase.LogSource
type Reader struct {
	scanner      *bufio.Scanner
	line         int
	allowUnknown bool
}

func NewReader(r io.Reader, opts ...Option) *Reader {
	reader := &Reader{
		scanner: bufio.NewScanner(r),
	}
	for _, opt := range opts {
		opt(reader)
	}
	return reader
}

// Next 回傳下一筆交易，讀完時回傳 io.EOF
func (r *Reader) Next(ctx context.Context) (*domain.Record, error) {
	for r.scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.line++
		text := trimLine(r.scanner.Text())
		if text == "" {
			continue
		}
		rec, err := ParseLine(text, r.allowUnknown)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}
		rec.Line = r.line
		return rec, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

var _ usecase.LogSource = (*Reader)(nil)
