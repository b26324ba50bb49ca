package logfile

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-audit-ledger/internal/app/core/domain"
)

// minFields 每種交易至少需要的欄位數 (包含交易代碼)
var minFields = map[domain.Action]int{
	domain.ActionAddCustomer:   3, // A <id> <name>
	domain.ActionRename:        3, // N <id> <name>
	domain.ActionAddChecking:   3, // C <id> <apr>
	domain.ActionAddSavings:    3, // S <id> <apr>
	domain.ActionPrimeRate:     2, // P <rate> 或 P <id> <rate>
	domain.ActionLinkAccount:   4, // L <id> <originId> <originSlot>
	domain.ActionDeposit:       4, // D <id> <slot> <amount>
	domain.ActionWithdraw:      4, // W <id> <slot> <amount>
	domain.ActionChangeRate:    4, // R <id> <slot> <apr>
	domain.ActionDeleteAccount: 3, // Y <id> <slot>
	domain.ActionTransfer:      6, // X <id> <slot> <amount> <otherId> <otherSlot>
	domain.ActionCheck:         8, // K <id> <slot> <checkNo> <amount> <recipientId> <recipientSlot> <payee>
	domain.ActionSwap:          2, // E <id>
	domain.ActionMonthEnd:      1, // M
}

// byteOrderMark 部分編輯器存檔時會加在檔案開頭
const byteOrderMark = "\ufeff"

// trimLine 回傳 "" 代表此行應略過
//
// 空行、註解 (#) 以及第一個字元不是英數字的行都不處理。
func trimLine(line string) string {
	line = strings.TrimPrefix(line, byteOrderMark)
	r, _ := utf8.DecodeRuneInString(line)
	if r == utf8.RuneError || (!unicode.IsLetter(r) && !unicode.IsDigit(r)) {
		return ""
	}
	return line
}

// ParseLine 解析一行交易日誌
//
// 參數:
//
//	line: 已去除行首雜訊的一行
//	allowUnknown: 為 true 時不認得的交易代碼會原樣回傳，交由 Ledger 判定
//
// 回傳:
//
//	*domain.Record: 解析結果 (Line 由呼叫端填入)
//	error: 格式錯誤，包裝 domain.ErrMalformedRecord 或 domain.ErrUnknownAction
func ParseLine(line string, allowUnknown bool) (*domain.Record, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty line", domain.ErrMalformedRecord)
	}
	for i := range fields {
		fields[i] = strings.ReplaceAll(fields[i], "_", " ")
	}
	if len(fields[0]) != 1 {
		return nil, fmt.Errorf("%w: action %q must be a single letter", domain.ErrMalformedRecord, fields[0])
	}

	rec := &domain.Record{Action: domain.Action(fields[0][0])}
	want, ok := minFields[rec.Action]
	if !ok {
		if !allowUnknown {
			return nil, fmt.Errorf("%w: %w %q", domain.ErrMalformedRecord, domain.ErrUnknownAction, fields[0])
		}
		return rec, nil
	}
	if len(fields) < want {
		return nil, fmt.Errorf("%w: action %s needs %d fields, got %d",
			domain.ErrMalformedRecord, rec.Action, want, len(fields))
	}

	p := fieldParser{fields: fields}
	switch rec.Action {
	case domain.ActionAddCustomer, domain.ActionRename:
		rec.CustomerID = p.id(1)
		rec.Name = fields[2]
	case domain.ActionAddChecking, domain.ActionAddSavings:
		rec.CustomerID = p.id(1)
		rec.Rate = p.decimal(2)
	case domain.ActionPrimeRate:
		// 舊格式 P <id> <rate> 的 id 只是佔位
		if len(fields) >= 3 {
			rec.Rate = p.decimal(2)
		} else {
			rec.Rate = p.decimal(1)
		}
	case domain.ActionLinkAccount:
		rec.CustomerID = p.id(1)
		rec.OtherCustomerID = p.id(2)
		rec.OtherSlot = p.slot(3)
	case domain.ActionDeposit, domain.ActionWithdraw:
		rec.CustomerID = p.id(1)
		rec.Slot = p.slot(2)
		rec.Amount = p.decimal(3)
	case domain.ActionChangeRate:
		rec.CustomerID = p.id(1)
		rec.Slot = p.slot(2)
		rec.Rate = p.decimal(3)
	case domain.ActionDeleteAccount:
		rec.CustomerID = p.id(1)
		rec.Slot = p.slot(2)
	case domain.ActionTransfer:
		rec.CustomerID = p.id(1)
		rec.Slot = p.slot(2)
		rec.Amount = p.decimal(3)
		rec.OtherCustomerID = p.id(4)
		rec.OtherSlot = p.slot(5)
	case domain.ActionCheck:
		rec.CustomerID = p.id(1)
		rec.Slot = p.slot(2)
		rec.CheckNumber = p.id(3)
		rec.Amount = p.decimal(4)
		rec.OtherCustomerID = p.id(5)
		rec.OtherSlot = p.slot(6)
		rec.Name = fields[7]
	case domain.ActionSwap:
		rec.CustomerID = p.id(1)
	case domain.ActionMonthEnd:
	}
	if p.err != nil {
		return nil, fmt.Errorf("%w: action %s: %v", domain.ErrMalformedRecord, rec.Action, p.err)
	}
	return rec, nil
}

// fieldParser 記住第一個錯誤，避免每個欄位都要檢查 err
type fieldParser struct {
	fields []string
	err    error
}

func (p *fieldParser) id(i int) uint {
	if p.err != nil {
		return 0
	}
	n, err := strconv.ParseUint(p.fields[i], 10, 32)
	if err != nil {
		p.err = fmt.Errorf("field %d: invalid id %q", i, p.fields[i])
		return 0
	}
	return uint(n)
}

// slot 0 代表主帳戶，其他數字都代表副帳戶
func (p *fieldParser) slot(i int) domain.Slot {
	if p.err != nil {
		return domain.SlotPrimary
	}
	n, err := strconv.Atoi(p.fields[i])
	if err != nil {
		p.err = fmt.Errorf("field %d: invalid slot %q", i, p.fields[i])
		return domain.SlotPrimary
	}
	if n == 0 {
		return domain.SlotPrimary
	}
	return domain.SlotSecondary
}

func (p *fieldParser) decimal(i int) decimal.Decimal {
	if p.err != nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(p.fields[i])
	if err != nil {
		p.err = fmt.Errorf("field %d: invalid number %q", i, p.fields[i])
		return decimal.Zero
	}
	return d
}
