package domain

import "errors"

var (
	// ErrMalformedRecord 交易日誌格式錯誤
	ErrMalformedRecord = errors.New("malformed record")

	// ErrUnknownAction 不認得的交易代碼
	ErrUnknownAction = errors.New("unknown action")

	// ErrCustomerNotFound 找不到客戶
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrJournalWriteFailed 寫入稽核日誌失敗
	ErrJournalWriteFailed = errors.New("journal write failed")

	// ErrUnsupportedFormat 不支援的報表格式
	ErrUnsupportedFormat = errors.New("unsupported report format")
)
