package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-audit-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-audit-ledger/internal/app/core/usecase"
)

// Journal 稽核日誌的寫入端 (pkg/journal 實作)
type Journal interface {
	Write(v any) error
}

// Bank 記憶體內的帳本
//
// 結構:
//
//	customers: 客戶 Map
//	registry: 所有帳戶的集中存放處
//	primeRate: 基準利率
//	transactionCount: 已計入的交易數 (不認得的交易不計)
//	journal: 稽核日誌，可為 nil
type Bank struct {
	mu               sync.Mutex
	customers        map[uint]*domain.Customer
	registry         *domain.Registry
	primeRate        decimal.Decimal
	transactionCount uint64
	runID            uuid.UUID

	journal Journal
	logger  *slog.Logger
	now     func() time.Time
}

// NewBank 建立一個空的帳本
//
// 參數:
//
//	journal: 稽核日誌 (可為 nil)
//	logger: 結構化日誌 (nil 時使用 slog.Default)
func NewBank(journal Journal, logger *slog.Logger) *Bank {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bank{
		customers: make(map[uint]*domain.Customer),
		registry:  domain.NewRegistry(),
		primeRate: decimal.Zero,
		runID:     uuid.New(),
		journal:   journal,
		logger:    logger,
		now:       time.Now,
	}
}

// PostTransaction 處理單筆交易
//
// 參數:
//
//	ctx: 上下文
//	rec: 交易紀錄，Sequence 與 TransactionID 由此處分配
//
// 回傳:
//
//	domain.Outcome: 處理結果
//	error: 稽核日誌寫入失敗
func (m *Bank) PostTransaction(ctx context.Context, rec *domain.Record) (domain.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !rec.Action.Known() {
		m.logger.Warn("unrecognized transaction",
			"line", rec.Line,
			"action", rec.Action.String(),
		)
		return domain.OutcomeUnrecognized, nil
	}

	m.transactionCount++
	rec.Sequence = m.transactionCount
	if rec.TransactionID == uuid.Nil {
		rec.TransactionID = uuid.New()
	}

	outcome := m.dispatch(rec)
	if outcome != domain.OutcomeApplied {
		m.logger.Debug("transaction not applied",
			"sequence", rec.Sequence,
			"line", rec.Line,
			"action", rec.Action.String(),
			"customer_id", rec.CustomerID,
			"outcome", outcome.String(),
		)
	}

	if m.journal != nil {
		if err := m.journal.Write(domain.NewJournalEntry(rec, outcome)); err != nil {
			return outcome, fmt.Errorf("%w: %v", domain.ErrJournalWriteFailed, err)
		}
	}
	return outcome, nil
}

// dispatch 核心交易分發
func (m *Bank) dispatch(rec *domain.Record) domain.Outcome {
	switch rec.Action {
	case domain.ActionAddCustomer:
		return m.handleAddCustomer(rec)
	case domain.ActionAddChecking:
		return m.handleAddAccount(rec, domain.AccountKindChecking)
	case domain.ActionAddSavings:
		return m.handleAddAccount(rec, domain.AccountKindSavings)
	case domain.ActionRename:
		return m.handleRename(rec)
	case domain.ActionPrimeRate:
		return m.handleSetPrimeRate(rec.Rate)
	case domain.ActionLinkAccount:
		return m.handleLinkAccount(rec)
	case domain.ActionDeposit:
		return m.handleDeposit(rec)
	case domain.ActionWithdraw:
		return m.handleWithdraw(rec)
	case domain.ActionCheck:
		return m.handleCheck(rec)
	case domain.ActionTransfer:
		return m.handleTransfer(rec)
	case domain.ActionSwap:
		return m.handleSwap(rec)
	case domain.ActionMonthEnd:
		m.monthEnd()
		return domain.OutcomeApplied
	case domain.ActionChangeRate:
		return m.handleChangeRate(rec)
	case domain.ActionDeleteAccount:
		return m.handleDeleteAccount(rec)
	}
	return domain.OutcomeUnrecognized
}

func outcomeOf(ok bool) domain.Outcome {
	if ok {
		return domain.OutcomeApplied
	}
	return domain.OutcomeDeclined
}

func (m *Bank) handleAddCustomer(rec *domain.Record) domain.Outcome {
	if _, ok := m.customers[rec.CustomerID]; ok {
		return domain.OutcomeIgnored
	}
	m.customers[rec.CustomerID] = domain.NewCustomer(rec.CustomerID, rec.Name, m.registry)
	return domain.OutcomeApplied
}

func (m *Bank) handleAddAccount(rec *domain.Record, kind domain.AccountKind) domain.Outcome {
	customer, ok := m.customers[rec.CustomerID]
	if !ok {
		return domain.OutcomeIgnored
	}
	if _, ok := customer.AddAccount(kind, rec.Rate); !ok {
		return domain.OutcomeIgnored
	}
	return domain.OutcomeApplied
}

func (m *Bank) handleRename(rec *domain.Record) domain.Outcome {
	customer, ok := m.customers[rec.CustomerID]
	if !ok {
		return domain.OutcomeIgnored
	}
	customer.Name = rec.Name
	return domain.OutcomeApplied
}

// handleSetPrimeRate 非正數的利率會被忽略
func (m *Bank) handleSetPrimeRate(rate decimal.Decimal) domain.Outcome {
	if !rate.IsPositive() {
		return domain.OutcomeIgnored
	}
	m.primeRate = rate
	return domain.OutcomeApplied
}

// handleLinkAccount 將 OtherCustomerID 的帳戶連結到 CustomerID 名下
func (m *Bank) handleLinkAccount(rec *domain.Record) domain.Outcome {
	if rec.CustomerID == rec.OtherCustomerID {
		return domain.OutcomeIgnored
	}
	customer, ok := m.customers[rec.CustomerID]
	if !ok {
		return domain.OutcomeIgnored
	}
	origin, ok := m.customers[rec.OtherCustomerID]
	if !ok {
		return domain.OutcomeIgnored
	}
	account, ok := origin.Account(rec.OtherSlot)
	if !ok || !customer.LinkAccount(account) {
		return domain.OutcomeIgnored
	}
	return domain.OutcomeApplied
}

func (m *Bank) handleDeposit(rec *domain.Record) domain.Outcome {
	customer, ok := m.customers[rec.CustomerID]
	if !ok {
		return domain.OutcomeIgnored
	}
	if !customer.DepositTo(rec.Slot, domain.MoneyFromDecimal(rec.Amount)) {
		return domain.OutcomeIgnored
	}
	return domain.OutcomeApplied
}

func (m *Bank) handleWithdraw(rec *domain.Record) domain.Outcome {
	customer, ok := m.customers[rec.CustomerID]
	if !ok {
		return domain.OutcomeIgnored
	}
	if _, ok := customer.Account(rec.Slot); !ok {
		return domain.OutcomeIgnored
	}
	return outcomeOf(customer.WithdrawFrom(rec.Slot, domain.MoneyFromDecimal(rec.Amount)))
}

// handleCheck 處理支票
//
// 收款客戶為 0 代表全域支票 (收款人不在本行)。
// 收款人為主帳戶時，反向支票可由收款人的副帳戶補足；
// 收款人為副帳戶時只使用該帳戶。
func (m *Bank) handleCheck(rec *domain.Record) domain.Outcome {
	payer, ok := m.customers[rec.CustomerID]
	if !ok {
		return domain.OutcomeIgnored
	}
	if _, ok := payer.Account(rec.Slot); !ok {
		return domain.OutcomeIgnored
	}
	check := domain.Check{
		Number: rec.CheckNumber,
		From:   rec.Slot,
		Payee:  rec.Name,
		Amount: domain.MoneyFromDecimal(rec.Amount),
	}

	if rec.OtherCustomerID == 0 {
		return outcomeOf(payer.ProcessCheck(check))
	}

	recipient, ok := m.customers[rec.OtherCustomerID]
	if !ok {
		return domain.OutcomeIgnored
	}
	if rec.OtherSlot == domain.SlotPrimary {
		primary, ok := recipient.Account(domain.SlotPrimary)
		if !ok {
			return domain.OutcomeIgnored
		}
		secondary, _ := recipient.Account(domain.SlotSecondary)
		return outcomeOf(payer.ProcessCheckToPair(check, primary, secondary))
	}
	secondary, ok := recipient.Account(domain.SlotSecondary)
	if !ok {
		return domain.OutcomeIgnored
	}
	return outcomeOf(payer.ProcessCheckTo(check, secondary))
}

// handleTransfer 由 CustomerID 的帳戶轉帳到 OtherCustomerID 的帳戶
func (m *Bank) handleTransfer(rec *domain.Record) domain.Outcome {
	customer, ok := m.customers[rec.CustomerID]
	if !ok {
		return domain.OutcomeIgnored
	}
	other, ok := m.customers[rec.OtherCustomerID]
	if !ok {
		return domain.OutcomeIgnored
	}
	target, ok := other.Account(rec.OtherSlot)
	if !ok {
		return domain.OutcomeIgnored
	}
	if _, ok := customer.Account(rec.Slot); !ok {
		return domain.OutcomeIgnored
	}
	return outcomeOf(customer.TransferBetween(rec.Slot, domain.MoneyFromDecimal(rec.Amount), target))
}

func (m *Bank) handleSwap(rec *domain.Record) domain.Outcome {
	customer, ok := m.customers[rec.CustomerID]
	if !ok || !customer.SwapAccounts() {
		return domain.OutcomeIgnored
	}
	return domain.OutcomeApplied
}

// handleChangeRate 客戶編號 0 代表變更基準利率
func (m *Bank) handleChangeRate(rec *domain.Record) domain.Outcome {
	if rec.CustomerID == 0 {
		return m.handleSetPrimeRate(rec.Rate)
	}
	customer, ok := m.customers[rec.CustomerID]
	if !ok || !customer.SetAPR(rec.Slot, rec.Rate) {
		return domain.OutcomeIgnored
	}
	return domain.OutcomeApplied
}

// handleDeleteAccount 非擁有者的刪除請求會被拒絕
func (m *Bank) handleDeleteAccount(rec *domain.Record) domain.Outcome {
	customer, ok := m.customers[rec.CustomerID]
	if !ok {
		return domain.OutcomeIgnored
	}
	if _, ok := customer.Account(rec.Slot); !ok {
		return domain.OutcomeIgnored
	}
	return outcomeOf(customer.DeleteAccount(rec.Slot))
}

// monthEnd 月結
//
// 分兩輪: 先對所有帳戶入帳利息，再結束所有帳戶的本期。
// 連結帳戶會在第一輪被多位客戶走訪，靠 interestPosted 旗標確保只入帳一次。
func (m *Bank) monthEnd() {
	customers := m.sortedCustomers()
	for _, customer := range customers {
		customer.PostInterest(m.primeRate)
	}
	for _, customer := range customers {
		customer.EndPosting()
	}
}

func (m *Bank) sortedCustomers() []*domain.Customer {
	customers := make([]*domain.Customer, 0, len(m.customers))
	for _, customer := range m.customers {
		customers = append(customers, customer)
	}
	sort.Slice(customers, func(i, j int) bool {
		return customers[i].ID < customers[j].ID
	})
	return customers
}

// TotalTender 所有帳戶的總餘額，每個帳戶只經由擁有者計算一次
func (m *Bank) TotalTender() domain.Money {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalTender()
}

func (m *Bank) totalTender() domain.Money {
	var total domain.Money
	for _, customer := range m.customers {
		for _, account := range customer.Accounts() {
			if account.IsLinked(customer.ID) == 0 {
				total += account.Balance()
			}
		}
	}
	return total
}

// LinkedString 帳戶連結狀態的顯示字串
//
// 回傳:
//
//	"--": 客戶或帳戶不存在
//	"No": 自己擁有且沒有其他客戶連結
//	"Yes: Master": 自己擁有且被其他客戶連結
//	"Yes-(N) P|S": 連結自客戶 N 的主帳戶 (P) 或副帳戶 (S)
func (m *Bank) LinkedString(customerID uint, slot domain.Slot) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	customer, ok := m.customers[customerID]
	if !ok {
		return "--"
	}
	return m.linkedString(customer, slot)
}

func (m *Bank) linkedString(customer *domain.Customer, slot domain.Slot) string {
	account, ok := customer.Account(slot)
	if !ok {
		return "--"
	}

	owner := account.IsLinked(customer.ID)
	if owner == 0 {
		for id, other := range m.customers {
			if id != customer.ID && other.Holds(account.ID) {
				return "Yes: Master"
			}
		}
		return "No"
	}

	position := domain.SlotSecondary
	if ownerCustomer, ok := m.customers[owner]; ok {
		if primary, ok := ownerCustomer.Account(domain.SlotPrimary); ok && primary.ID == account.ID {
			position = domain.SlotPrimary
		}
	}
	return fmt.Sprintf("Yes-(%d) %s", owner, position)
}

// Customer 取得客戶
func (m *Bank) Customer(id uint) (*domain.Customer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	customer, ok := m.customers[id]
	return customer, ok
}

// PrimeRate 目前的基準利率
func (m *Bank) PrimeRate() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.primeRate
}

// TransactionCount 已計入的交易數
func (m *Bank) TransactionCount() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transactionCount
}

// Snapshot 建立帳本狀態的唯讀視圖
func (m *Bank) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := &domain.Snapshot{
		RunID:            m.runID,
		GeneratedAt:      m.now(),
		PrimeRate:        m.primeRate,
		TransactionCount: m.transactionCount,
		TotalTender:      m.totalTender(),
		Customers:        make([]domain.CustomerView, 0, len(m.customers)),
	}
	for _, customer := range m.sortedCustomers() {
		view := domain.CustomerView{
			ID:       customer.ID,
			Name:     customer.Name,
			Accounts: make([]domain.AccountView, 0, domain.MaxAccounts),
		}
		for i, account := range customer.Accounts() {
			slot := domain.Slot(i)
			view.Accounts = append(view.Accounts, domain.AccountView{
				Slot:      slot,
				AccountID: account.ID,
				Kind:      account.Kind,
				Balance:   account.Balance(),
				APR:       account.APR(),
				Owner:     account.Owner(),
				Linked:    m.linkedString(customer, slot),
			})
		}
		snapshot.Customers = append(snapshot.Customers, view)
	}
	return snapshot, nil
}

var _ usecase.Ledger = (*Bank)(nil)
