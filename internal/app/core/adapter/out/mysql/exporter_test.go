package mysql

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-audit-ledger/internal/app/core/domain"
)

func testSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		RunID:            uuid.New(),
		GeneratedAt:      time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		PrimeRate:        decimal.RequireFromString("4.25"),
		TransactionCount: 12,
		TotalTender:      domain.Dollars(1000),
		Customers: []domain.CustomerView{
			{ID: 1, Name: "John", Accounts: []domain.AccountView{
				{Slot: domain.SlotPrimary, AccountID: 1, Kind: domain.AccountKindChecking, Balance: domain.Dollars(544), APR: decimal.NewFromInt(2), Owner: 1, Linked: "Yes: Master"},
				{Slot: domain.SlotSecondary, AccountID: 2, Kind: domain.AccountKindSavings, Balance: 0, APR: decimal.RequireFromString("0.2"), Owner: 1, Linked: "No"},
			}},
			{ID: 2, Name: "Max", Accounts: []domain.AccountView{
				{Slot: domain.SlotPrimary, AccountID: 1, Kind: domain.AccountKindChecking, Balance: domain.Dollars(544), APR: decimal.NewFromInt(2), Owner: 1, Linked: "Yes-(1) P"},
			}},
			{ID: 3, Name: "Ann"},
		},
	}
}

func TestToRows(t *testing.T) {
	snapshot := testSnapshot()

	run, customers, accounts := toRows(snapshot)

	assert.Equal(t, snapshot.RunID[:], run.ID)
	assert.Equal(t, "4.25", run.PrimeRate.String())
	assert.Equal(t, uint64(12), run.TransactionCount)
	assert.Equal(t, int64(100000), run.TotalTender)
	assert.Equal(t, snapshot.GeneratedAt, run.GeneratedAt)

	require.Len(t, customers, 3)
	assert.Equal(t, "Ann", customers[2].Name)
	for _, c := range customers {
		assert.Equal(t, run.ID, c.RunID)
	}

	require.Len(t, accounts, 3)
	assert.Equal(t, sqlAccount{
		RunID:      run.ID,
		CustomerID: 2,
		Slot:       0,
		AccountID:  1,
		Kind:       "C",
		Balance:    54400,
		APR:        decimal.NewFromInt(2),
		Owner:      1,
		Linked:     "Yes-(1) P",
	}, accounts[2])
	assert.Equal(t, uint8(1), accounts[1].Slot)
	assert.Equal(t, "S", accounts[1].Kind)
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "audit_runs", (&sqlRun{}).TableName())
	assert.Equal(t, "audit_customers", (&sqlCustomer{}).TableName())
	assert.Equal(t, "audit_accounts", (&sqlAccount{}).TableName())
}
