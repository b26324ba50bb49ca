package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
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
		RunID:            uuid.MustParse("6f1c0e2a-8a44-4d1c-9a43-0d6f0b7c1e55"),
		GeneratedAt:      time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC),
		PrimeRate:        decimal.NewFromInt(4),
		TransactionCount: 7,
		TotalTender:      domain.Dollars(1000),
		Customers: []domain.CustomerView{
			{
				ID:   1,
				Name: "John Jacob Jingleheimer",
				Accounts: []domain.AccountView{
					{Slot: domain.SlotPrimary, AccountID: 1, Kind: domain.AccountKindChecking, Balance: domain.Dollars(544), APR: decimal.NewFromInt(2), Owner: 1, Linked: "No"},
					{Slot: domain.SlotSecondary, AccountID: 2, Kind: domain.AccountKindSavings, Balance: 0, APR: decimal.RequireFromString("0.2"), Owner: 1, Linked: "Yes: Master"},
				},
			},
			{
				ID:   2,
				Name: "Max",
				Accounts: []domain.AccountView{
					{Slot: domain.SlotPrimary, AccountID: 3, Kind: domain.AccountKindChecking, Balance: domain.Dollars(456), APR: decimal.NewFromInt(12), Owner: 2, Linked: "No"},
					{Slot: domain.SlotSecondary, AccountID: 2, Kind: domain.AccountKindSavings, Balance: 0, APR: decimal.RequireFromString("0.2"), Owner: 1, Linked: "Yes-(1) S"},
				},
			},
			{ID: 3, Name: "Nobody"},
		},
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   domain.Money
		want string
	}{
		{in: 0, want: "$0.00"},
		{in: domain.Dollars(544), want: "$544.00"},
		{in: 123456789, want: "$1,234,567.89"},
		{in: domain.Dollars(-10), want: "-$10.00"},
		{in: domain.Dollars(999_999_999), want: "$999,999,999.00"},
		{in: domain.Dollars(1_500_000_000), want: "$1.5B"},
		{in: domain.Dollars(2_250_000_000_000), want: "$2.25T"},
		{in: domain.Dollars(-5_000_000_000), want: "-$5,000,000,000.00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.in))
		})
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, testSnapshot()))
	out := buf.String()

	assert.Contains(t, out, "John Jacob Jingleh")
	assert.NotContains(t, out, "Jingleheimer")
	assert.Contains(t, out, "$544.00")
	assert.Contains(t, out, "Yes-(1) S")
	assert.Contains(t, out, "12%")
	assert.Contains(t, out, "Number of Transactions: 7")
	assert.Contains(t, out, "Total Assets: $1,000.00")

	lines := strings.Split(out, "\n")
	var nobody string
	for _, line := range lines {
		if strings.HasPrefix(line, "3 ") {
			nobody = line
		}
	}
	require.NotEmpty(t, nobody)
	assert.Equal(t, 8, strings.Count(nobody, "--"))
}

func TestCSVReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CSVReporter{Out: &buf, IncludeHeader: true}
	require.NoError(t, r.Report(context.Background(), testSnapshot()))

	reader := csv.NewReader(&buf)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 2+1+5)
	assert.Equal(t, []string{"# Transactions", "7"}, rows[0])
	assert.Equal(t, []string{"# Total Assets", "1000.00"}, rows[1])
	assert.Equal(t, "CustomerID", rows[2][0])
	assert.Equal(t, []string{"2", "Max", "S", "2", "S", "0.00", "0.2", "Yes-(1) S"}, rows[6])
	assert.Equal(t, "3", rows[7][0])
}

func TestJSONReporter_AtomicWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "snapshot.json")
	r := &JSONReporter{Path: path}

	require.NoError(t, r.Report(context.Background(), testSnapshot()))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded struct {
		RunID            string `json:"run_id"`
		TransactionCount uint64 `json:"transaction_count"`
		TotalTender      string `json:"total_tender"`
		Customers        []struct {
			ID       uint `json:"id"`
			Accounts []struct {
				Kind    string `json:"kind"`
				Balance string `json:"balance"`
			} `json:"accounts"`
		} `json:"customers"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "6f1c0e2a-8a44-4d1c-9a43-0d6f0b7c1e55", decoded.RunID)
	assert.Equal(t, uint64(7), decoded.TransactionCount)
	assert.Equal(t, "1000.00", decoded.TotalTender)
	require.Len(t, decoded.Customers, 3)
	assert.Equal(t, "C", decoded.Customers[0].Accounts[0].Kind)
	assert.Equal(t, "544.00", decoded.Customers[0].Accounts[0].Balance)
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	for _, format := range []string{"", FormatText, FormatCSV, FormatJSON} {
		r, err := New(format, "", &buf)
		require.NoError(t, err)
		assert.NotNil(t, r)
	}

	_, err := New("xml", "", &buf)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestTextReporter_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	r, err := New(FormatText, path, nil)
	require.NoError(t, err)

	require.NoError(t, r.Report(context.Background(), testSnapshot()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Final State")
}
