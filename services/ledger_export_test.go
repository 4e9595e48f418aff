package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"backend_trainerhub/models"
	"backend_trainerhub/testutils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func seedLedger(t *testing.T, engine *testEngine) {
	t.Helper()
	ctx := context.Background()
	_, err := engine.ledger.EnsureIncomeOnce(ctx, IncomeEntry{
		TrainerID: testutils.TestTrainerID,
		ClientID:  1,
		Source:    models.SourceSubscription,
		Amount:    decimal.NewFromInt(900),
		Date:      testutils.Date(2024, 1, 1),
		Token:     SubscriptionToken(1),
		Notes:     "Subscription payment",
	})
	require.NoError(t, err)
	_, err = engine.ledger.RecordRefund(ctx, RefundEntry{
		TrainerID: testutils.TestTrainerID,
		ClientID:  1,
		Amount:    decimal.NewFromInt(300),
		Date:      testutils.Date(2024, 1, 15),
		Notes:     "Refund",
	})
	require.NoError(t, err)
}

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		raw      string
		expected ExportFormat
		wantErr  bool
	}{
		{"", ExportXLSX, false},
		{"XLSX", ExportXLSX, false},
		{"excel", ExportXLSX, false},
		{"pdf", ExportPDF, false},
		{" csv ", ExportCSV, false},
		{"docx", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			format, err := ParseExportFormat(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestLedgerExportService_CSV(t *testing.T) {
	engine := newTestEngine(t, generatorNow)
	seedLedger(t, engine)

	var buf bytes.Buffer
	exporter := NewLedgerExportService(engine.ledger)
	require.NoError(t, exporter.Export(context.Background(), LedgerFilter{TrainerID: testutils.TestTrainerID}, ExportCSV, &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, ledgerHeaders, rows[0])
	assert.Equal(t, "2024-01-15", rows[1][1])
	assert.Equal(t, "-300.00", rows[1][4])
	assert.Equal(t, "900.00", rows[2][4])
}

func TestLedgerExportService_XLSX(t *testing.T) {
	engine := newTestEngine(t, generatorNow)
	seedLedger(t, engine)

	var buf bytes.Buffer
	exporter := NewLedgerExportService(engine.ledger)
	require.NoError(t, exporter.Export(context.Background(), LedgerFilter{TrainerID: testutils.TestTrainerID}, ExportXLSX, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Ledger", "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", header)

	source, err := f.GetCellValue("Ledger", "D3")
	require.NoError(t, err)
	assert.Equal(t, string(models.SourceSubscription), source)

	net, err := f.GetCellValue("Ledger", "E7")
	require.NoError(t, err)
	assert.Equal(t, "600.00", net)
}

func TestLedgerExportService_PDF(t *testing.T) {
	engine := newTestEngine(t, generatorNow)
	seedLedger(t, engine)

	var buf bytes.Buffer
	exporter := NewLedgerExportService(engine.ledger)
	require.NoError(t, exporter.Export(context.Background(), LedgerFilter{TrainerID: testutils.TestTrainerID}, ExportPDF, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
