package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"backend_trainerhub/logging"
	"backend_trainerhub/models"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// ExportFormat формат выгрузки журнала
type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportPDF  ExportFormat = "pdf"
	ExportCSV  ExportFormat = "csv"
)

// pdfMaxRows ограничение строк в PDF
const pdfMaxRows = 500

var ledgerHeaders = []string{"ID", "Date", "Client", "Source", "Amount", "Payment method", "Notes"}

// ParseExportFormat разбирает формат выгрузки, по умолчанию xlsx
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportXLSX, "excel":
		return ExportXLSX, nil
	case ExportPDF:
		return ExportPDF, nil
	case ExportCSV:
		return ExportCSV, nil
	}
	return "", invalidInput("неподдерживаемый формат выгрузки %q", raw)
}

// ContentType возвращает MIME-тип формата
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportPDF:
		return "application/pdf"
	case ExportCSV:
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// FileName возвращает имя файла выгрузки
func (f ExportFormat) FileName(trainerID uint, at time.Time) string {
	return fmt.Sprintf("ledger_%d_%s.%s", trainerID, at.UTC().Format("20060102_150405"), f)
}

// LedgerExportService выгружает журнал доходов тренера
type LedgerExportService struct {
	ledger *LedgerService
	logger zerolog.Logger
}

// NewLedgerExportService создает новый экземпляр LedgerExportService
func NewLedgerExportService(ledger *LedgerService) *LedgerExportService {
	return &LedgerExportService{
		ledger: ledger,
		logger: logging.Component("ledger_export"),
	}
}

// Export записывает журнал в w в указанном формате
func (es *LedgerExportService) Export(ctx context.Context, filter LedgerFilter, format ExportFormat, w io.Writer) error {
	records, err := es.ledger.ListRecords(ctx, filter)
	if err != nil {
		return err
	}
	summary := Summarize(records)

	switch format {
	case ExportCSV:
		err = writeLedgerCSV(records, w)
	case ExportPDF:
		err = writeLedgerPDF(records, summary, w)
	case ExportXLSX:
		err = writeLedgerXLSX(records, summary, w)
	default:
		return invalidInput("неподдерживаемый формат выгрузки %q", format)
	}
	if err != nil {
		return internal(err, "выгрузка журнала")
	}

	es.logger.Info().
		Uint("trainer_id", filter.TrainerID).
		Str("format", string(format)).
		Int("rows", len(records)).
		Msg("ledger exported")
	return nil
}

func ledgerRow(record models.FinancialRecord) []string {
	return []string{
		fmt.Sprintf("%d", record.ID),
		record.Date.UTC().Format("2006-01-02"),
		fmt.Sprintf("%d", record.ClientID),
		string(record.Source),
		record.Amount.StringFixed(2),
		record.PaymentMethod,
		record.Notes,
	}
}

func writeLedgerCSV(records []models.FinancialRecord, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ledgerHeaders); err != nil {
		return err
	}
	for _, record := range records {
		if err := writer.Write(ledgerRow(record)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeLedgerXLSX(records []models.FinancialRecord, summary LedgerSummary, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Ledger"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	for i, header := range ledgerHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return err
		}
	}

	for rowIdx, record := range records {
		amount, _ := record.Amount.Float64()
		values := []interface{}{
			record.ID,
			record.Date.UTC().Format("2006-01-02"),
			record.ClientID,
			string(record.Source),
			amount,
			record.PaymentMethod,
			record.Notes,
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
		}
	}

	lastCell, _ := excelize.CoordinatesToCellName(len(ledgerHeaders), len(records)+1)
	if err := f.AutoFilter(sheetName, "A1:"+lastCell, []excelize.AutoFilterOptions{}); err != nil {
		return err
	}

	totalsRow := len(records) + 3
	totals := [][2]interface{}{
		{"Income", summary.Income.StringFixed(2)},
		{"Refunds", summary.Refunds.StringFixed(2)},
		{"Net", summary.Net.StringFixed(2)},
	}
	for i, total := range totals {
		labelCell, _ := excelize.CoordinatesToCellName(4, totalsRow+i)
		valueCell, _ := excelize.CoordinatesToCellName(5, totalsRow+i)
		if err := f.SetCellValue(sheetName, labelCell, total[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, valueCell, total[1]); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func writeLedgerPDF(records []models.FinancialRecord, summary LedgerSummary, w io.Writer) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Ledger")
	pdf.Ln(12)

	widths := []float64{15, 25, 20, 30, 30, 35, 120}
	pdf.SetFont("Arial", "B", 9)
	for i, header := range ledgerHeaders {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for i, record := range records {
		if i >= pdfMaxRows {
			pdf.Cell(0, 7, fmt.Sprintf("... %d more rows", len(records)-pdfMaxRows))
			pdf.Ln(-1)
			break
		}
		for col, value := range ledgerRow(record) {
			if col == len(widths)-1 && len(value) > 80 {
				value = value[:80]
			}
			pdf.CellFormat(widths[col], 6, tr(value), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Income: %s  Refunds: %s  Net: %s",
		summary.Income.StringFixed(2), summary.Refunds.StringFixed(2), summary.Net.StringFixed(2)))

	if err := pdf.Output(w); err != nil {
		return err
	}
	return pdf.Error()
}
