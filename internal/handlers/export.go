package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"fintrack/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	recordsSheet    = "Records"
	summarySheet    = "Summary"
)

var recordsHeader = []interface{}{"Date", "Type", "Category", "Subcategory", "Amount", "Expense kind"}

// @Summary      Export records
// @Description  Workbook with a Records sheet and a Summary sheet.
// @Tags         records
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    file
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/records/export [get]
// @Security     BearerAuth
func (h *Handler) exportRecords(c *gin.Context) {
	sess := currentSession(c)
	ctx := c.Request.Context()

	l, err := h.services.List(ctx, sess.Username)
	if err != nil {
		h.respondServiceError(c, "records_export_failed", err, "username", sess.Username)
		return
	}
	sum, err := h.services.Summary(ctx, sess.Username)
	if err != nil {
		h.respondServiceError(c, "records_export_failed", err, "username", sess.Username)
		return
	}

	buf, err := buildWorkbook(l.Records, sum)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to build workbook", "records_export_failed", err, "username", sess.Username)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="records.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// buildWorkbook writes records in ledger order and the summary totals.
func buildWorkbook(records []models.FinancialRecord, sum models.Summary) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", recordsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(recordsSheet, "A1", &recordsHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			r.Date.String(), string(r.Type), r.Category, r.Subcategory,
			r.Amount.InexactFloat64(), string(r.ExpenseKind),
		}
		if err := f.SetSheetRow(recordsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write record %d: %w", i, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("add summary sheet: %w", err)
	}
	rows := [][]interface{}{
		{"Total income", sum.TotalIncome.InexactFloat64()},
		{"Total expense", sum.TotalExpense.InexactFloat64()},
		{"Balance", sum.Balance.InexactFloat64()},
	}
	if sum.NeedWant != nil {
		rows = append(rows,
			[]interface{}{"Need %", sum.NeedWant.NeedPercent.InexactFloat64()},
			[]interface{}{"Want %", sum.NeedWant.WantPercent.InexactFloat64()},
		)
	}
	for i, row := range rows {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return nil, fmt.Errorf("write summary row %d: %w", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf, nil
}
