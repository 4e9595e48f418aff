package api

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"backend_trainerhub/models"
	"backend_trainerhub/services"

	"github.com/gin-gonic/gin"
)

func ledgerFilterFromQuery(c *gin.Context) (services.LedgerFilter, bool) {
	filter := services.LedgerFilter{
		TrainerID: GetTrainerID(c),
		Source:    models.FinancialSource(c.Query("source")),
	}

	clientID, err := parseOptionalUint(c.Query("clientId"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Некорректный clientId")
		return filter, false
	}
	filter.ClientID = clientID

	for name, target := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		t, err := ParseFlexDate(raw)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "Некорректная дата "+name)
			return filter, false
		}
		*target = &t
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			ErrorResponse(c, http.StatusBadRequest, "Некорректный limit")
			return filter, false
		}
		filter.Limit = limit
	}
	return filter, true
}

// ListLedger возвращает записи журнала с итогами
// GET /api/ledger?from=&to=&clientId=&source=
func (h *Handlers) ListLedger(c *gin.Context) {
	filter, ok := ledgerFilterFromQuery(c)
	if !ok {
		return
	}
	records, err := h.ledger.ListRecords(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{
		"records": records,
		"summary": services.Summarize(records),
	})
}

// ExportLedger выгружает журнал в xlsx, pdf или csv
// GET /api/ledger/export?format=
func (h *Handlers) ExportLedger(c *gin.Context) {
	format, err := services.ParseExportFormat(c.Query("format"))
	if err != nil {
		respondError(c, err)
		return
	}
	filter, ok := ledgerFilterFromQuery(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.Export(c.Request.Context(), filter, format, &buf); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+format.FileName(filter.TrainerID, time.Now())+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
