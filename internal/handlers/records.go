package handlers

import (
	"net/http"
	"strconv"

	"fintrack/internal/models"
	"fintrack/internal/service"

	"github.com/gin-gonic/gin"
)

// importRequest replaces the whole ledger.
type importRequest struct {
	Records []models.FinancialRecord `json:"records" binding:"required"`
}

// @Summary      List records
// @Tags         records
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, version, records"
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/records [get]
// @Security     BearerAuth
func (h *Handler) listRecords(c *gin.Context) {
	sess := currentSession(c)
	l, err := h.services.List(c.Request.Context(), sess.Username)
	if err != nil {
		h.respondServiceError(c, "records_list_failed", err, "username", sess.Username)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(l.Records),
		"version": l.Version,
		"records": l.Records,
	})
}

// @Summary      Add record
// @Description  date defaults to today; subcategory and expense_kind are forced to "-" for Income
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        body  body      service.RecordInput  true  "Record"
// @Success      201   {object}  models.FinancialRecord
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/records [post]
// @Security     BearerAuth
func (h *Handler) addRecord(c *gin.Context) {
	var in service.RecordInput
	if ok := h.bindJSONOrBadRequest(c, &in); !ok {
		return
	}
	sess := currentSession(c)
	rec, err := h.services.Add(c.Request.Context(), sess.Username, in)
	if err != nil {
		h.respondServiceError(c, "records_add_failed", err, "username", sess.Username)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// @Summary      Import records
// @Description  Overwrites the whole ledger unconditionally.
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        body  body      importRequest  true  "Records"
// @Success      200   {object}  map[string]int
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/records [put]
// @Security     BearerAuth
func (h *Handler) importRecords(c *gin.Context) {
	var req importRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	sess := currentSession(c)
	n, err := h.services.Import(c.Request.Context(), sess.Username, req.Records)
	if err != nil {
		h.respondServiceError(c, "records_import_failed", err, "username", sess.Username)
		return
	}
	if h.log != nil {
		h.log.Infow("records_imported", "username", sess.Username, "count", n)
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// @Summary      Delete record
// @Tags         records
// @Produce      json
// @Param        index  path      int  true  "Zero-based position in the list"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Failure      409    {object}  map[string]string
// @Failure      503    {object}  map[string]string
// @Router       /api/v1/records/{index} [delete]
// @Security     BearerAuth
func (h *Handler) deleteRecord(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return
	}
	sess := currentSession(c)
	removed, err := h.services.Delete(c.Request.Context(), sess.Username, index)
	if err != nil {
		h.respondServiceError(c, "records_delete_failed", err, "username", sess.Username, "index", index)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": removed})
}

// @Summary      Dashboard summary
// @Tags         summary
// @Produce      json
// @Success      200  {object}  models.Summary
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/summary [get]
// @Security     BearerAuth
func (h *Handler) getSummary(c *gin.Context) {
	sess := currentSession(c)
	sum, err := h.services.Summary(c.Request.Context(), sess.Username)
	if err != nil {
		h.respondServiceError(c, "summary_failed", err, "username", sess.Username)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// @Summary      Entry form categories
// @Tags         summary
// @Produce      json
// @Success      200  {object}  models.Taxonomy
// @Router       /api/v1/categories [get]
// @Security     BearerAuth
func (h *Handler) getCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Categories())
}
