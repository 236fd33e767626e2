package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arpay/arpay/internal/api/dto"
	ierr "github.com/arpay/arpay/internal/errors"
	"github.com/arpay/arpay/internal/logger"
	"github.com/arpay/arpay/internal/service"
	"github.com/arpay/arpay/internal/types"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
	logger         *logger.Logger
}

func NewInvoiceHandler(invoiceService service.InvoiceService, logger *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// CreateInvoice godoc
// @Summary Create a new invoice
// @Description Create a new invoice, the invoice number is generated server side
// @Tags Invoices
// @Accept json
// @Produce json
// @Param invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.invoiceService.CreateInvoice(c.Request.Context(), &req)
	if err != nil {
		h.logger.Errorw("failed to create invoice", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetInvoice godoc
// @Summary Get an invoice by ID
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("invalid invoice id").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetInvoiceByNumber godoc
// @Summary Get an invoice by its number
// @Tags Invoices
// @Produce json
// @Param number path string true "Invoice number"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /invoices/number/{number} [get]
func (h *InvoiceHandler) GetInvoiceByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		c.Error(ierr.NewError("invalid invoice number").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.invoiceService.GetInvoiceByNumber(c.Request.Context(), number)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListInvoices godoc
// @Summary List invoices
// @Description List invoices with optional filtering and page based pagination
// @Tags Invoices
// @Produce json
// @Param filter query types.InvoiceFilter false "Filter"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	filter, err := h.bindFilter(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		h.logger.Errorw("failed to list invoices", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListInvoicesByStatus godoc
// @Summary List invoices in a given status
// @Tags Invoices
// @Produce json
// @Param status path string true "Invoice status"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /invoices/status/{status} [get]
func (h *InvoiceHandler) ListInvoicesByStatus(c *gin.Context) {
	status, err := types.ParseInvoiceStatus(c.Param("status"))
	if err != nil {
		c.Error(err)
		return
	}

	filter, err := h.bindFilter(c)
	if err != nil {
		c.Error(err)
		return
	}
	filter.Status = &status

	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListInvoicesByType godoc
// @Summary List invoices of a given type
// @Tags Invoices
// @Produce json
// @Param type path string true "Invoice type"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /invoices/type/{type} [get]
func (h *InvoiceHandler) ListInvoicesByType(c *gin.Context) {
	invoiceType, err := types.ParseInvoiceType(c.Param("type"))
	if err != nil {
		c.Error(err)
		return
	}

	filter, err := h.bindFilter(c)
	if err != nil {
		c.Error(err)
		return
	}
	filter.InvoiceType = &invoiceType

	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SearchInvoices godoc
// @Summary Search invoices
// @Description Case insensitive substring match over customer name and invoice number
// @Tags Invoices
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /invoices/search [get]
func (h *InvoiceHandler) SearchInvoices(c *gin.Context) {
	filter, err := h.bindFilter(c)
	if err != nil {
		c.Error(err)
		return
	}
	if filter.Search == "" {
		filter.Search = c.Query("q")
	}

	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListInvoicesByDateRange godoc
// @Summary List invoices dated within an inclusive range
// @Tags Invoices
// @Produce json
// @Param start_date query string true "Range start (YYYY-MM-DD)"
// @Param end_date query string true "Range end (YYYY-MM-DD)"
// @Success 200 {array} dto.InvoiceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /invoices/date-range [get]
func (h *InvoiceHandler) ListInvoicesByDateRange(c *gin.Context) {
	start, err := types.ParseDate(c.Query("start_date"))
	if err != nil {
		c.Error(err)
		return
	}
	end, err := types.ParseDate(c.Query("end_date"))
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.invoiceService.ListInvoicesByDateRange(c.Request.Context(), start, end)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListOverdueInvoices godoc
// @Summary List invoices past their due date and not yet paid
// @Tags Invoices
// @Produce json
// @Success 200 {array} dto.InvoiceResponse
// @Router /invoices/overdue [get]
func (h *InvoiceHandler) ListOverdueInvoices(c *gin.Context) {
	resp, err := h.invoiceService.ListOverdueInvoices(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetTotalAmountByStatus godoc
// @Summary Sum of invoice totals in a given status
// @Tags Invoices
// @Produce json
// @Param status query string true "Invoice status"
// @Success 200 {object} dto.InvoiceStatsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /invoices/stats/total [get]
func (h *InvoiceHandler) GetTotalAmountByStatus(c *gin.Context) {
	status, err := types.ParseInvoiceStatus(c.Query("status"))
	if err != nil {
		c.Error(err)
		return
	}

	total, err := h.invoiceService.GetTotalAmountByStatus(c.Request.Context(), status)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.InvoiceStatsResponse{Status: status, Total: &total})
}

// GetInvoiceCountByStatus godoc
// @Summary Number of invoices in a given status
// @Tags Invoices
// @Produce json
// @Param status query string true "Invoice status"
// @Success 200 {object} dto.InvoiceStatsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /invoices/stats/count [get]
func (h *InvoiceHandler) GetInvoiceCountByStatus(c *gin.Context) {
	status, err := types.ParseInvoiceStatus(c.Query("status"))
	if err != nil {
		c.Error(err)
		return
	}

	count, err := h.invoiceService.GetInvoiceCountByStatus(c.Request.Context(), status)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.InvoiceStatsResponse{Status: status, Count: &count})
}

// UpdateInvoice godoc
// @Summary Update an invoice
// @Description Partial update, absent fields keep their stored values
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param invoice body dto.UpdateInvoiceRequest true "Fields to update"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /invoices/{id} [put]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("invalid invoice id").Mark(ierr.ErrValidation))
		return
	}

	var req dto.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.invoiceService.UpdateInvoice(c.Request.Context(), id, &req)
	if err != nil {
		h.logger.Errorw("failed to update invoice", "error", err, "invoice_id", id)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteInvoice godoc
// @Summary Delete an invoice
// @Tags Invoices
// @Param id path string true "Invoice ID"
// @Success 204
// @Failure 404 {object} ierr.ErrorResponse
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("invalid invoice id").Mark(ierr.ErrValidation))
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *InvoiceHandler) bindFilter(c *gin.Context) (*types.InvoiceFilter, error) {
	filter := types.NewInvoiceFilter()
	if err := c.ShouldBindQuery(filter); err != nil {
		h.logger.Errorw("failed to bind query parameters", "error", err)
		return nil, ierr.WithError(err).WithHint("invalid query parameters").Mark(ierr.ErrValidation)
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return filter, nil
}
