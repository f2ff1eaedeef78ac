package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/garyjia/travel-settlement/internal/appsource"
	"github.com/garyjia/travel-settlement/internal/engine"
	"github.com/garyjia/travel-settlement/internal/models"
	"github.com/garyjia/travel-settlement/internal/service"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	documents *service.DocumentService
	logger    *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(documents *service.DocumentService, logger *zap.Logger) *Handlers {
	return &Handlers{documents: documents, logger: logger}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"service":   "travel-settlement",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// ListApplications handles GET /api/applications
func (h *Handlers) ListApplications(c *gin.Context) {
	apps, err := h.documents.ListApplications(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: apps})
}

// CreateDocumentRequest is the body for POST /api/documents
type CreateDocumentRequest struct {
	Reimburser string `json:"reimburser"`
}

// CreateDocument handles POST /api/documents
func (h *Handlers) CreateDocument(c *gin.Context) {
	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(c, "invalid request body")
		return
	}
	doc := h.documents.CreateDocument(req.Reimburser)
	c.JSON(http.StatusCreated, Response{Success: true, Data: doc})
}

// GetDocument handles GET /api/documents/:id
func (h *Handlers) GetDocument(c *gin.Context) {
	doc, err := h.documents.GetDocument(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: doc})
}

// GetSettlement handles GET /api/documents/:id/settlement
func (h *Handlers) GetSettlement(c *gin.Context) {
	view, err := h.documents.ComputeSettlement(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: view})
}

// ImportApplicationRequest is the body for POST /api/documents/:id/import
type ImportApplicationRequest struct {
	ApplicationID string `json:"application_id" binding:"required"`
}

// ImportApplication handles POST /api/documents/:id/import
func (h *Handlers) ImportApplication(c *gin.Context) {
	var req ImportApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "application_id is required")
		return
	}
	doc, err := h.documents.ImportApplication(c.Request.Context(), c.Param("id"), req.ApplicationID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: doc})
}

// ApplyCommand handles POST /api/documents/:id/commands. The body carries the
// command variant in a "type" field alongside the variant's own fields.
func (h *Handlers) ApplyCommand(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.badRequest(c, "failed to read request body")
		return
	}
	cmd, err := DecodeCommand(body)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	doc, err := h.documents.ApplyCommand(c.Param("id"), cmd)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: doc})
}

// AddTraveler handles POST /api/documents/:id/travelers
func (h *Handlers) AddTraveler(c *gin.Context) {
	var t models.Traveler
	if err := c.ShouldBindJSON(&t); err != nil {
		h.badRequest(c, "invalid traveler body")
		return
	}
	doc, err := h.documents.AddTraveler(c.Param("id"), t)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: doc})
}

// UpdateTraveler handles PUT /api/documents/:id/travelers/:travelerId
func (h *Handlers) UpdateTraveler(c *gin.Context) {
	var t models.Traveler
	if err := c.ShouldBindJSON(&t); err != nil {
		h.badRequest(c, "invalid traveler body")
		return
	}
	t.ID = c.Param("travelerId")
	doc, err := h.documents.UpdateTraveler(c.Param("id"), t)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: doc})
}

// RemoveTraveler handles DELETE /api/documents/:id/travelers/:travelerId
func (h *Handlers) RemoveTraveler(c *gin.Context) {
	doc, err := h.documents.RemoveTraveler(c.Param("id"), c.Param("travelerId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: doc})
}

// AddSegment handles POST /api/documents/:id/segments
func (h *Handlers) AddSegment(c *gin.Context) {
	doc, err := h.documents.AddSegment(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: doc})
}

// RemoveSegment handles DELETE /api/documents/:id/segments/:segmentId
func (h *Handlers) RemoveSegment(c *gin.Context) {
	segID, err := strconv.ParseInt(c.Param("segmentId"), 10, 64)
	if err != nil {
		h.badRequest(c, "invalid segment id")
		return
	}
	doc, err := h.documents.RemoveSegment(c.Param("id"), segID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: doc})
}

// AddExpense handles POST /api/documents/:id/expenses
func (h *Handlers) AddExpense(c *gin.Context) {
	var exp models.ExpenseRecord
	if err := c.ShouldBindJSON(&exp); err != nil {
		h.badRequest(c, "invalid expense body")
		return
	}
	doc, err := h.documents.AddExpense(c.Param("id"), exp)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: doc})
}

// RemoveExpense handles DELETE /api/documents/:id/expenses/:expenseId
func (h *Handlers) RemoveExpense(c *gin.Context) {
	expID, err := strconv.ParseInt(c.Param("expenseId"), 10, 64)
	if err != nil {
		h.badRequest(c, "invalid expense id")
		return
	}
	doc, err := h.documents.RemoveExpense(c.Param("id"), expID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: doc})
}

// AddLoan handles POST /api/documents/:id/loans
func (h *Handlers) AddLoan(c *gin.Context) {
	var loan models.LoanClearance
	if err := c.ShouldBindJSON(&loan); err != nil {
		h.badRequest(c, "invalid loan body")
		return
	}
	doc, err := h.documents.AddLoan(c.Param("id"), loan)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: doc})
}

// RemoveLoan handles DELETE /api/documents/:id/loans/:loanId
func (h *Handlers) RemoveLoan(c *gin.Context) {
	loanID, err := strconv.ParseInt(c.Param("loanId"), 10, 64)
	if err != nil {
		h.badRequest(c, "invalid loan id")
		return
	}
	doc, err := h.documents.RemoveLoan(c.Param("id"), loanID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: doc})
}

func (h *Handlers) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

// fail maps service errors to HTTP statuses.
func (h *Handlers) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrDocumentNotFound),
		errors.Is(err, service.ErrTravelerNotFound),
		errors.Is(err, appsource.ErrApplicationNotFound),
		errors.Is(err, engine.ErrSegmentNotFound),
		errors.Is(err, engine.ErrExpenseNotFound),
		errors.Is(err, engine.ErrLoanNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrImportInProgress),
		errors.Is(err, service.ErrLastTraveler):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}
	c.JSON(status, Response{Success: false, Error: err.Error()})
}

// DecodeCommand decodes the tagged JSON representation of a mutation command.
func DecodeCommand(data []byte) (engine.Command, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("invalid command body: %w", err)
	}

	switch envelope.Type {
	case "set_segment_dates":
		return decodeAs[engine.SetSegmentDates](data, envelope.Type)
	case "set_segment_route":
		return decodeAs[engine.SetSegmentRoute](data, envelope.Type)
	case "set_segment_rates":
		return decodeAs[engine.SetSegmentRates](data, envelope.Type)
	case "set_segment_charter":
		return decodeAs[engine.SetSegmentCharter](data, envelope.Type)
	case "set_segment_business_meals":
		return decodeAs[engine.SetSegmentBusinessMeals](data, envelope.Type)
	case "set_segment_travelers":
		return decodeAs[engine.SetSegmentTravelers](data, envelope.Type)
	case "set_expense_currency":
		return decodeAs[engine.SetExpenseCurrency](data, envelope.Type)
	case "set_expense_rate":
		return decodeAs[engine.SetExpenseRate](data, envelope.Type)
	case "set_expense_amount":
		return decodeAs[engine.SetExpenseAmount](data, envelope.Type)
	case "set_expense_category":
		return decodeAs[engine.SetExpenseCategory](data, envelope.Type)
	case "set_expense_payee":
		return decodeAs[engine.SetExpensePayee](data, envelope.Type)
	case "set_expense_description":
		return decodeAs[engine.SetExpenseDescription](data, envelope.Type)
	case "bind_invoice":
		return decodeAs[engine.BindInvoice](data, envelope.Type)
	case "set_loan_cleared":
		return decodeAs[engine.SetLoanCleared](data, envelope.Type)
	case "set_loan_amount":
		return decodeAs[engine.SetLoanAmount](data, envelope.Type)
	default:
		return nil, fmt.Errorf("unknown command type %q", envelope.Type)
	}
}

func decodeAs[T engine.Command](data []byte, name string) (engine.Command, error) {
	var cmd T
	if err := json.Unmarshal(data, &cmd); err != nil {
		return nil, fmt.Errorf("invalid %s payload: %w", name, err)
	}
	return cmd, nil
}
