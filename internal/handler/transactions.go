package handler

import (
	"net/http"

	"github.com/SuperAJ1/CAPSTONE-sub000/internal/apierror"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/dto"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type TransactionsHandler struct{ svc service.ReconciliationService }

func NewTransactionsHandler(svc service.ReconciliationService) *TransactionsHandler {
	return &TransactionsHandler{svc: svc}
}

// ListTransactions godoc
// @Summary      Sales history
// @Description  Fetches the sales of the signed-in user from the backend.
// @Tags         transactions
// @Produce      json
// @Success      200 {object} dto.SaleListResponse
// @Failure      502 {object} apierror.APIError
// @Router       /v1/transactions [get]
func (h *TransactionsHandler) ListTransactions(c *gin.Context) {
	resp, err := h.svc.History(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Open godoc
// @Summary      Open a sale for reconciliation
// @Description  Starts viewing a sale of the last fetched history. Replaces any edit in progress.
// @Tags         reconciliation
// @Produce      json
// @Param        id path string true "Transaction id"
// @Success      200 {object} dto.ReconciliationResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/transactions/{id}/reconciliation [post]
func (h *TransactionsHandler) Open(c *gin.Context) {
	h.respond(c)(h.svc.Open(c.Param("id")))
}

// Current godoc
// @Summary      Current reconciliation
// @Tags         reconciliation
// @Produce      json
// @Success      200 {object} dto.ReconciliationResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/reconciliation [get]
func (h *TransactionsHandler) Current(c *gin.Context) {
	h.respond(c)(h.svc.Current())
}

// BeginEdit godoc
// @Summary      Start editing
// @Description  Flattens the sale into one row per unit.
// @Tags         reconciliation
// @Produce      json
// @Success      200 {object} dto.ReconciliationResponse
// @Failure      422 {object} apierror.APIError
// @Router       /v1/reconciliation/edit [post]
func (h *TransactionsHandler) BeginEdit(c *gin.Context) {
	h.respond(c)(h.svc.BeginEdit())
}

// ReplaceUnit godoc
// @Summary      Substitute the product of one unit
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        index path int                    true "Unit index"
// @Param        body  body dto.ReplaceUnitRequest true "Substitute product"
// @Success      200 {object} dto.ReconciliationResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/reconciliation/units/{index} [put]
func (h *TransactionsHandler) ReplaceUnit(c *gin.Context) {
	i, ok := intParam(c, "index")
	if !ok {
		return
	}
	var req dto.ReplaceUnitRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.respond(c)(h.svc.ReplaceUnit(c.Request.Context(), i, req.ProductID))
}

// RemoveUnit godoc
// @Summary      Remove one unit
// @Tags         reconciliation
// @Produce      json
// @Param        index path int true "Unit index"
// @Success      200 {object} dto.ReconciliationResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/reconciliation/units/{index} [delete]
func (h *TransactionsHandler) RemoveUnit(c *gin.Context) {
	i, ok := intParam(c, "index")
	if !ok {
		return
	}
	h.respond(c)(h.svc.RemoveUnit(i))
}

// AddUnit godoc
// @Summary      Add one unit
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        body body dto.AddUnitRequest true "Product"
// @Success      200 {object} dto.ReconciliationResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/reconciliation/units [post]
func (h *TransactionsHandler) AddUnit(c *gin.Context) {
	var req dto.AddUnitRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.respond(c)(h.svc.AddUnit(c.Request.Context(), req.ProductID))
}

// SetUnitDiscount godoc
// @Summary      Set the discount of one unit
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        index path int               true "Unit index"
// @Param        body  body dto.AmountRequest true "Discount"
// @Success      200 {object} dto.ReconciliationResponse
// @Router       /v1/reconciliation/units/{index}/discount [put]
func (h *TransactionsHandler) SetUnitDiscount(c *gin.Context) {
	i, ok := intParam(c, "index")
	if !ok {
		return
	}
	var req dto.AmountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.respond(c)(h.svc.SetUnitDiscount(i, req.Value))
}

// SetGlobalDiscount godoc
// @Summary      Set the global discount
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        body body dto.AmountRequest true "Discount"
// @Success      200 {object} dto.ReconciliationResponse
// @Router       /v1/reconciliation/discount [put]
func (h *TransactionsHandler) SetGlobalDiscount(c *gin.Context) {
	var req dto.AmountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.respond(c)(h.svc.SetGlobalDiscount(req.Value))
}

// Save godoc
// @Summary      Submit the edited sale
// @Description  On underpayment the attempt moves to additional_payment_required with the balance due.
// @Tags         reconciliation
// @Produce      json
// @Success      200 {object} dto.ReconciliationResponse
// @Failure      409 {object} apierror.APIError
// @Failure      502 {object} apierror.APIError
// @Router       /v1/reconciliation/save [post]
func (h *TransactionsHandler) Save(c *gin.Context) {
	h.respondAttempt(c)(h.svc.Save(c.Request.Context()))
}

// SubmitPayment godoc
// @Summary      Pay the balance due
// @Description  The amount must cover the balance; the same update is resubmitted with it.
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        body body dto.AdditionalPaymentRequest true "Amount"
// @Success      200 {object} dto.ReconciliationResponse
// @Failure      422 {object} apierror.APIError
// @Router       /v1/reconciliation/payment [post]
func (h *TransactionsHandler) SubmitPayment(c *gin.Context) {
	var req dto.AdditionalPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.respondAttempt(c)(h.svc.SubmitPayment(c.Request.Context(), req.Amount))
}

// ReturnToEdit godoc
// @Summary      Close the payment prompt
// @Tags         reconciliation
// @Produce      json
// @Success      200 {object} dto.ReconciliationResponse
// @Router       /v1/reconciliation/payment [delete]
func (h *TransactionsHandler) ReturnToEdit(c *gin.Context) {
	h.respond(c)(h.svc.ReturnToEdit())
}

// Cancel godoc
// @Summary      Discard the reconciliation
// @Tags         reconciliation
// @Success      204
// @Router       /v1/reconciliation [delete]
func (h *TransactionsHandler) Cancel(c *gin.Context) {
	h.svc.Cancel()
	c.Status(http.StatusNoContent)
}

func (h *TransactionsHandler) respond(c *gin.Context) func(*dto.ReconciliationResponse, error) {
	return func(resp *dto.ReconciliationResponse, err error) {
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// respondAttempt keeps the attempt snapshot next to the error, so the screen
// can show the phase it fell back to.
func (h *TransactionsHandler) respondAttempt(c *gin.Context) func(*dto.ReconciliationResponse, error) {
	return func(resp *dto.ReconciliationResponse, err error) {
		if err == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
		kind := apierror.KindOf(err)
		if resp == nil || kind == "" {
			writeError(c, err)
			return
		}
		c.JSON(apierror.HTTPStatus(kind), gin.H{
			"detail":         apierror.Message(err),
			"kind":           kind,
			"reconciliation": resp,
		})
	}
}
