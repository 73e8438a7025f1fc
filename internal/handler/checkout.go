package handler

import (
	"net/http"

	"github.com/SuperAJ1/CAPSTONE-sub000/internal/apierror"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/dto"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct{ svc service.CheckoutService }

func NewCheckoutHandler(svc service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

// SearchProducts godoc
// @Summary      Search products
// @Description  Lists backend products matching the term and remembers them for manual adds.
// @Tags         products
// @Produce      json
// @Param        search query string false "Search term"
// @Success      200 {object} dto.ProductListResponse
// @Failure      502 {object} apierror.APIError
// @Router       /v1/products [get]
func (h *CheckoutHandler) SearchProducts(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Search(c.Request.Context(), filter.Search)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetCart godoc
// @Summary      Current cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.CartResponse
// @Router       /v1/cart [get]
func (h *CheckoutHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Cart())
}

// AddItem godoc
// @Summary      Add a product to the cart
// @Description  Manual add. Quantity 0 uses the pick quantity. Rejected without changes when stock would be exceeded.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body body dto.AddItemRequest true "Product and quantity"
// @Success      200 {object} dto.CartResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/cart/items [post]
func (h *CheckoutHandler) AddItem(c *gin.Context) {
	var req dto.AddItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.respondCart(c)(h.svc.AddProduct(c.Request.Context(), req))
}

// RemoveItem godoc
// @Summary      Remove one unit of a cart line
// @Tags         cart
// @Produce      json
// @Param        id path int true "Line id"
// @Success      200 {object} dto.CartResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/cart/items/{id} [delete]
func (h *CheckoutHandler) RemoveItem(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	h.respondCart(c)(h.svc.RemoveItem(id))
}

// UpdateItemTotal godoc
// @Summary      Override a line total
// @Description  Raw text is sanitized to digits and one decimal point. Empty clears the override.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        id   path int               true "Line id"
// @Param        body body dto.AmountRequest true "Line total"
// @Success      200 {object} dto.CartResponse
// @Failure      422 {object} apierror.APIError
// @Router       /v1/cart/items/{id}/total [put]
func (h *CheckoutHandler) UpdateItemTotal(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var req dto.AmountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.respondCart(c)(h.svc.UpdateItemTotal(id, req.Value))
}

// SetCashTendered godoc
// @Summary      Set cash tendered
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body body dto.AmountRequest true "Cash tendered"
// @Success      200 {object} dto.CartResponse
// @Router       /v1/cart/cash [put]
func (h *CheckoutHandler) SetCashTendered(c *gin.Context) {
	var req dto.AmountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.respondCart(c)(h.svc.SetCashTendered(req.Value))
}

// SetTotalOverride godoc
// @Summary      Set the manual total
// @Description  Replaces the displayed total. Empty reverts to the subtotal.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body body dto.AmountRequest true "Manual total"
// @Success      200 {object} dto.CartResponse
// @Router       /v1/cart/total [put]
func (h *CheckoutHandler) SetTotalOverride(c *gin.Context) {
	var req dto.AmountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.respondCart(c)(h.svc.SetTotalOverride(req.Value))
}

// SetPickQuantity godoc
// @Summary      Set the manual add quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body body dto.PickQuantityRequest true "Quantity"
// @Success      200 {object} dto.CartResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/cart/pick-quantity [put]
func (h *CheckoutHandler) SetPickQuantity(c *gin.Context) {
	var req dto.PickQuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.respondCart(c)(h.svc.SetPickQuantity(req.Quantity))
}

// SelectProduct godoc
// @Summary      Select a product of the last search
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body body dto.SelectProductRequest true "Product id, empty to clear"
// @Success      200 {object} dto.CartResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/cart/selection [put]
func (h *CheckoutHandler) SelectProduct(c *gin.Context) {
	var req dto.SelectProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.respondCart(c)(h.svc.SelectProduct(req.ProductID))
}

// ClearCart godoc
// @Summary      Clear the cart
// @Description  Empties lines, scan signatures, cash tendered and manual total.
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.CartResponse
// @Router       /v1/cart [delete]
func (h *CheckoutHandler) ClearCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Clear())
}

// Scan godoc
// @Summary      Handle a scanned code
// @Description  Accepts a single product code or a cart payload (plain, base64 or in a data= URL). Scans during the cooldown are ignored.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body body dto.ScanRequest true "Decoded scan"
// @Success      200 {object} dto.ScanResponse
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/scan [post]
func (h *CheckoutHandler) Scan(c *gin.Context) {
	var req dto.ScanRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Scan(c.Request.Context(), req.Data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Purchase godoc
// @Summary      Complete the sale
// @Description  Validates cash, submits the purchase, writes the receipt and clears the cart. The cart is kept when the backend fails.
// @Tags         purchase
// @Accept       json
// @Produce      json
// @Param        body body dto.PurchaseCheckoutRequest false "Receipt options"
// @Success      201 {object} dto.PurchaseResponse
// @Failure      409 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Failure      502 {object} apierror.APIError
// @Router       /v1/purchase [post]
func (h *CheckoutHandler) Purchase(c *gin.Context) {
	var req dto.PurchaseCheckoutRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Purchase(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CheckoutHandler) respondCart(c *gin.Context) func(*dto.CartResponse, error) {
	return func(resp *dto.CartResponse, err error) {
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
