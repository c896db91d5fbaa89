package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/service-cart/internal/http/middleware"
	"github.com/nurpe/service-cart/internal/service"
)

type Handler struct {
	catalog *service.CatalogService
	carts   *service.CartService
	exports *service.ExportService
	log     zerolog.Logger
}

func NewHandler(catalog *service.CatalogService, carts *service.CartService, exports *service.ExportService, log zerolog.Logger) *Handler {
	return &Handler{catalog: catalog, carts: carts, exports: exports, log: log}
}

func (h *Handler) Register(router *gin.Engine, sessionMiddleware gin.HandlerFunc) {
	router.GET("/healthz", h.health)
	router.GET("/categories", h.listCategories)
	router.GET("/services/:id", h.getService)
	router.GET("/services/:id/quote", h.quote)

	session := router.Group("/")
	session.Use(sessionMiddleware)
	session.GET("/selections", h.getSelections)
	session.PUT("/selections/:serviceId", h.setSelection)
	session.DELETE("/selections", h.resetSelections)

	session.GET("/cart", h.getCart)
	session.POST("/cart/items", h.addToCart)
	session.POST("/cart/selections", h.addSelectionsToCart)
	session.PATCH("/cart/items/:serviceId", h.updateQuantity)
	session.DELETE("/cart/items/:serviceId", h.removeFromCart)
	session.DELETE("/cart", h.clearCart)
	session.POST("/cart/checkout", h.checkout)
	session.GET("/cart/export.xlsx", h.exportXLSX)
	session.GET("/cart/export.pdf", h.exportPDF)
}

type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type addToCartRequest struct {
	ServiceID int64 `json:"service_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": toCategoryResponses(h.catalog.ListCategories())})
}

func (h *Handler) getService(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	svc, err := h.catalog.GetService(id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	rules, err := h.catalog.RulesText(id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": serviceDetailResponse{
		serviceResponse: toServiceResponse(svc),
		Rules:           rules,
	}})
}

func (h *Handler) quote(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(c.DefaultQuery("quantity", "1")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity"})
		return
	}
	quote, err := h.catalog.Quote(id, quantity)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toQuoteResponse(*quote)})
}

func (h *Handler) getSelections(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	selected, err := h.carts.Selections(c.Request.Context(), owner)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toPricedResponse(selected)})
}

func (h *Handler) setSelection(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "serviceId")
	if !ok {
		return
	}
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.carts.SetSelection(c.Request.Context(), owner, id, *req.Quantity); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) resetSelections(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	if err := h.carts.ResetSelections(c.Request.Context(), owner); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getCart(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	cart, err := h.carts.Cart(c.Request.Context(), owner)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toPricedResponse(cart)})
}

func (h *Handler) addToCart(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cart, err := h.carts.AddToCart(c.Request.Context(), owner, req.ServiceID, req.Quantity)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toPricedResponse(cart)})
}

func (h *Handler) addSelectionsToCart(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	cart, err := h.carts.AddSelectionsToCart(c.Request.Context(), owner)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toPricedResponse(cart)})
}

func (h *Handler) updateQuantity(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "serviceId")
	if !ok {
		return
	}
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cart, err := h.carts.UpdateQuantity(c.Request.Context(), owner, id, *req.Quantity)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toPricedResponse(cart)})
}

func (h *Handler) removeFromCart(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "serviceId")
	if !ok {
		return
	}
	cart, err := h.carts.RemoveFromCart(c.Request.Context(), owner, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toPricedResponse(cart)})
}

func (h *Handler) clearCart(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	if err := h.carts.ClearCart(c.Request.Context(), owner); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) checkout(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	receipt, err := h.carts.Checkout(c.Request.Context(), owner)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toPricedResponse(receipt)})
}

func (h *Handler) exportXLSX(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	result, err := h.exports.ExportXLSX(c.Request.Context(), owner)
	if err != nil {
		h.handleError(c, err)
		return
	}
	const contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentType, result.Content)
}

func (h *Handler) exportPDF(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	result, err := h.exports.ExportPDF(c.Request.Context(), owner)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) owner(c *gin.Context) (string, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return "", false
	}
	return principal.Owner(), true
}

func (h *Handler) pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
