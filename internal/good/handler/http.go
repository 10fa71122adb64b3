package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"online-shop/backend/internal/good/service"
)

// GoodHandler wires the good service to gin routes.
type GoodHandler struct {
	goods *service.GoodService
}

// NewGoodHandler returns a GoodHandler.
func NewGoodHandler(goods *service.GoodService) *GoodHandler {
	return &GoodHandler{goods: goods}
}

// Register wires the read routes onto public and the mutation routes onto
// admin.
func (h *GoodHandler) Register(public, admin gin.IRouter) {
	public.GET("/goods/:id", h.get)
	admin.POST("/goods", h.create)
}

type createGoodRequest struct {
	Name       string  `json:"name" binding:"required"`
	Price      float64 `json:"price" binding:"required"`
	CategoryID string  `json:"categoryId" binding:"required"`
}

func (h *GoodHandler) create(c *gin.Context) {
	var req createGoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	good, err := h.goods.Create(c.Request.Context(), req.Name, req.Price, req.CategoryID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, good)
}

func (h *GoodHandler) get(c *gin.Context) {
	good, err := h.goods.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, good)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGoodNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnknownCategory):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
