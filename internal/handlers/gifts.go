package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wishlist/api/internal/service"
)

type createGiftRequest struct {
	Name     string  `json:"name" binding:"required,max=200"`
	Comments string  `json:"comments" binding:"max=2000"`
	URL      *string `json:"url" binding:"omitempty,url"`
	UserID   string  `json:"userId" binding:"required"`
}

func (h HandlerSet) CreateGift(c *gin.Context) {
	var req createGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	gift, err := h.gifts.Create(c.Request.Context(), session(c), service.CreateGiftInput{
		Name:     req.Name,
		Comments: req.Comments,
		URL:      req.URL,
		UserID:   req.UserID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newGiftResponse(gift))
}

type giftListResponse struct {
	Data   []giftResponse `json:"data"`
	Count  int            `json:"count"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

func (h HandlerSet) ListGifts(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.respondBindError(c, err)
		return
	}

	page, err := h.gifts.ListByUser(c.Request.Context(), c.Param("user_id"), q.Limit, q.Offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	data := make([]giftResponse, 0, len(page.Data))
	for _, g := range page.Data {
		data = append(data, newGiftResponse(g))
	}
	c.JSON(http.StatusOK, giftListResponse{Data: data, Count: page.Count, Limit: page.Limit, Offset: page.Offset})
}

func (h HandlerSet) GetGift(c *gin.Context) {
	gift, err := h.gifts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGiftResponse(gift))
}

type updateGiftRequest struct {
	Reserved   *bool   `json:"reserved"`
	ReservedBy *string `json:"reservedBy" binding:"omitempty,max=200"`
	Received   *bool   `json:"received"`
}

func (h HandlerSet) UpdateGift(c *gin.Context) {
	var req updateGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	gift, err := h.gifts.UpdateByID(c.Request.Context(), c.Param("id"), service.GiftUpdate{
		Reserved:   req.Reserved,
		ReservedBy: req.ReservedBy,
		Received:   req.Received,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGiftResponse(gift))
}

func (h HandlerSet) DeleteGift(c *gin.Context) {
	if err := h.gifts.DeleteByID(c.Request.Context(), session(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
