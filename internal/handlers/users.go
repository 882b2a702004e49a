package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"wishlist/api/internal/apperr"
	"wishlist/api/internal/media"
	"wishlist/api/internal/models"
	"wishlist/api/internal/service"
)

type registerRequest struct {
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email,max=254"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	result, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{User: newUserResponse(result.User), Token: result.Token})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	result, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{User: newUserResponse(result.User), Token: result.Token})
}

type listQuery struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

type userListResponse struct {
	Data   []userResponse `json:"data"`
	Count  int            `json:"count"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

func (h HandlerSet) ListUsers(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.respondBindError(c, err)
		return
	}

	page, err := h.users.List(c.Request.Context(), q.Limit, q.Offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	data := make([]userResponse, 0, len(page.Data))
	for _, u := range page.Data {
		data = append(data, newUserResponse(u))
	}
	c.JSON(http.StatusOK, userListResponse{Data: data, Count: page.Count, Limit: page.Limit, Offset: page.Offset})
}

func (h HandlerSet) GetUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

type updateUserRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" binding:"omitempty,min=1,max=100"`
	Email     *string `json:"email" binding:"omitempty,email,max=254"`
}

func (h HandlerSet) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	user, err := h.users.UpdateByID(c.Request.Context(), session(c), c.Param("id"), service.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h HandlerSet) DeleteUser(c *gin.Context) {
	if err := h.users.DeleteByID(c.Request.Context(), session(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type rolesRequest struct {
	Roles []string `json:"roles" binding:"required,min=1"`
}

func (h HandlerSet) SetUserRoles(c *gin.Context) {
	var req rolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	user, err := h.users.SetRoles(c.Request.Context(), session(c), c.Param("id"), models.RolesFromStrings(req.Roles))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h HandlerSet) UploadUserImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.respondError(c, apperr.Wrap(apperr.CodeValidation, "file is required", err))
		return
	}
	defer file.Close()

	// one byte over the limit is enough for the service to reject it
	data, err := io.ReadAll(io.LimitReader(file, h.cfg.Storage.MaxImageBytes+1))
	if err != nil {
		h.respondError(c, apperr.Wrap(apperr.CodeValidation, "could not read file", err))
		return
	}

	user, err := h.users.SetImage(c.Request.Context(), session(c), c.Param("id"), service.ImageUpload{
		Data:         data,
		DeclaredType: media.DeclaredType(http.Header(header.Header)),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h HandlerSet) GetUserImage(c *gin.Context) {
	url, err := h.users.ImageURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
