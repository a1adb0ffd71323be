package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"go-user-api/internal/service"
	"go-user-api/internal/transport/http/response"
	"go-user-api/pkg/validation"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Name length is checked by the service after trimming, so the tags
// only assert presence and email shape here.
type createUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,emailfmt"`
}

type updateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,emailfmt"`
}

func (h *UserHandler) List(c *gin.Context) (any, error) {
	page := atoiDefault(c.Query("page"), service.DefaultPage)
	limit := atoiDefault(c.Query("limit"), service.DefaultLimit)
	return h.svc.List(c.Request.Context(), page, limit)
}

func (h *UserHandler) Get(c *gin.Context) (any, error) {
	return h.svc.Get(c.Request.Context(), c.Param("id"))
}

func (h *UserHandler) Create(c *gin.Context) (any, error) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, validation.FromBinding(err)
	}
	return h.svc.Create(c.Request.Context(), service.CreateInput{
		Name:  req.Name,
		Email: req.Email,
	})
}

func (h *UserHandler) Update(c *gin.Context) (any, error) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, validation.FromBinding(err)
	}
	return h.svc.Update(c.Request.Context(), c.Param("id"), service.UpdateInput{
		Name:  req.Name,
		Email: req.Email,
	})
}

func (h *UserHandler) Delete(c *gin.Context) (any, error) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		return nil, err
	}
	return response.Message{Message: "User deleted successfully"}, nil
}

func (h *UserHandler) Search(c *gin.Context) (any, error) {
	return h.svc.Search(c.Request.Context(), c.Param("query"))
}

// atoiDefault coerces non-numeric and non-positive values to def.
func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}
