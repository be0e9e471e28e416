package handler

import (
	"fmt"
	"net/http"

	"Lee_Chat/internal/middleware"
	"Lee_Chat/internal/pkg"
	"Lee_Chat/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	svc *service.UserService
	log *zap.Logger
}

type RegisterReq struct {
	Username string `json:"username" binding:"required"`
	FullName string `json:"fullName" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Email    string `json:"email" binding:"required,email"`
	Code     string `json:"code" binding:"required,len=6"`
}

type ResetReq struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func NewUserHandler(svc *service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.log, fmt.Errorf("%w: invalid params", pkg.ErrValidation))
		return
	}

	if err := h.svc.Register(c.Request.Context(), req.Username, req.FullName, req.Password, req.Email, req.Code); err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"msg": "ok"})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.log, fmt.Errorf("%w: invalid params", pkg.ErrValidation))
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

func (h *UserHandler) Logout(c *gin.Context) {
	userID := middleware.UserID(c)

	if err := h.svc.Logout(c.Request.Context(), userID); err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *UserHandler) TokenRefresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.log, fmt.Errorf("%w: invalid params", pkg.ErrValidation))
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		fail(c, h.log, fmt.Errorf("%w: %s", pkg.ErrUnauthorized, err))
		return
	}

	c.JSON(http.StatusOK, pair)
}

func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req ResetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.log, fmt.Errorf("%w: invalid params", pkg.ErrValidation))
		return
	}

	if err := h.svc.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "reset password successfully"})
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.log, fmt.Errorf("%w: invalid params", pkg.ErrValidation))
		return
	}

	userID := middleware.UserID(c)
	if err := h.svc.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "change password successfully"})
}
