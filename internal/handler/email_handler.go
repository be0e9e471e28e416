package handler

import (
	"fmt"
	"net/http"

	"Lee_Chat/internal/pkg"
	"Lee_Chat/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EmailHandler struct {
	svc *service.EmailService
	log *zap.Logger
}

type SendCodeReq struct {
	Email string `json:"email" binding:"required,email"`
}

func NewEmailHandler(svc *service.EmailService, log *zap.Logger) *EmailHandler {
	return &EmailHandler{svc: svc, log: log}
}

func (h *EmailHandler) SendCode(c *gin.Context) {
	scope := c.Param("scope")
	if scope != "register" && scope != "reset" {
		fail(c, h.log, fmt.Errorf("%w: unknown scope %q", pkg.ErrValidation, scope))
		return
	}

	var req SendCodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.log, fmt.Errorf("%w: invalid params", pkg.ErrValidation))
		return
	}

	if err := h.svc.SendCode(c.Request.Context(), scope, req.Email); err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
