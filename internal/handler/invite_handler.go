package handler

import (
	"errors"
	"net/http"

	"Lee_Chat/internal/middleware"
	"Lee_Chat/internal/pkg"
	"Lee_Chat/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InviteHandler struct {
	svc *service.InviteService
	log *zap.Logger
}

func NewInviteHandler(svc *service.InviteService, log *zap.Logger) *InviteHandler {
	return &InviteHandler{svc: svc, log: log}
}

func (h *InviteHandler) Generate(c *gin.Context) {
	userID := middleware.UserID(c)
	groupID, err := pathID(c, "id")
	if err != nil {
		fail(c, h.log, err)
		return
	}

	invite, err := h.svc.Generate(c.Request.Context(), groupID, userID)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     invite.Token,
		"expiresAt": invite.ExpiresAt,
	})
}

func (h *InviteHandler) Join(c *gin.Context) {
	userID := middleware.UserID(c)
	token := c.Param("token")

	member, err := h.svc.Accept(c.Request.Context(), token, userID)
	if err != nil {
		// 已是成员：附带现有角色返回
		if errors.Is(err, pkg.ErrConflict) && member != nil {
			c.JSON(http.StatusConflict, gin.H{
				"msg":     "already a member",
				"groupId": member.GroupID,
				"role":    member.Role,
			})
			return
		}
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"groupId":  member.GroupID,
		"role":     member.Role,
		"joinedAt": member.JoinedAt,
	})
}
