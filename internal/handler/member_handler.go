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

type MemberHandler struct {
	svc *service.MemberService
	log *zap.Logger
}

type MemberAddReq struct {
	UserIDs []uint64 `json:"userIds"`
}

type RoleUpdateReq struct {
	Role string `json:"role"`
}

func NewMemberHandler(svc *service.MemberService, log *zap.Logger) *MemberHandler {
	return &MemberHandler{svc: svc, log: log}
}

func (h *MemberHandler) Add(c *gin.Context) {
	userID := middleware.UserID(c)
	groupID, err := pathID(c, "id")
	if err != nil {
		fail(c, h.log, err)
		return
	}

	var req MemberAddReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.log, fmt.Errorf("%w: invalid params", pkg.ErrValidation))
		return
	}

	added, failed, err := h.svc.AddMembers(c.Request.Context(), groupID, userID, req.UserIDs)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"added": added, "failed": failed})
}

func (h *MemberHandler) Remove(c *gin.Context) {
	userID := middleware.UserID(c)
	groupID, err := pathID(c, "id")
	if err != nil {
		fail(c, h.log, err)
		return
	}
	targetID, err := pathID(c, "uid")
	if err != nil {
		fail(c, h.log, err)
		return
	}

	if err := h.svc.Remove(c.Request.Context(), groupID, targetID, userID); err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *MemberHandler) UpdateRole(c *gin.Context) {
	userID := middleware.UserID(c)
	groupID, err := pathID(c, "id")
	if err != nil {
		fail(c, h.log, err)
		return
	}
	targetID, err := pathID(c, "uid")
	if err != nil {
		fail(c, h.log, err)
		return
	}

	var req RoleUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.log, fmt.Errorf("%w: invalid params", pkg.ErrValidation))
		return
	}

	member, err := h.svc.UpdateRole(c.Request.Context(), groupID, targetID, req.Role, userID)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":  member.UserID,
		"groupId": member.GroupID,
		"role":    member.Role,
	})
}

func (h *MemberHandler) Leave(c *gin.Context) {
	userID := middleware.UserID(c)
	groupID, err := pathID(c, "id")
	if err != nil {
		fail(c, h.log, err)
		return
	}

	if err := h.svc.Leave(c.Request.Context(), groupID, userID); err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
