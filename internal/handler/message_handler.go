package handler

import (
	"fmt"
	"net/http"

	"Lee_Chat/internal/middleware"
	"Lee_Chat/internal/model"
	"Lee_Chat/internal/pkg"
	"Lee_Chat/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MessageHandler struct {
	svc *service.MessageService
	log *zap.Logger
}

type MessagePostReq struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

type FilePostReq struct {
	FileName    string `json:"fileName"`
	Size        int64  `json:"size"`
	MimeType    string `json:"mimeType"`
	URL         string `json:"url"`
	DownloadURL string `json:"downloadUrl"`
}

func NewMessageHandler(svc *service.MessageService, log *zap.Logger) *MessageHandler {
	return &MessageHandler{svc: svc, log: log}
}

func (h *MessageHandler) Post(c *gin.Context) {
	userID := middleware.UserID(c)
	groupID, err := pathID(c, "id")
	if err != nil {
		fail(c, h.log, err)
		return
	}

	var req MessagePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.log, fmt.Errorf("%w: invalid params", pkg.ErrValidation))
		return
	}

	msg, err := h.svc.Post(c.Request.Context(), groupID, userID, req.Content, req.Type)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        msg.ID,
		"type":      msg.Type,
		"createdAt": msg.CreatedAt,
	})
}

// PostFile 文件已由上传服务落盘，这里只登记描述信息
func (h *MessageHandler) PostFile(c *gin.Context) {
	userID := middleware.UserID(c)
	groupID, err := pathID(c, "id")
	if err != nil {
		fail(c, h.log, err)
		return
	}

	var req FilePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.log, fmt.Errorf("%w: invalid params", pkg.ErrValidation))
		return
	}

	msg, err := h.svc.PostFile(c.Request.Context(), groupID, userID, model.FileRef{
		FileName:    req.FileName,
		Size:        req.Size,
		MimeType:    req.MimeType,
		URL:         req.URL,
		DownloadURL: req.DownloadURL,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        msg.ID,
		"type":      msg.Type,
		"createdAt": msg.CreatedAt,
	})
}

func (h *MessageHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)
	groupID, err := pathID(c, "id")
	if err != nil {
		fail(c, h.log, err)
		return
	}

	messages, err := h.svc.List(c.Request.Context(), groupID, userID)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "total": len(messages)})
}
