package model

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	MessageText  = "text"
	MessageImage = "image"
	MessageVideo = "video"
	MessageAudio = "audio"
	MessageFile  = "file"
)

type Message struct {
	ID        uint64    `gorm:"primaryKey;index:idx_group_time_id,priority:3"`
	GroupID   uint64    `gorm:"not null;index:idx_group_time_id,priority:1"`
	SenderID  uint64    `gorm:"not null;index"`
	Content   string    `gorm:"type:text;not null"`
	Type      string    `gorm:"size:16;not null;default:'text'"`
	CreatedAt time.Time `gorm:"index:idx_group_time_id,priority:2"`
}

// FileRef 非文本消息的结构化内容，序列化后存入 content 列
type FileRef struct {
	FileName    string `json:"fileName"`
	Size        int64  `json:"size"`
	MimeType    string `json:"mimeType"`
	URL         string `json:"url"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

// TypeForMime 按 MIME 前缀推导消息类型
func TypeForMime(mime string) string {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return MessageImage
	case strings.HasPrefix(mime, "video/"):
		return MessageVideo
	case strings.HasPrefix(mime, "audio/"):
		return MessageAudio
	default:
		return MessageFile
	}
}

func (f *FileRef) Encode() (string, error) {
	b, err := json.Marshal(f)
	return string(b), err
}

// DecodeFileRef 解析失败返回 nil，由调用方降级为占位文本
func DecodeFileRef(content string) *FileRef {
	var f FileRef
	if err := json.Unmarshal([]byte(content), &f); err != nil {
		return nil
	}
	return &f
}
