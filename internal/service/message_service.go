package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"Lee_Chat/internal/model"
	"Lee_Chat/internal/pkg"
)

type MessageService struct {
	messages MessageRepository
	groups   GroupRepository
	users    UserRepository
	gate     *Gate
}

func NewMessageService(messages MessageRepository, groups GroupRepository, users UserRepository, gate *Gate) *MessageService {
	return &MessageService{messages: messages, groups: groups, users: users, gate: gate}
}

type MessageView struct {
	ID        uint64         `json:"id"`
	Type      string         `json:"type"`
	Text      string         `json:"text"`
	File      *model.FileRef `json:"file,omitempty"`
	Sender    *UserRef       `json:"sender,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	IsOwn     bool           `json:"isOwn"`
}

func validMessageType(t string) bool {
	switch t {
	case model.MessageText, model.MessageImage, model.MessageVideo, model.MessageAudio, model.MessageFile:
		return true
	}
	return false
}

// Post 仅群成员可发；非文本类型的 content 必须是合法的文件描述
func (s *MessageService) Post(ctx context.Context, groupID, senderID uint64, content, msgType string) (*model.Message, error) {
	if msgType == "" {
		msgType = model.MessageText
	}
	if !validMessageType(msgType) {
		return nil, fmt.Errorf("%w: unknown message type %q", pkg.ErrValidation, msgType)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: message content cannot be empty", pkg.ErrValidation)
	}
	if msgType != model.MessageText && model.DecodeFileRef(content) == nil {
		return nil, fmt.Errorf("%w: %s message requires a file descriptor", pkg.ErrValidation, msgType)
	}
	if _, err := s.gate.CheckMembership(ctx, groupID, senderID); err != nil {
		return nil, err
	}

	msg := &model.Message{
		GroupID:  groupID,
		SenderID: senderID,
		Content:  content,
		Type:     msgType,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// PostFile 上传协作方产出文件描述后走这里，消息类型按 MIME 推导
func (s *MessageService) PostFile(ctx context.Context, groupID, senderID uint64, ref model.FileRef) (*model.Message, error) {
	if ref.FileName == "" || ref.URL == "" {
		return nil, fmt.Errorf("%w: file name and url required", pkg.ErrValidation)
	}
	content, err := ref.Encode()
	if err != nil {
		return nil, err
	}
	return s.Post(ctx, groupID, senderID, content, model.TypeForMime(ref.MimeType))
}

// List 升序返回全部消息并补全发送者；文件描述解析失败降级为占位文本
func (s *MessageService) List(ctx context.Context, groupID, requesterID uint64) ([]MessageView, error) {
	if _, err := s.groups.FindByID(ctx, groupID); err != nil {
		return nil, err
	}
	if _, err := s.gate.CheckMembership(ctx, groupID, requesterID); err != nil {
		return nil, err
	}
	messages, err := s.messages.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]uint64, 0, len(messages))
	seen := make(map[uint64]bool, len(messages))
	for _, m := range messages {
		if !seen[m.SenderID] {
			seen[m.SenderID] = true
			senderIDs = append(senderIDs, m.SenderID)
		}
	}
	users, err := s.users.FindByIDs(ctx, senderIDs)
	if err != nil {
		return nil, err
	}
	senders := make(map[uint64]UserRef, len(users))
	for _, u := range users {
		senders[u.ID] = UserRef{ID: u.ID, Name: u.FullName, Email: u.Email}
	}

	out := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		view := MessageView{
			ID:        m.ID,
			Type:      m.Type,
			Text:      m.Content,
			CreatedAt: m.CreatedAt,
			IsOwn:     m.SenderID == requesterID,
		}
		if ref, ok := senders[m.SenderID]; ok {
			sender := ref
			view.Sender = &sender
		}
		if m.Type != model.MessageText {
			if f := model.DecodeFileRef(m.Content); f != nil {
				view.File = f
				view.Text = fmt.Sprintf("[%s] %s", strings.ToUpper(m.Type), f.FileName)
			} else {
				view.Text = fmt.Sprintf("[%s] File", strings.ToUpper(m.Type))
			}
		}
		out = append(out, view)
	}
	return out, nil
}
