package mysql

import (
	"context"

	"Lee_Chat/internal/model"

	"gorm.io/gorm"
)

type MessageRepository struct {
	DB *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *model.Message) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return insertOutbox(tx, "message_posted", m.GroupID, m.SenderID, map[string]any{
			"message_id": m.ID,
			"type":       m.Type,
		})
	})
}

// ListByGroup 升序返回，同一时刻按插入顺序（id）打破并列
func (r *MessageRepository) ListByGroup(ctx context.Context, groupID uint64) ([]model.Message, error) {
	var list []model.Message
	err := r.DB.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}
