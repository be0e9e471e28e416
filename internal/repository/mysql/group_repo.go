package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"Lee_Chat/internal/model"
	"Lee_Chat/internal/pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GroupRepository struct {
	DB *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

// CreateWithAdmin 群组和创建者的 admin 成员在同一事务内落库，任一失败整体回滚
func (r *GroupRepository) CreateWithAdmin(ctx context.Context, g *model.Group) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(g).Error; err != nil {
			return err
		}
		member := &model.GroupMember{
			GroupID:  g.ID,
			UserID:   g.CreatorID,
			Role:     model.RoleAdmin,
			JoinedAt: time.Now(),
		}
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		return insertOutbox(tx, "group_created", g.ID, g.CreatorID, map[string]any{
			"name": g.Name,
		})
	})
}

func (r *GroupRepository) FindByID(ctx context.Context, id uint64) (*model.Group, error) {
	var g model.Group
	if err := r.DB.WithContext(ctx).First(&g, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *GroupRepository) FindByIDs(ctx context.Context, ids []uint64) ([]model.Group, error) {
	var list []model.Group
	if len(ids) == 0 {
		return list, nil
	}
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error
	return list, err
}

func (r *GroupRepository) UpdateInfo(ctx context.Context, id uint64, name, description string) error {
	tx := r.DB.WithContext(ctx).Model(&model.Group{}).Where("id = ?", id).
		Updates(map[string]any{"name": name, "description": description})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return pkg.ErrNotFound
	}
	return nil
}

func (r *GroupRepository) FindByInviteToken(ctx context.Context, token string) (*model.Group, error) {
	var g model.Group
	err := r.DB.WithContext(ctx).Where("invite_token = ?", token).First(&g).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// RotateInvite 群组行加锁串行化轮换；提交后旧令牌不再可解析
func (r *GroupRepository) RotateInvite(ctx context.Context, groupID uint64, token string, expires time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g model.Group
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&g, groupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkg.ErrNotFound
			}
			return err
		}
		if err := tx.Model(&model.Group{}).Where("id = ?", groupID).
			Updates(map[string]any{"invite_token": token, "invite_expires": expires}).Error; err != nil {
			return err
		}
		return insertOutbox(tx, "invite_rotated", groupID, g.CreatorID, map[string]any{
			"expires_at": expires.UTC().Format(time.RFC3339),
		})
	})
}

// insertOutbox 事件随业务写入同一事务
func insertOutbox(tx *gorm.DB, event string, groupID, actorID uint64, extra map[string]any) error {
	payload := map[string]any{
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"group_id":   groupID,
		"actor_id":   actorID,
	}
	for k, v := range extra {
		payload[k] = v
	}
	raw, _ := json.Marshal(payload)
	ob := &model.GroupOutbox{
		EventType: event,
		GroupID:   groupID,
		ActorID:   actorID,
		Payload:   string(raw),
		Status:    0,
	}
	return tx.Create(ob).Error
}
