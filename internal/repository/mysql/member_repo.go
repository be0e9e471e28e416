package mysql

import (
	"context"
	"errors"

	"Lee_Chat/internal/model"
	"Lee_Chat/internal/pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemberRepository struct {
	DB *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{DB: db}
}

// Add 重复的 (group_id, user_id) 返回 ErrConflict
func (r *MemberRepository) Add(ctx context.Context, m *model.GroupMember) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(m)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return pkg.ErrConflict
		}
		return insertOutbox(tx, "member_added", m.GroupID, m.UserID, map[string]any{
			"role": m.Role,
		})
	})
}

func (r *MemberRepository) Find(ctx context.Context, groupID, userID uint64) (*model.GroupMember, error) {
	var m model.GroupMember
	err := r.DB.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepository) ListByGroup(ctx context.Context, groupID uint64) ([]model.GroupMember, error) {
	var list []model.GroupMember
	err := r.DB.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("joined_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *MemberRepository) ListByUser(ctx context.Context, userID uint64) ([]model.GroupMember, error) {
	var list []model.GroupMember
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("joined_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *MemberRepository) CountAdmins(ctx context.Context, groupID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.GroupMember{}).
		Where("group_id = ? AND role = ?", groupID, model.RoleAdmin).
		Count(&n).Error
	return n, err
}

// Remove 目标是 admin 时在同一事务内重查 admin 数，仅剩一个则整体回滚。
// 群组行 FOR UPDATE 串行化同组的并发 check-then-act。
func (r *MemberRepository) Remove(ctx context.Context, groupID, userID, actorID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockGroup(tx, groupID); err != nil {
			return err
		}
		var m model.GroupMember
		if err := tx.Where("group_id = ? AND user_id = ?", groupID, userID).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkg.ErrNotFound
			}
			return err
		}
		if m.Role == model.RoleAdmin {
			var admins int64
			if err := tx.Model(&model.GroupMember{}).
				Where("group_id = ? AND role = ?", groupID, model.RoleAdmin).
				Count(&admins).Error; err != nil {
				return err
			}
			if admins <= 1 {
				return pkg.ErrLastAdmin
			}
		}
		if err := tx.Delete(&model.GroupMember{}, m.ID).Error; err != nil {
			return err
		}
		return insertOutbox(tx, "member_removed", groupID, actorID, map[string]any{
			"user_id": userID,
			"role":    m.Role,
		})
	})
}

// UpdateRole 同角色请求返回 ErrNoChange；降级前同事务校验 admin 数
func (r *MemberRepository) UpdateRole(ctx context.Context, groupID, userID uint64, newRole string, actorID uint64) (*model.GroupMember, error) {
	var updated model.GroupMember
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockGroup(tx, groupID); err != nil {
			return err
		}
		var m model.GroupMember
		if err := tx.Where("group_id = ? AND user_id = ?", groupID, userID).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkg.ErrNotFound
			}
			return err
		}
		if m.Role == newRole {
			return pkg.ErrNoChange
		}
		if m.Role == model.RoleAdmin && newRole == model.RoleMember {
			var admins int64
			if err := tx.Model(&model.GroupMember{}).
				Where("group_id = ? AND role = ?", groupID, model.RoleAdmin).
				Count(&admins).Error; err != nil {
				return err
			}
			if admins <= 1 {
				return pkg.ErrLastAdmin
			}
		}
		if err := tx.Model(&model.GroupMember{}).Where("id = ?", m.ID).
			Update("role", newRole).Error; err != nil {
			return err
		}
		m.Role = newRole
		updated = m
		return insertOutbox(tx, "role_changed", groupID, actorID, map[string]any{
			"user_id":  userID,
			"new_role": newRole,
		})
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// lockGroup SELECT ... FOR UPDATE 群组行，不存在返回 ErrNotFound
func lockGroup(tx *gorm.DB, groupID uint64) error {
	var g model.Group
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").First(&g, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.ErrNotFound
		}
		return err
	}
	return nil
}
