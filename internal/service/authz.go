package service

import (
	"context"
	"errors"

	"Lee_Chat/internal/model"
	"Lee_Chat/internal/pkg"
)

// Gate 只读的成员/角色校验，所有业务操作的前置条件
type Gate struct {
	members MemberRepository
}

func NewGate(members MemberRepository) *Gate {
	return &Gate{members: members}
}

func (g *Gate) CheckMembership(ctx context.Context, groupID, userID uint64) (*model.GroupMember, error) {
	m, err := g.members.Find(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, pkg.ErrNotMember
		}
		return nil, err
	}
	return m, nil
}

// RequireRole 精确匹配，要求 admin 时 member 不够格
func (g *Gate) RequireRole(ctx context.Context, groupID, userID uint64, role string) error {
	m, err := g.members.Find(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return pkg.ErrForbidden
		}
		return err
	}
	if m.Role != role {
		return pkg.ErrForbidden
	}
	return nil
}

func (g *Gate) RequireAdmin(ctx context.Context, groupID, userID uint64) error {
	return g.RequireRole(ctx, groupID, userID, model.RoleAdmin)
}
