package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"Lee_Chat/internal/model"
	"Lee_Chat/internal/pkg"
)

type GroupService struct {
	groups  GroupRepository
	members MemberRepository
	users   UserRepository
	gate    *Gate
}

func NewGroupService(groups GroupRepository, members MemberRepository, users UserRepository, gate *Gate) *GroupService {
	return &GroupService{groups: groups, members: members, users: users, gate: gate}
}

type UserRef struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type GroupSummary struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   UserRef   `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joinedAt"`
	IsCreator   bool      `json:"isCreator"`
}

type MemberInfo struct {
	UserRef
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Create 创建群组并把创建者落为 admin，两条写入同一事务
func (s *GroupService) Create(ctx context.Context, creatorID uint64, name, description string) (*model.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name required", pkg.ErrValidation)
	}
	if _, err := s.users.FindByID(ctx, creatorID); err != nil {
		return nil, err
	}

	group := &model.Group{
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatorID:   creatorID,
	}
	if err := s.groups.CreateWithAdmin(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// Edit 仅 admin 可改名称/描述
func (s *GroupService) Edit(ctx context.Context, groupID, requesterID uint64, name, description *string) (*model.Group, error) {
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.RequireAdmin(ctx, groupID, requesterID); err != nil {
		return nil, err
	}

	newName := group.Name
	if name != nil {
		newName = strings.TrimSpace(*name)
		if newName == "" {
			return nil, fmt.Errorf("%w: group name required", pkg.ErrValidation)
		}
	}
	newDesc := group.Description
	if description != nil {
		newDesc = strings.TrimSpace(*description)
	}

	if err := s.groups.UpdateInfo(ctx, groupID, newName, newDesc); err != nil {
		return nil, err
	}
	group.Name = newName
	group.Description = newDesc
	return group, nil
}

// ListForUser 请求者加入的群组列表，附本人角色和创建者信息
func (s *GroupService) ListForUser(ctx context.Context, userID uint64) ([]GroupSummary, error) {
	memberships, err := s.members.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.GroupID)
	}
	groups, err := s.groups.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]model.Group, len(groups))
	creatorIDs := make([]uint64, 0, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
		creatorIDs = append(creatorIDs, g.CreatorID)
	}
	creators, err := s.userRefs(ctx, creatorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]GroupSummary, 0, len(memberships))
	for _, m := range memberships {
		g, ok := byID[m.GroupID]
		if !ok {
			continue
		}
		out = append(out, GroupSummary{
			ID:          g.ID,
			Name:        g.Name,
			Description: g.Description,
			CreatedBy:   creators[g.CreatorID],
			CreatedAt:   g.CreatedAt,
			Role:        m.Role,
			JoinedAt:    m.JoinedAt,
			IsCreator:   g.CreatorID == userID,
		})
	}
	return out, nil
}

// Members 成员列表，仅对群成员可见
func (s *GroupService) Members(ctx context.Context, groupID, requesterID uint64) ([]MemberInfo, error) {
	if _, err := s.groups.FindByID(ctx, groupID); err != nil {
		return nil, err
	}
	if _, err := s.gate.CheckMembership(ctx, groupID, requesterID); err != nil {
		return nil, err
	}
	memberships, err := s.members.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.UserID)
	}
	refs, err := s.userRefs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]MemberInfo, 0, len(memberships))
	for _, m := range memberships {
		out = append(out, MemberInfo{
			UserRef:  refs[m.UserID],
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
		})
	}
	return out, nil
}

func (s *GroupService) userRefs(ctx context.Context, ids []uint64) (map[uint64]UserRef, error) {
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	refs := make(map[uint64]UserRef, len(users))
	for _, u := range users {
		refs[u.ID] = UserRef{ID: u.ID, Name: u.FullName, Email: u.Email}
	}
	return refs, nil
}
