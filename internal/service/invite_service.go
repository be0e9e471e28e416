package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Lee_Chat/internal/model"
	"Lee_Chat/internal/pkg"
)

const inviteTokenBytes = 32

type InviteService struct {
	groups  GroupRepository
	members MemberRepository
	users   UserRepository
	gate    *Gate
	ttl     time.Duration
}

func NewInviteService(groups GroupRepository, members MemberRepository, users UserRepository, gate *Gate, ttl time.Duration) *InviteService {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &InviteService{groups: groups, members: members, users: users, gate: gate, ttl: ttl}
}

type Invite struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Generate 轮换群组邀请令牌，旧令牌立即失效
func (s *InviteService) Generate(ctx context.Context, groupID, requesterID uint64) (*Invite, error) {
	if _, err := s.groups.FindByID(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.gate.RequireAdmin(ctx, groupID, requesterID); err != nil {
		return nil, err
	}
	token, err := pkg.RandHex(inviteTokenBytes)
	if err != nil {
		return nil, err
	}
	expires := time.Now().Add(s.ttl)
	if err := s.groups.RotateInvite(ctx, groupID, token, expires); err != nil {
		return nil, err
	}
	return &Invite{Token: token, ExpiresAt: expires}, nil
}

// Resolve 令牌可多次使用，过期后返回 ErrExpired
func (s *InviteService) Resolve(ctx context.Context, token string) (*model.Group, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: invite token required", pkg.ErrValidation)
	}
	group, err := s.groups.FindByInviteToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if group.InviteExpires == nil || time.Now().After(*group.InviteExpires) {
		return nil, pkg.ErrExpired
	}
	return group, nil
}

// Accept 持令牌入群；已是成员返回现有成员关系和 ErrConflict
func (s *InviteService) Accept(ctx context.Context, token string, userID uint64) (*model.GroupMember, error) {
	group, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if existing, err := s.members.Find(ctx, group.ID, userID); err == nil {
		return existing, pkg.ErrConflict
	} else if !errors.Is(err, pkg.ErrNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	member := &model.GroupMember{
		GroupID:  group.ID,
		UserID:   userID,
		Role:     model.RoleMember,
		JoinedAt: time.Now(),
	}
	if err := s.members.Add(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}
