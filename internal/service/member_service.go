package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Lee_Chat/internal/model"
	"Lee_Chat/internal/pkg"
)

type MemberService struct {
	members MemberRepository
	groups  GroupRepository
	users   UserRepository
	gate    *Gate
}

func NewMemberService(members MemberRepository, groups GroupRepository, users UserRepository, gate *Gate) *MemberService {
	return &MemberService{members: members, groups: groups, users: users, gate: gate}
}

type AddFailure struct {
	UserID uint64 `json:"userId"`
	Reason string `json:"reason"`
}

// AddMembers 批量拉人，逐个报告成功/失败
func (s *MemberService) AddMembers(ctx context.Context, groupID, requesterID uint64, userIDs []uint64) ([]UserRef, []AddFailure, error) {
	if len(userIDs) == 0 {
		return nil, nil, fmt.Errorf("%w: userIds required", pkg.ErrValidation)
	}
	if err := s.gate.RequireAdmin(ctx, groupID, requesterID); err != nil {
		return nil, nil, err
	}
	if _, err := s.groups.FindByID(ctx, groupID); err != nil {
		return nil, nil, err
	}

	var added []UserRef
	var failed []AddFailure
	for _, uid := range userIDs {
		user, err := s.users.FindByID(ctx, uid)
		if err != nil {
			if errors.Is(err, pkg.ErrNotFound) {
				failed = append(failed, AddFailure{UserID: uid, Reason: "user not found"})
				continue
			}
			return nil, nil, err
		}
		err = s.members.Add(ctx, &model.GroupMember{
			GroupID:  groupID,
			UserID:   uid,
			Role:     model.RoleMember,
			JoinedAt: time.Now(),
		})
		if err != nil {
			if errors.Is(err, pkg.ErrConflict) {
				failed = append(failed, AddFailure{UserID: uid, Reason: "already a member"})
				continue
			}
			return nil, nil, err
		}
		added = append(added, UserRef{ID: user.ID, Name: user.FullName, Email: user.Email})
	}
	return added, failed, nil
}

// Remove 管理员可移除任何成员；成员只能移除自己（即退群）。
// 目标是最后一个 admin 时仓储层返回 ErrLastAdmin，状态不变。
func (s *MemberService) Remove(ctx context.Context, groupID, userID, requesterID uint64) error {
	if requesterID != userID {
		if err := s.gate.RequireAdmin(ctx, groupID, requesterID); err != nil {
			return err
		}
	}
	return s.members.Remove(ctx, groupID, userID, requesterID)
}

// Leave 自助退群，同样受最后一个 admin 守卫约束
func (s *MemberService) Leave(ctx context.Context, groupID, userID uint64) error {
	return s.members.Remove(ctx, groupID, userID, userID)
}

// UpdateRole 角色未变返回 ErrNoChange；降级最后一个 admin 返回 ErrLastAdmin
func (s *MemberService) UpdateRole(ctx context.Context, groupID, userID uint64, newRole string, requesterID uint64) (*model.GroupMember, error) {
	if newRole != model.RoleAdmin && newRole != model.RoleMember {
		return nil, fmt.Errorf("%w: role must be admin or member", pkg.ErrValidation)
	}
	if err := s.gate.RequireAdmin(ctx, groupID, requesterID); err != nil {
		return nil, err
	}
	return s.members.UpdateRole(ctx, groupID, userID, newRole, requesterID)
}

func (s *MemberService) CountAdmins(ctx context.Context, groupID uint64) (int64, error) {
	return s.members.CountAdmins(ctx, groupID)
}
