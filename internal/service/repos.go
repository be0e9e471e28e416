package service

import (
	"context"
	"time"

	"Lee_Chat/internal/model"
)

// 仓储接口按实体拆分，mysql/redis 包提供实现，测试用内存实现

type GroupRepository interface {
	CreateWithAdmin(ctx context.Context, g *model.Group) error
	FindByID(ctx context.Context, id uint64) (*model.Group, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]model.Group, error)
	UpdateInfo(ctx context.Context, id uint64, name, description string) error
	FindByInviteToken(ctx context.Context, token string) (*model.Group, error)
	RotateInvite(ctx context.Context, groupID uint64, token string, expires time.Time) error
}

type MemberRepository interface {
	Add(ctx context.Context, m *model.GroupMember) error
	Find(ctx context.Context, groupID, userID uint64) (*model.GroupMember, error)
	ListByGroup(ctx context.Context, groupID uint64) ([]model.GroupMember, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.GroupMember, error)
	CountAdmins(ctx context.Context, groupID uint64) (int64, error)
	Remove(ctx context.Context, groupID, userID, actorID uint64) error
	UpdateRole(ctx context.Context, groupID, userID uint64, newRole string, actorID uint64) (*model.GroupMember, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m *model.Message) error
	ListByGroup(ctx context.Context, groupID uint64) ([]model.Message, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, userID uint64, hashed string) error
}

type SessionStore interface {
	Put(ctx context.Context, userID uint64, token string) error
	Get(ctx context.Context, userID uint64) (string, error)
	Extend(ctx context.Context, userID uint64) error
	Delete(ctx context.Context, userID uint64) error
}

type CodeStore interface {
	SetCode(ctx context.Context, scope, email, code string) error
	GetCode(ctx context.Context, scope, email string) (string, error)
	DeleteCode(ctx context.Context, scope, email string) error
}

type OutboxRepository interface {
	ListPending(ctx context.Context, batchSize int) ([]model.GroupOutbox, error)
	MarkFailed(ctx context.Context, id uint64) error
	MarkSent(ctx context.Context, id uint64) error
}
