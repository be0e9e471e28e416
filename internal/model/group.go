package model

import "time"

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type Group struct {
	ID            uint64     `gorm:"primaryKey"`
	Name          string     `gorm:"size:128;not null"`
	Description   string     `gorm:"type:text"`
	CreatorID     uint64     `gorm:"not null;index"`
	InviteToken   *string    `gorm:"size:128;uniqueIndex"`
	InviteExpires *time.Time `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type GroupMember struct {
	ID        uint64    `gorm:"primaryKey"`
	GroupID   uint64    `gorm:"not null;index;uniqueIndex:uk_group_user"`
	UserID    uint64    `gorm:"not null;index;uniqueIndex:uk_group_user"`
	Role      string    `gorm:"size:16;not null;default:'member'"`
	JoinedAt  time.Time `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GroupOutbox 群组事件监控表
type GroupOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:32;not null"` // group_created / member_added / member_removed / role_changed / invite_rotated / message_posted
	GroupID   uint64 `gorm:"not null;index"`
	ActorID   uint64 `gorm:"not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (GroupOutbox) TableName() string { return "group_outbox" }
