package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"Lee_Chat/internal/model"
	"Lee_Chat/internal/pkg"
)

// memStore 内存存储，四个仓储适配器共享同一份数据。
// 守卫语义与 mysql 实现保持一致，锁粒度为整库。
type memStore struct {
	mu sync.Mutex

	groups   map[uint64]model.Group
	members  map[uint64]model.GroupMember
	messages []model.Message
	users    map[uint64]model.User

	nextGroupID   uint64
	nextMemberID  uint64
	nextMessageID uint64

	now func() time.Time
}

func newMemStore() *memStore {
	return &memStore{
		groups:  make(map[uint64]model.Group),
		members: make(map[uint64]model.GroupMember),
		users:   make(map[uint64]model.User),
		now:     time.Now,
	}
}

func (s *memStore) addUser(id uint64, name, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = model.User{ID: id, Username: name, FullName: name, Email: email}
}

// 测试用：直接改写邀请过期时间
func (s *memStore) expireInvite(groupID uint64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.groups[groupID]
	g.InviteExpires = &at
	s.groups[groupID] = g
}

// 测试用：成员表快照，校验守卫失败后状态不变
func (s *memStore) membershipSnapshot() []model.GroupMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.GroupMember, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memStore) findMemberLocked(groupID, userID uint64) (*model.GroupMember, error) {
	for _, m := range s.members {
		if m.GroupID == groupID && m.UserID == userID {
			out := m
			return &out, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (s *memStore) countAdminsLocked(groupID uint64) int64 {
	var n int64
	for _, m := range s.members {
		if m.GroupID == groupID && m.Role == model.RoleAdmin {
			n++
		}
	}
	return n
}

// memGroups implements GroupRepository

type memGroups struct{ s *memStore }

func (r *memGroups) CreateWithAdmin(ctx context.Context, g *model.Group) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextGroupID++
	g.ID = s.nextGroupID
	g.CreatedAt = s.now()
	s.groups[g.ID] = *g
	s.nextMemberID++
	s.members[s.nextMemberID] = model.GroupMember{
		ID:       s.nextMemberID,
		GroupID:  g.ID,
		UserID:   g.CreatorID,
		Role:     model.RoleAdmin,
		JoinedAt: s.now(),
	}
	return nil
}

func (r *memGroups) FindByID(ctx context.Context, id uint64) (*model.Group, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.groups[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	return &g, nil
}

func (r *memGroups) FindByIDs(ctx context.Context, ids []uint64) ([]model.Group, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Group
	for _, id := range ids {
		if g, ok := r.s.groups[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *memGroups) UpdateInfo(ctx context.Context, id uint64, name, description string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.groups[id]
	if !ok {
		return pkg.ErrNotFound
	}
	g.Name = name
	g.Description = description
	r.s.groups[id] = g
	return nil
}

func (r *memGroups) FindByInviteToken(ctx context.Context, token string) (*model.Group, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, g := range r.s.groups {
		if g.InviteToken != nil && *g.InviteToken == token {
			out := g
			return &out, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (r *memGroups) RotateInvite(ctx context.Context, groupID uint64, token string, expires time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.groups[groupID]
	if !ok {
		return pkg.ErrNotFound
	}
	g.InviteToken = &token
	g.InviteExpires = &expires
	r.s.groups[groupID] = g
	return nil
}

// memMembers implements MemberRepository

type memMembers struct{ s *memStore }

func (r *memMembers) Add(ctx context.Context, m *model.GroupMember) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.members {
		if existing.GroupID == m.GroupID && existing.UserID == m.UserID {
			return pkg.ErrConflict
		}
	}
	s.nextMemberID++
	m.ID = s.nextMemberID
	s.members[m.ID] = *m
	return nil
}

func (r *memMembers) Find(ctx context.Context, groupID, userID uint64) (*model.GroupMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.findMemberLocked(groupID, userID)
}

func (r *memMembers) ListByGroup(ctx context.Context, groupID uint64) ([]model.GroupMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.GroupMember
	for _, m := range r.s.members {
		if m.GroupID == groupID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memMembers) ListByUser(ctx context.Context, userID uint64) ([]model.GroupMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.GroupMember
	for _, m := range r.s.members {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memMembers) CountAdmins(ctx context.Context, groupID uint64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.countAdminsLocked(groupID), nil
}

func (r *memMembers) Remove(ctx context.Context, groupID, userID, actorID uint64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[groupID]; !ok {
		return pkg.ErrNotFound
	}
	m, err := s.findMemberLocked(groupID, userID)
	if err != nil {
		return err
	}
	if m.Role == model.RoleAdmin && s.countAdminsLocked(groupID) <= 1 {
		return pkg.ErrLastAdmin
	}
	delete(s.members, m.ID)
	return nil
}

func (r *memMembers) UpdateRole(ctx context.Context, groupID, userID uint64, newRole string, actorID uint64) (*model.GroupMember, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[groupID]; !ok {
		return nil, pkg.ErrNotFound
	}
	m, err := s.findMemberLocked(groupID, userID)
	if err != nil {
		return nil, err
	}
	if m.Role == newRole {
		return nil, pkg.ErrNoChange
	}
	if m.Role == model.RoleAdmin && newRole == model.RoleMember && s.countAdminsLocked(groupID) <= 1 {
		return nil, pkg.ErrLastAdmin
	}
	m.Role = newRole
	s.members[m.ID] = *m
	return m, nil
}

// memMessages implements MessageRepository

type memMessages struct{ s *memStore }

func (r *memMessages) Create(ctx context.Context, m *model.Message) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMessageID++
	m.ID = s.nextMessageID
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.now()
	}
	s.messages = append(s.messages, *m)
	return nil
}

func (r *memMessages) ListByGroup(ctx context.Context, groupID uint64) ([]model.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Message
	for _, m := range r.s.messages {
		if m.GroupID == groupID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// memUsers implements UserRepository

type memUsers struct{ s *memStore }

func (r *memUsers) Create(ctx context.Context, user *model.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return pkg.ErrConflict
		}
	}
	user.ID = uint64(len(s.users) + 1)
	s.users[user.ID] = *user
	return nil
}

func (r *memUsers) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	return &u, nil
}

func (r *memUsers) FindByIDs(ctx context.Context, ids []uint64) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.User
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memUsers) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username || u.Email == username {
			out := u
			return &out, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (r *memUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (r *memUsers) UpdatePassword(ctx context.Context, userID uint64, hashed string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return pkg.ErrNotFound
	}
	u.Password = hashed
	r.s.users[userID] = u
	return nil
}

// env 一套接好线的服务实例，共享一个 memStore
type env struct {
	store    *memStore
	groups   *GroupService
	members  *MemberService
	invites  *InviteService
	messages *MessageService
	gate     *Gate
}

func newEnv(inviteTTL time.Duration) *env {
	store := newMemStore()
	groupRepo := &memGroups{s: store}
	memberRepo := &memMembers{s: store}
	messageRepo := &memMessages{s: store}
	userRepo := &memUsers{s: store}
	gate := NewGate(memberRepo)
	return &env{
		store:    store,
		gate:     gate,
		groups:   NewGroupService(groupRepo, memberRepo, userRepo, gate),
		members:  NewMemberService(memberRepo, groupRepo, userRepo, gate),
		invites:  NewInviteService(groupRepo, memberRepo, userRepo, gate, inviteTTL),
		messages: NewMessageService(messageRepo, groupRepo, userRepo, gate),
	}
}
