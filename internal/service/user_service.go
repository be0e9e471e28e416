package service

import (
	"context"
	"fmt"

	"Lee_Chat/internal/model"
	"Lee_Chat/internal/pkg"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users    UserRepository
	sessions SessionStore
	emailSvc *EmailService
	issuer   *pkg.TokenIssuer
}

func NewUserService(users UserRepository, sessions SessionStore, emailSvc *EmailService, issuer *pkg.TokenIssuer) *UserService {
	return &UserService{users: users, sessions: sessions, emailSvc: emailSvc, issuer: issuer}
}

func (s *UserService) Register(ctx context.Context, username, fullName, password, email, code string) error {
	ok, err := s.emailSvc.VerifyCode(ctx, "register", email, code)
	if err != nil || !ok {
		return fmt.Errorf("%w: verification failed", pkg.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &model.User{
		Username: username,
		FullName: fullName,
		Password: string(hash),
		Email:    email,
	}
	return s.users.Create(ctx, user)
}

func (s *UserService) Login(ctx context.Context, username, password string) (*pkg.Pair, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", pkg.ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, fmt.Errorf("%w: invalid password", pkg.ErrUnauthorized)
	}

	pair, err := s.issuer.GeneratePair(user.ID)
	if err != nil {
		return nil, err
	}
	// 单点登录：新 token 覆盖旧会话
	if err = s.sessions.Put(ctx, user.ID, pair.AccessToken); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *UserService) Logout(ctx context.Context, userID uint64) error {
	return s.sessions.Delete(ctx, userID)
}

func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	return s.issuer.Refresh(refreshToken)
}

// ResetPassword 凭邮箱验证码重置
func (s *UserService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	ok, err := s.emailSvc.VerifyCode(ctx, "reset", email, code)
	if err != nil || !ok {
		return fmt.Errorf("%w: verification failed", pkg.ErrValidation)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, string(hash))
}

// ChangePassword 登录态修改密码，成功后踢掉当前会话
func (s *UserService) ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return fmt.Errorf("%w: old password is incorrect", pkg.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err = s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	return s.Logout(ctx, userID)
}
