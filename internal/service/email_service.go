package service

import (
	"context"

	"Lee_Chat/internal/pkg"
	"Lee_Chat/internal/repository/redis"
)

type EmailService struct {
	emailCfg pkg.SMTPConfig
	codes    CodeStore
}

func NewEmailService(cfg pkg.SMTPConfig, codes CodeStore) *EmailService {
	return &EmailService{emailCfg: cfg, codes: codes}
}

// SendCode 生成验证码并发送，scope 为 register/reset
func (s *EmailService) SendCode(ctx context.Context, scope, email string) error {
	code, err := pkg.RandDigits(6)
	if err != nil {
		return err
	}
	if err = s.codes.SetCode(ctx, scope, email, code); err != nil {
		return err
	}

	subject := "Verification code"
	if scope == "reset" {
		subject = "Password reset code"
	}
	html := pkg.EmailCodeHTML(subject, code, redis.DefaultEmailCodeTTL)
	if err = pkg.SendEmail(s.emailCfg, email, subject, html); err != nil {
		// 发送失败则清掉验证码，避免半程状态
		_ = s.codes.DeleteCode(ctx, scope, email)
		return err
	}
	return nil
}

// VerifyCode 校验验证码并一次性删除
func (s *EmailService) VerifyCode(ctx context.Context, scope, email, code string) (bool, error) {
	val, err := s.codes.GetCode(ctx, scope, email)
	if err != nil {
		return false, err
	}
	if val != code {
		return false, nil
	}
	if err = s.codes.DeleteCode(ctx, scope, email); err != nil {
		return false, err
	}
	return true, nil
}
