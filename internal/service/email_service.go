package service

import (
	"errors"
	"log"

	"Skill_Link/internal/pkg"
	"Skill_Link/internal/repository/redis"
)

type EmailService struct {
	emailCfg pkg.SMTPConfig
	rds      *redis.EmailRepository
}

func NewEmailService(cfg pkg.SMTPConfig) *EmailService {
	return &EmailService{emailCfg: cfg, rds: &redis.EmailRepository{}}
}

var codeSubjects = map[string]string{
	"register": "注册验证",
	"reset":    "重置密码",
}

// SendCode 两阶段：先写 pending 键，邮件发出去之后再转 confirmed
func (s *EmailService) SendCode(scope, email string) error {
	subject, ok := codeSubjects[scope]
	if !ok {
		return errors.New("unknown scope")
	}
	code, err := pkg.RandDigits(6)
	if err != nil {
		return err
	}
	if err = s.rds.SetCodePending(scope, email, code); err != nil {
		return err
	}

	html := pkg.EmailCodeHTML(subject, code, redis.DefaultEmailCodeTTL)
	if err = pkg.SendEmail(s.emailCfg, email, subject+"验证码", html); err != nil {
		return err
	}

	if err = s.rds.ConfirmCode(scope, email); err != nil {
		// 如果确认失败，清除pending键
		_ = s.rds.DeleteCodePending(scope, email)
		return err
	}
	return nil
}

// VerifyCode 校验验证码并一次性删除
func (s *EmailService) VerifyCode(scope, email, code string) (bool, error) {
	val, err := s.rds.GetEmailCode(scope, email)
	if err != nil {
		return false, err
	}
	if val != code {
		return false, nil
	}
	if err = s.rds.DeleteEmailCode(scope, email); err != nil {
		return false, err
	}
	return true, nil
}

// Notify 通知类邮件尽力而为，失败只记日志不影响主流程
func (s *EmailService) Notify(to, subject, htmlBody string) {
	if s == nil {
		return
	}
	go func() {
		if err := pkg.SendEmail(s.emailCfg, to, subject, htmlBody); err != nil {
			log.Printf("notify email to %s failed: %v", to, err)
		}
	}()
}
