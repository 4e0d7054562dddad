package user

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookcrossing/pkg/errors"
)

// Service 用户领域服务
type Service interface {
	// Register 注册新用户（未激活状态）
	Register(ctx context.Context, params RegisterParams) (*User, error)

	// Login 使用登录名或邮箱登录
	// 未激活返回ErrUserNotEnabled，已锁定返回ErrUserLocked
	Login(ctx context.Context, loginOrEmail, password string) (*User, error)

	// ValidatePassword 验证密码
	ValidatePassword(hashedPassword, plainPassword string) error

	// Enable 激活账号（邮箱确认后调用）
	Enable(ctx context.Context, id uint) (*User, error)

	// Lock 管理员锁定账号
	Lock(ctx context.Context, login string) (*User, error)

	// Unlock 管理员解除锁定
	Unlock(ctx context.Context, login string) (*User, error)
}

// RegisterParams 注册参数
type RegisterParams struct {
	Login    string
	Name     string
	Email    string
	Password string
	City     string
}

type service struct {
	repo Repository
	cost int
	now  func() time.Time
}

// NewService 创建用户服务
func NewService(repo Repository) Service {
	return &service{repo: repo, cost: 12, now: time.Now}
}

// Register 用户注册
// 业务规则：
// 1. 邮箱格式、密码强度校验
// 2. 密码bcrypt加密
// 3. 登录名、邮箱唯一性由数据库UNIQUE索引保证
func (s *service) Register(ctx context.Context, p RegisterParams) (*User, error) {
	p.Login = strings.TrimSpace(p.Login)
	p.Email = strings.TrimSpace(p.Email)

	if !isValidLogin(p.Login) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "登录名只能包含字母、数字、下划线，长度3-50")
	}
	if !isValidEmail(p.Email) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
	}
	if err := validatePasswordStrength(p.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(p.Password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	u := NewUser(p.Login, strings.TrimSpace(p.Name), p.Email, string(hashedPassword), strings.TrimSpace(p.City))
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// Login 用户登录
func (s *service) Login(ctx context.Context, loginOrEmail, password string) (*User, error) {
	u, err := s.findForLogin(ctx, loginOrEmail)
	if err != nil {
		// 不区分用户不存在和密码错误
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}

	if err := s.ValidatePassword(u.Password, password); err != nil {
		return nil, err
	}

	if !u.Enabled {
		return nil, ErrUserNotEnabled
	}
	if !u.AccountNonLocked {
		return nil, ErrUserLocked
	}

	u.TouchLogin(s.now())
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *service) findForLogin(ctx context.Context, loginOrEmail string) (*User, error) {
	if strings.Contains(loginOrEmail, "@") {
		return s.repo.FindByEmail(ctx, loginOrEmail)
	}
	return s.repo.FindByLogin(ctx, loginOrEmail)
}

// ValidatePassword 验证密码
func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}

// Enable 激活账号
func (s *service) Enable(ctx context.Context, id uint) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Enabled {
		return u, nil
	}
	u.Enable()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Lock 锁定账号
func (s *service) Lock(ctx context.Context, login string) (*User, error) {
	u, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	u.Lock()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Unlock 解除锁定
func (s *service) Unlock(ctx context.Context, login string) (*User, error) {
	u, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	u.Unlock()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// =========================================
// 辅助函数：业务规则校验
// =========================================

var (
	loginPattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,50}$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	hasLetter    = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit     = regexp.MustCompile(`[0-9]`)
)

func isValidLogin(login string) bool {
	return loginPattern.MatchString(login)
}

func isValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// validatePasswordStrength 密码强度校验
// 规则：8-20位，必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return apperrors.ErrWeakPassword
	}
	if !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return apperrors.ErrWeakPassword
	}
	return nil
}
