package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcrossing/internal/domain/user"
	apperrors "github.com/xiebiao/bookcrossing/pkg/errors"
)

// userRepository 用户仓储实现（MySQL）
// 1. 实现domain/user/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 唯一索引冲突转换为业务错误（登录名、邮箱分别处理）
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 创建用户
// 登录名、邮箱唯一性由数据库UNIQUE索引保证，按冲突的索引名区分错误
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := toUserModel(u)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if duplicateKey(err, "uk_users_email") {
			return user.ErrEmailDuplicate
		}
		if isDuplicateError(err) {
			return user.ErrLoginDuplicate
		}
		return apperrors.Wrap(err, "创建用户失败")
	}

	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var model UserModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, userQueryError(err)
	}
	return toUserEntity(&model), nil
}

// FindByIDs 批量查找用户
// 目录查询先收集所有者ID，再一次IN查询，避免逐本查询用户
func (r *userRepository) FindByIDs(ctx context.Context, ids []uint) ([]*user.User, error) {
	if len(ids) == 0 {
		return []*user.User{}, nil
	}

	var models []UserModel
	if err := getDB(ctx, r.db).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "批量查询用户失败")
	}

	users := make([]*user.User, 0, len(models))
	for i := range models {
		users = append(users, toUserEntity(&models[i]))
	}
	return users, nil
}

// FindByLogin 根据登录名查找用户
func (r *userRepository) FindByLogin(ctx context.Context, login string) (*user.User, error) {
	var model UserModel
	if err := getDB(ctx, r.db).Where("login = ?", login).First(&model).Error; err != nil {
		return nil, userQueryError(err)
	}
	return toUserEntity(&model), nil
}

// FindByEmail 根据邮箱查找用户
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel
	if err := getDB(ctx, r.db).Where("email = ?", email).First(&model).Error; err != nil {
		return nil, userQueryError(err)
	}
	return toUserEntity(&model), nil
}

// Update 更新用户信息（Save更新全部字段）
func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	model := toUserModel(u)

	if err := getDB(ctx, r.db).Save(model).Error; err != nil {
		if duplicateKey(err, "uk_users_email") {
			return user.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "更新用户失败")
	}

	u.UpdatedAt = model.UpdatedAt
	return nil
}

// List 按ID升序分页查询用户
func (r *userRepository) List(ctx context.Context, offset, limit int) ([]*user.User, int64, error) {
	db := getDB(ctx, r.db)

	var total int64
	if err := db.Model(&UserModel{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "统计用户数量失败")
	}

	var models []UserModel
	if err := db.Order("id ASC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询用户列表失败")
	}

	users := make([]*user.User, 0, len(models))
	for i := range models {
		users = append(users, toUserEntity(&models[i]))
	}
	return users, total, nil
}

func userQueryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user.ErrUserNotFound
	}
	return apperrors.Wrap(err, "查询用户失败")
}

// =========================================
// 模型转换
// =========================================

func toUserModel(u *user.User) *UserModel {
	return &UserModel{
		ID:               u.ID,
		Login:            u.Login,
		Name:             u.Name,
		Email:            u.Email,
		City:             u.City,
		AboutMe:          u.AboutMe,
		Password:         u.Password,
		Role:             string(u.Role),
		Enabled:          u.Enabled,
		AccountNonLocked: u.AccountNonLocked,
		LoginDate:        u.LoginDate,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func toUserEntity(model *UserModel) *user.User {
	return &user.User{
		ID:               model.ID,
		Login:            model.Login,
		Name:             model.Name,
		Email:            model.Email,
		City:             model.City,
		AboutMe:          model.AboutMe,
		Password:         model.Password,
		Role:             user.Role(model.Role),
		Enabled:          model.Enabled,
		AccountNonLocked: model.AccountNonLocked,
		LoginDate:        model.LoginDate,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}
