package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/EnchantedPupu/atlas-backend-sub001/internal/repository"
	"github.com/EnchantedPupu/atlas-backend-sub001/internal/workflow"
	pkgerrors "github.com/EnchantedPupu/atlas-backend-sub001/pkg/errors"
)

// ActorContext 发起操作的用户，由传输层从已认证的请求中构造并显式传入
type ActorContext struct {
	UserID string
	Role   workflow.Role
}

var ErrInvalidActor = pkgerrors.New(pkgerrors.KindValidation, "操作人信息无效")

func (a ActorContext) validate() error {
	if a.UserID == "" || !a.Role.Valid() {
		return ErrInvalidActor
	}
	return nil
}

// ── 岗位目录 ──

// Identity 岗位目录查询结果
type Identity struct {
	UserID string
	Name   string
	Role   workflow.Role
}

var (
	ErrUserNotFound    = pkgerrors.New(pkgerrors.KindNotFound, "用户不存在")
	ErrUnknownUserRole = pkgerrors.New(pkgerrors.KindValidation, "用户岗位无效")
)

// roleDirectory 将用户表作为只读岗位目录使用
// 事务内构造，保证与任务行读取同一快照
type roleDirectory struct {
	users repository.UserRepository
}

func newRoleDirectory(repo *repository.Repository) *roleDirectory {
	return &roleDirectory{users: repo.User}
}

func (d *roleDirectory) get(ctx context.Context, userID string) (*Identity, error) {
	user, err := d.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	role := workflow.Role(user.Role)
	if !role.Valid() {
		return nil, ErrUnknownUserRole
	}
	return &Identity{UserID: user.UserID, Name: user.Name, Role: role}, nil
}
