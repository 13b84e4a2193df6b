package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/EnchantedPupu/atlas-backend-sub001/internal/dto"
	"github.com/EnchantedPupu/atlas-backend-sub001/internal/repository"
	pkgerrors "github.com/EnchantedPupu/atlas-backend-sub001/pkg/errors"
)

// UserService 用户目录业务接口（只读）
// 账号维护不在本服务内，这里只为交接选择目标用户
type UserService interface {
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, pkgerrors.Wrap(pkgerrors.KindPersistence, "查询用户失败", err)
	}

	return userResponse(user), nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	filters := &repository.UserListFilters{
		Role:    req.Role,
		Keyword: req.Keyword,
	}

	users, total, err := s.repo.User.ListWithFilters(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, 0, pkgerrors.Wrap(pkgerrors.KindPersistence, "列出用户失败", err)
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *userResponse(&users[i]))
	}

	return result, total, nil
}
