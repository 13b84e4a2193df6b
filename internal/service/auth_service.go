package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/EnchantedPupu/atlas-backend-sub001/internal/dto"
	"github.com/EnchantedPupu/atlas-backend-sub001/internal/repository"
	"github.com/EnchantedPupu/atlas-backend-sub001/internal/workflow"
	pkgerrors "github.com/EnchantedPupu/atlas-backend-sub001/pkg/errors"
	"github.com/EnchantedPupu/atlas-backend-sub001/pkg/jwt"
)

var ErrInvalidCredentials = pkgerrors.New(pkgerrors.KindValidation, "用户名或密码错误")

// TokenBlacklist 已注销 Token 的存储
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
}

type authService struct {
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例
// blacklist 为 nil 时（Redis 不可用）注销只在客户端生效
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, pkgerrors.Wrap(pkgerrors.KindPersistence, "查询用户失败", err)
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !workflow.Role(user.Role).Valid() {
		s.logger.Warn("用户岗位无效，拒绝登录", zap.String("user_id", user.UserID), zap.String("role", user.Role))
		return nil, ErrUnknownUserRole
	}

	// 3. 签发 Token
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, pkgerrors.Wrap(pkgerrors.KindPersistence, "签发 Token 失败", err)
	}

	return &dto.TokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:        *userResponse(user),
	}, nil
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil || jti == "" {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.String("jti", jti), zap.Error(err))
		return pkgerrors.Wrap(pkgerrors.KindPersistence, "注销失败", err)
	}
	return nil
}
