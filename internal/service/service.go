package service

import (
	"go.uber.org/zap"

	"github.com/EnchantedPupu/atlas-backend-sub001/config"
	"github.com/EnchantedPupu/atlas-backend-sub001/internal/repository"
	"github.com/EnchantedPupu/atlas-backend-sub001/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth   AuthService
	User   UserService
	Job    JobService
	Export ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	store FileStore,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:   NewAuthService(repo, jwtMgr, blacklist, logger),
		User:   NewUserService(repo, logger),
		Job:    NewJobService(repo, store, cfg.Workflow.Location(), logger),
		Export: NewExportService(repo, logger),
	}
}
