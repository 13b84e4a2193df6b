package handler

import "github.com/EnchantedPupu/atlas-backend-sub001/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth *AuthHandler
	User *UserHandler
	Job  *JobHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth: NewAuthHandler(svc.Auth),
		User: NewUserHandler(svc.User),
		Job:  NewJobHandler(svc.Job, svc.Export),
	}
}
