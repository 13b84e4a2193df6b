package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/EnchantedPupu/atlas-backend-sub001/internal/dto"
	"github.com/EnchantedPupu/atlas-backend-sub001/internal/service"
	"github.com/EnchantedPupu/atlas-backend-sub001/pkg/response"
)

// UserHandler 用户目录 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// List 用户列表
// GET /api/v1/users?role=&keyword=&page=&page_size=
func (h *UserHandler) List(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	list, total, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get 用户详情
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	result, err := h.userSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}
