package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/EnchantedPupu/atlas-backend-sub001/internal/api/middleware"
	"github.com/EnchantedPupu/atlas-backend-sub001/internal/service"
	"github.com/EnchantedPupu/atlas-backend-sub001/internal/workflow"
	"github.com/EnchantedPupu/atlas-backend-sub001/pkg/response"
)

// MustGetActor 从 Gin 上下文中构造 ActorContext。
// 如果 JWT 中间件未正确注入 user_id / role，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetActor(c *gin.Context) (service.ActorContext, bool) {
	userID := c.GetString(middleware.CtxUserID)
	role := c.GetString(middleware.CtxRole)
	if userID == "" || role == "" {
		response.Unauthorized(c, "未认证")
		return service.ActorContext{}, false
	}
	return service.ActorContext{UserID: userID, Role: workflow.Role(role)}, true
}

// tokenInfo 取出当前 Token 的 jti 与过期时间（登出用）
func tokenInfo(c *gin.Context) (string, time.Time) {
	jti := c.GetString(middleware.CtxTokenID)
	var exp time.Time
	if v, ok := c.Get(middleware.CtxTokenExp); ok {
		exp, _ = v.(time.Time)
	}
	return jti, exp
}

// MustGetPathID 读取并校验路径参数 :id（UUID），非法时写入 400 响应
func MustGetPathID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "无效的 ID")
		return "", false
	}
	return id.String(), true
}
