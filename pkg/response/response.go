package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/EnchantedPupu/atlas-backend-sub001/pkg/errors"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Kind    string      `json:"kind,omitempty"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Pagination 分页元数据
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PageData 分页响应数据
type PageData struct {
	List       interface{} `json:"list"`
	Pagination Pagination  `json:"pagination"`
}

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: 0, Message: "success", Data: data})
}

// OKPage 200 分页成功
func OKPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data: PageData{
			List: list,
			Pagination: Pagination{
				Page:       page,
				PageSize:   pageSize,
				Total:      total,
				TotalPages: totalPages,
			},
		},
	})
}

// ── 错误响应 ──

// 业务错误码：万位为 HTTP 类别，千位区分错误分类
const (
	CodeValidation        = 40001
	CodeInvalidTransition = 40002
	CodeUnauthorized      = 40101
	CodeForbidden         = 40301
	CodeNotFound          = 40401
	CodeConflict          = 40901
	CodeRateLimited       = 42901
	CodeInternal          = 50000
)

type kindMapping struct {
	status int
	code   int
}

var kindMappings = map[pkgerrors.Kind]kindMapping{
	pkgerrors.KindValidation:        {http.StatusBadRequest, CodeValidation},
	pkgerrors.KindForbidden:         {http.StatusForbidden, CodeForbidden},
	pkgerrors.KindNotFound:          {http.StatusNotFound, CodeNotFound},
	pkgerrors.KindConflict:          {http.StatusConflict, CodeConflict},
	pkgerrors.KindInvalidTransition: {http.StatusBadRequest, CodeInvalidTransition},
	pkgerrors.KindPersistence:       {http.StatusInternalServerError, CodeInternal},
}

// StatusOf 返回错误分类对应的 HTTP 状态码与业务码
func StatusOf(kind pkgerrors.Kind) (int, int) {
	m, ok := kindMappings[kind]
	if !ok {
		return http.StatusInternalServerError, CodeInternal
	}
	return m.status, m.code
}

// FromError 将服务层错误映射为响应；持久化错误不向调用方暴露底层原因
func FromError(c *gin.Context, err error) {
	kind := pkgerrors.KindOf(err)
	status, code := StatusOf(kind)
	c.JSON(status, Response{
		Code:    code,
		Kind:    string(kind),
		Message: pkgerrors.Message(err),
	})
}

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{Code: code, Message: message})
}

// ── 常见快捷方式 ──

// BadRequest 400，请求格式错误
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    CodeValidation,
		Kind:    string(pkgerrors.KindValidation),
		Message: message,
	})
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, CodeUnauthorized, message)
}

// TooManyRequests 429
func TooManyRequests(c *gin.Context) {
	Error(c, http.StatusTooManyRequests, CodeRateLimited, "请求过于频繁，请稍后再试")
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, "服务器内部错误")
}
