package dto

// ── 用户目录 DTO ──

// UserListRequest 用户列表查询参数（选择交接对象）
type UserListRequest struct {
	PaginationRequest
	Role    string `form:"role"    binding:"omitempty,oneof=OIC VO SS AS PP FI SD"`
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}
