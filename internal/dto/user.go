package dto

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求（管理端）
type CreateUserRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=100"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=64"`
	Role     string `json:"role"     binding:"omitempty,oneof=employee lead admin superadmin"`
}

// UpdateUserRoleRequest 变更用户角色请求
type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=employee lead admin superadmin"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	Role    string `form:"role"    binding:"omitempty,oneof=employee lead admin superadmin"`
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
	PaginationRequest
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	MustChangePassword bool   `json:"must_change_password"`
}

// UserDetailResponse 用户详细信息（GET /auth/me）
type UserDetailResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	MustChangePassword bool   `json:"must_change_password"`
	CreatedAt          string `json:"created_at"`
}
