package dto

// ── 审计日志模块 DTO ──

// AuditLogListRequest 审计日志列表查询参数
type AuditLogListRequest struct {
	Action   string `form:"action"   binding:"omitempty,max=100"`
	ActorID  string `form:"actor_id" binding:"omitempty,uuid"`
	Category string `form:"category" binding:"omitempty,oneof=auth content admin security"`
	Level    string `form:"level"    binding:"omitempty,oneof=info warning error"`
	PaginationRequest
}

// AuditLogResponse 审计日志响应
type AuditLogResponse struct {
	ID         string                 `json:"id"`
	Action     string                 `json:"action"`
	ActorID    *string                `json:"actor_id,omitempty"`
	ActorName  string                 `json:"actor_name,omitempty"`
	ObjectType string                 `json:"object_type,omitempty"`
	ObjectID   string                 `json:"object_id,omitempty"`
	Level      string                 `json:"level"`
	Category   string                 `json:"category"`
	IPAddress  string                 `json:"ip_address,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  string                 `json:"created_at"`
}
