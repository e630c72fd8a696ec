package request

// SearchUsersRequest 按显示名搜索缓存用户
type SearchUsersRequest struct {
	Query string `form:"q" binding:"required"`
}
