package respond

// RelationRespond 单个用户与当前用户的关系
type RelationRespond struct {
	UserID       string `json:"user_id"`
	IsFriend     bool   `json:"is_friend"`
	IsOnline     bool   `json:"is_online"`
	Relationship string `json:"relationship"`
}

// CountRespond 批量操作影响的条目数
type CountRespond struct {
	Count int `json:"count"`
}
