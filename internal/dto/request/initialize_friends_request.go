package request

import "circle_pipeline/internal/model"

// InitializeFriendsRequest 批量加载好友列表
// 使用位置:
//   - internal/handler/friend_handler.go: Initialize
type InitializeFriendsRequest struct {
	Friends []model.LimitedUserFriend `json:"friends" binding:"required"`
}
