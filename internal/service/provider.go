// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"context"
	"time"

	"circle_pipeline/internal/cache"
	"circle_pipeline/internal/service/auth"
	"circle_pipeline/internal/service/control"
	"circle_pipeline/internal/service/relation"
)

// Services 聚合所有 Service 实例
type Services struct {
	Relation RelationService // 关系缓存 Service
	Pipeline PipelineService // 推送控制 Service
	Auth     AuthService     // 认证 Service
}

// Deps 构造 Services 所需的底层依赖
type Deps struct {
	Store           cache.Store
	Manager         control.ConnectionManager
	Hub             control.SubscriberCounter
	StaleMaxAge     time.Duration
	BootstrapSecret string
	TokenExpiry     time.Duration
}

// NewServices 创建并注入所有 Service 实例
// ctx: 进程级 context，推送循环与令牌缓存随其结束
func NewServices(ctx context.Context, deps Deps) *Services {
	return &Services{
		Relation: relation.NewRelationService(deps.Store, deps.StaleMaxAge),
		Pipeline: control.NewControlService(ctx, deps.Manager, deps.Hub),
		Auth:     auth.NewAuthService(ctx, deps.BootstrapSecret, deps.TokenExpiry),
	}
}
