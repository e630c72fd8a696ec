// Package control 通过本地接口控制推送连接
package control

import (
	"context"

	"circle_pipeline/internal/dto/request"
	"circle_pipeline/internal/dto/respond"
	"circle_pipeline/internal/gateway/pipeline"
	"circle_pipeline/pkg/errorx"

	"go.uber.org/zap"
)

// ConnectionManager 连接管理器需要暴露的能力
type ConnectionManager interface {
	SetCredentials(authCookie, twoFactorCookie string)
	ClearCredentials()
	HasCredentials() bool
	Start(ctx context.Context)
	Stop()
	State() pipeline.State
	Running() bool
}

// SubscriberCounter 本地事件订阅数
type SubscriberCounter interface {
	SubscriberCount() int
}

// Service 推送控制服务实现
type Service struct {
	ctx     context.Context // 推送循环的生命周期
	manager ConnectionManager
	hub     SubscriberCounter
}

// NewControlService 创建控制服务
// ctx 为进程级 context，Start 启动的循环随其结束
func NewControlService(ctx context.Context, manager ConnectionManager, hub SubscriberCounter) *Service {
	return &Service{ctx: ctx, manager: manager, hub: hub}
}

// SetCredentials 设置凭据，可选立即启动
// 格式已在绑定阶段校验，格式不合法的凭据在连接循环中按失败退避处理
func (s *Service) SetCredentials(req request.SetCredentialsRequest) *respond.PipelineStatusRespond {
	s.manager.SetCredentials(req.AuthCookie, req.TwoFactorCookie)
	zap.L().Info("pipeline credentials updated", zap.Bool("two_factor", req.TwoFactorCookie != ""))
	if req.Start {
		s.manager.Start(s.ctx)
	}
	return s.Status()
}

// ClearCredentials 清除凭据，连接循环回到空闲轮询
func (s *Service) ClearCredentials() *respond.PipelineStatusRespond {
	s.manager.ClearCredentials()
	zap.L().Info("pipeline credentials cleared")
	return s.Status()
}

// Start 启动推送循环
func (s *Service) Start() (*respond.PipelineStatusRespond, error) {
	if !s.manager.HasCredentials() {
		return nil, errorx.ErrAuthGap
	}
	s.manager.Start(s.ctx)
	return s.Status(), nil
}

// Stop 请求停止推送循环
func (s *Service) Stop() *respond.PipelineStatusRespond {
	s.manager.Stop()
	return s.Status()
}

func (s *Service) Status() *respond.PipelineStatusRespond {
	st := &respond.PipelineStatusRespond{
		State:          s.manager.State().String(),
		Running:        s.manager.Running(),
		HasCredentials: s.manager.HasCredentials(),
	}
	if s.hub != nil {
		st.Subscribers = s.hub.SubscriberCount()
	}
	return st
}
