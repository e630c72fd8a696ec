package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"circle_pipeline/internal/config"
	"circle_pipeline/pkg/constants"
	"circle_pipeline/pkg/errorx"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// State 连接状态
type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosing
	StateClosed
	StateError
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// MarshalText 状态接口以字符串输出
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Options 连接参数
type Options struct {
	Endpoint     string
	Host         string
	UserAgent    string
	BackoffFloor time.Duration
	BackoffMax   time.Duration
	IdlePoll     time.Duration
}

// OptionsFromConfig 由配置生成连接参数
func OptionsFromConfig(cfg *config.PipelineConfig) Options {
	return Options{
		Endpoint:     cfg.Endpoint,
		Host:         cfg.Host,
		UserAgent:    cfg.UserAgent,
		BackoffFloor: cfg.BackoffFloor,
		BackoffMax:   cfg.BackoffMax,
		IdlePoll:     cfg.IdlePoll,
	}
}

func (o *Options) applyDefaults() {
	if o.Endpoint == "" {
		o.Endpoint = constants.PIPELINE_ENDPOINT
	}
	if o.Host == "" {
		o.Host = constants.PIPELINE_HOST
	}
	if o.UserAgent == "" {
		o.UserAgent = constants.PIPELINE_USER_AGENT
	}
	if o.BackoffFloor <= 0 {
		o.BackoffFloor = constants.BACKOFF_FLOOR
	}
	if o.BackoffMax < o.BackoffFloor {
		o.BackoffMax = max(constants.BACKOFF_MAX, o.BackoffFloor)
	}
	if o.IdlePoll <= 0 {
		o.IdlePoll = constants.IDLE_POLL
	}
}

// SleepFunc 等待 d，ctx 结束时提前返回 false
type SleepFunc func(ctx context.Context, d time.Duration) bool

func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Option Manager 可选项
type Option func(*Manager)

// WithDialer 替换默认的 gorilla Dialer
func WithDialer(d Dialer) Option {
	return func(m *Manager) { m.dialer = d }
}

// WithNotifier 设置生命周期通知出口
func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

// WithSleep 替换等待函数
func WithSleep(fn SleepFunc) Option {
	return func(m *Manager) { m.sleep = fn }
}

// Manager 维护到推送服务的长连接
// 同一时刻最多只有一个连接循环在运行
type Manager struct {
	opts     Options
	dialer   Dialer
	handler  FrameHandler
	notifier Notifier
	sleep    SleepFunc

	credMu          sync.RWMutex
	authCookie      string
	twoFactorCookie string

	// runMu 保护 running，enabled 的写入也在锁内完成
	runMu   sync.Mutex
	running bool
	done    chan struct{}
	enabled atomic.Bool

	state atomic.Int32
}

// NewManager 创建连接管理器，需调用 Start 才会开始连接
func NewManager(opts Options, handler FrameHandler, options ...Option) *Manager {
	opts.applyDefaults()
	m := &Manager{
		opts:    opts,
		handler: handler,
		sleep:   sleepContext,
	}
	for _, o := range options {
		o(m)
	}
	if m.dialer == nil {
		m.dialer = NewDialer(45 * time.Second)
	}
	return m
}

// SetCredentials 设置凭据，下一次连接尝试生效
func (m *Manager) SetCredentials(authCookie, twoFactorCookie string) {
	m.credMu.Lock()
	defer m.credMu.Unlock()
	m.authCookie = authCookie
	m.twoFactorCookie = twoFactorCookie
}

// ClearCredentials 清除凭据，连接循环进入空闲轮询
func (m *Manager) ClearCredentials() {
	m.SetCredentials("", "")
}

// HasCredentials 是否已设置 auth cookie
func (m *Manager) HasCredentials() bool {
	auth, _ := m.credentials()
	return auth != ""
}

func (m *Manager) credentials() (string, string) {
	m.credMu.RLock()
	defer m.credMu.RUnlock()
	return m.authCookie, m.twoFactorCookie
}

// State 当前连接状态
func (m *Manager) State() State {
	return State(m.state.Load())
}

func (m *Manager) setState(s State) {
	m.state.Store(int32(s))
}

// Running 连接循环是否在运行
func (m *Manager) Running() bool {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	return m.running
}

// Start 启动连接循环，已在运行时直接返回
// ctx 结束时循环退出并关闭当前连接
func (m *Manager) Start(ctx context.Context) {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	m.enabled.Store(true)
	if m.running {
		return
	}
	m.running = true
	done := make(chan struct{})
	m.done = done
	go func() {
		defer close(done)
		m.run(ctx)
	}()
}

// Wait 阻塞到当前连接循环退出，包括断开通知在内的收尾全部完成
// 循环未启动时立即返回
func (m *Manager) Wait() {
	m.runMu.Lock()
	done := m.done
	m.runMu.Unlock()
	if done != nil {
		<-done
	}
}

// Stop 请求停止，循环在下一个检查点退出
// 正在进行的读取不会被强制中断
func (m *Manager) Stop() {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	m.enabled.Store(false)
}

// keepRunning 循环检查点，决定退出时在锁内清除 running
func (m *Manager) keepRunning(ctx context.Context) bool {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	if ctx.Err() == nil && m.enabled.Load() {
		return true
	}
	m.running = false
	m.setState(StateIdle)
	return false
}

func (m *Manager) run(ctx context.Context) {
	zap.L().Info("pipeline loop start")
	defer zap.L().Info("pipeline loop stop")

	delay := m.opts.BackoffFloor
	for m.keepRunning(ctx) {
		authCookie, twoFactorCookie := m.credentials()
		if authCookie == "" {
			m.setState(StateIdle)
			m.sleep(ctx, m.opts.IdlePoll)
			continue
		}

		opened, err := m.connectAndListen(ctx, authCookie, twoFactorCookie)
		if opened {
			delay = m.opts.BackoffFloor
		}
		if err != nil {
			zap.L().Error("pipeline connection failed", zap.Error(err))
			m.setState(StateError)
		} else {
			m.setState(StateClosed)
		}

		if !m.keepRunning(ctx) {
			return
		}
		zap.L().Debug("pipeline reconnect scheduled", zap.Duration("delay", delay))
		m.sleep(ctx, delay)
		delay = min(delay*2, m.opts.BackoffMax)
	}
}

// connectAndListen 建立一次连接并读取到连接结束
// opened 表示握手是否成功
func (m *Manager) connectAndListen(ctx context.Context, authCookie, twoFactorCookie string) (opened bool, err error) {
	m.setState(StateConnecting)
	rawURL, header, err := buildRequest(m.opts, authCookie, twoFactorCookie)
	if err != nil {
		return false, err
	}
	conn, err := m.dialer.Dial(ctx, rawURL, header)
	if err != nil {
		return false, err
	}

	m.setState(StateOpen)
	zap.L().Info("pipeline connected")
	m.notify(ctx, constants.NOTIFY_PIPELINE_CONNECTED)

	// 进程退出时关闭连接，使阻塞中的读取返回
	stopWatch := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer func() {
		stopWatch()
		_ = conn.Close()
		m.notify(context.WithoutCancel(ctx), constants.NOTIFY_PIPELINE_DISCONNECTED)
	}()

	for {
		msgType, frame, err := conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				zap.L().Info("pipeline closed by server", zap.Int("code", closeErr.Code))
				return true, nil
			}
			if ctx.Err() != nil {
				return true, nil
			}
			return true, errorx.Wrap(err, errorx.CodeTransportError, "pipeline read failed")
		}
		if !m.enabled.Load() {
			m.setState(StateClosing)
			return true, nil
		}
		if msgType != websocket.TextMessage {
			continue
		}
		if err := m.handler.HandleFrame(ctx, frame); err != nil {
			zap.L().Warn("pipeline frame dropped", zap.Error(err))
		}
	}
}

func (m *Manager) notify(ctx context.Context, name string) {
	if m.notifier == nil {
		return
	}
	if err := m.notifier.Notify(ctx, name, nil); err != nil {
		zap.L().Warn("pipeline lifecycle notify failed", zap.String("name", name), zap.Error(err))
	}
}
