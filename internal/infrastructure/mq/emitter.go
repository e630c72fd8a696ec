package mq

import (
	"context"
	"errors"
	"time"

	"circle_pipeline/pkg/errorx"

	"github.com/google/uuid"
)

// Emitter 生成通知并投递到所有出口
type Emitter struct {
	sinks []Sink
	now   func() time.Time
}

// NewEmitter 创建 Emitter，出口按顺序投递
func NewEmitter(sinks ...Sink) *Emitter {
	return &Emitter{sinks: sinks, now: time.Now}
}

// Notify 某个出口失败不影响其余出口，错误合并后返回
func (e *Emitter) Notify(ctx context.Context, name string, payload any) error {
	n := Notification{
		ID:        uuid.NewString(),
		Name:      name,
		Payload:   payload,
		EmittedAt: e.now().UTC(),
	}
	var errs []error
	for _, s := range e.sinks {
		if err := s.Deliver(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errorx.Wrapf(errors.Join(errs...), errorx.CodeNotifyError, "notify %s", name)
	}
	return nil
}

var _ Notifier = (*Emitter)(nil)
