package control

import (
	"context"
	"testing"

	"circle_pipeline/internal/dto/request"
	"circle_pipeline/internal/gateway/pipeline"
	"circle_pipeline/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeManager struct {
	auth, twoFA string
	running     bool
	starts      int
}

func (f *fakeManager) SetCredentials(a, t string) { f.auth, f.twoFA = a, t }
func (f *fakeManager) ClearCredentials()          { f.auth, f.twoFA = "", "" }
func (f *fakeManager) HasCredentials() bool       { return f.auth != "" }
func (f *fakeManager) Start(context.Context)      { f.starts++; f.running = true }
func (f *fakeManager) Stop()                      { f.running = false }
func (f *fakeManager) Running() bool              { return f.running }
func (f *fakeManager) State() pipeline.State {
	if f.running {
		return pipeline.StateOpen
	}
	return pipeline.StateIdle
}

type fixedCount int

func (c fixedCount) SubscriberCount() int { return int(c) }

func TestSetCredentials_StoresWithoutStarting(t *testing.T) {
	m := &fakeManager{}
	s := NewControlService(context.Background(), m, fixedCount(0))

	st := s.SetCredentials(request.SetCredentialsRequest{AuthCookie: "auth=authcookie_1"})
	assert.Equal(t, "auth=authcookie_1", m.auth)
	assert.Zero(t, m.starts)
	assert.True(t, st.HasCredentials)
	assert.False(t, st.Running)
}

func TestSetCredentials_StartsWhenAsked(t *testing.T) {
	m := &fakeManager{}
	s := NewControlService(context.Background(), m, fixedCount(2))

	st := s.SetCredentials(request.SetCredentialsRequest{AuthCookie: "auth=authcookie_1", TwoFactorCookie: "twoFactorAuth=x", Start: true})
	assert.Equal(t, "twoFactorAuth=x", m.twoFA)
	assert.Equal(t, 1, m.starts)
	assert.True(t, st.Running)
	assert.True(t, st.HasCredentials)
	assert.Equal(t, "open", st.State)
	assert.Equal(t, 2, st.Subscribers)

	st = s.Stop()
	assert.False(t, st.Running)
	st = s.ClearCredentials()
	assert.False(t, st.HasCredentials)
}

func TestStart_RequiresCredentials(t *testing.T) {
	m := &fakeManager{}
	s := NewControlService(context.Background(), m, nil)

	_, err := s.Start()
	assert.ErrorIs(t, err, errorx.ErrAuthGap)
	assert.Zero(t, m.starts)

	m.SetCredentials("auth=authcookie_1", "")
	st, err := s.Start()
	require.NoError(t, err)
	assert.True(t, st.Running)
	assert.Zero(t, st.Subscribers)
}
