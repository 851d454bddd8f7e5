package device

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyDialError(t *testing.T) {
	assert.ErrorIs(t, classifyDialError(timeoutErr{}), ErrConnectTimeout)
	assert.ErrorIs(t,
		classifyDialError(errors.New("ssh: handshake failed: ssh: unable to authenticate")),
		ErrAuthFailed)

	raw := errors.New("connection refused")
	assert.Equal(t, raw, classifyDialError(raw))
}

func TestConnectErrorUnwrap(t *testing.T) {
	err := &ConnectError{Host: "sw1", Err: ErrAuthFailed}
	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.Contains(t, err.Error(), "sw1")
}

func TestSessionCloseIdempotent(t *testing.T) {
	released := 0
	s := &Session{release: func() { released++ }}
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
	assert.Equal(t, 1, released)
}
