package gateway

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockRunner is a testify double for Runner. Expectations receive the
// command arguments as a single []string.
type MockRunner struct {
	mock.Mock
}

var _ Runner = (*MockRunner)(nil)

func (m *MockRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	ret := m.Called(ctx, timeout, name, args)
	var out []byte
	if v := ret.Get(0); v != nil {
		out = v.([]byte)
	}
	return out, ret.Error(1)
}

func (m *MockRunner) Follow(ctx context.Context, name string, args ...string) (<-chan string, error) {
	ret := m.Called(ctx, name, args)
	var ch <-chan string
	if v := ret.Get(0); v != nil {
		ch = v.(<-chan string)
	}
	return ch, ret.Error(1)
}
