package storage

import (
	"github.com/stretchr/testify/mock"
)

// MockPort is a testify mock of Port for use in tests.
type MockPort struct {
	mock.Mock
}

var _ Port = (*MockPort)(nil)

func (m *MockPort) Load(key string) ([]byte, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockPort) Save(key string, data []byte) error {
	args := m.Called(key, data)
	return args.Error(0)
}
