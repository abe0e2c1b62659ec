package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"policyaudit/internal/llm"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Response), args.Error(1)
}

func (m *MockClient) Provider() string {
	return "mock"
}
