package mocks

import (
	"context"

	"policyaudit/internal/model"
	"policyaudit/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockComplianceService struct {
	mock.Mock
}

func (m *MockComplianceService) AnalyzeDocument(ctx context.Context, in service.AnalyzeInput) (model.PolicyReport, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.PolicyReport), args.Error(1)
}

func (m *MockComplianceService) Chat(ctx context.Context, in service.ChatInput) (model.PolicyGuidance, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.PolicyGuidance), args.Error(1)
}

func (m *MockComplianceService) Ready(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
