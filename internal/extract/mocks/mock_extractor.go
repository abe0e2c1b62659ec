package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"policyaudit/internal/model"
)

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, r io.ReaderAt, size int64) ([]model.ExtractedPage, error) {
	args := m.Called(ctx, r, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ExtractedPage), args.Error(1)
}
