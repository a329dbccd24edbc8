package extract

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockExtractor is a mock implementation of Extractor using testify/mock.
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, path string, format Format) (string, error) {
	args := m.Called(ctx, path, format)
	return args.String(0), args.Error(1)
}
