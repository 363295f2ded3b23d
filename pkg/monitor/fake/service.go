package fake

import (
	"context"

	"github.com/kastlewatch/kastlewatch/pkg/resource"
	"github.com/stretchr/testify/mock"
)

// Service is a fake monitor.Service that can be used in unit tests.
type Service struct {
	mock.Mock
}

// Process implements monitor.Service.
func (s *Service) Process(ctx context.Context, monitor resource.Checkable) {
	s.Called(ctx, monitor)
}
