package fake

import (
	"context"

	"github.com/kastlewatch/kastlewatch/pkg/models"
	"github.com/stretchr/testify/mock"
)

// Fanout is a fake notifier.Fanout that can be used in unit tests.
type Fanout struct {
	mock.Mock
}

// Notify implements notifier.Fanout.
func (f *Fanout) Notify(ctx context.Context, n *models.Notification) error {
	args := f.Called(ctx, n)

	return args.Error(0)
}
