package fake

import (
	"github.com/kastlewatch/kastlewatch/pkg/resource"
	"github.com/stretchr/testify/mock"
)

// Dispatcher is a fake dispatch.Dispatcher that can be used in unit tests.
type Dispatcher struct {
	mock.Mock
}

// Dispatch implements dispatch.Dispatcher.
func (d *Dispatcher) Dispatch(kind resource.Kind, monitor resource.Checkable) bool {
	args := d.Called(kind, monitor)

	return args.Bool(0)
}
