// Package mocks provides testify doubles for the statekeeper collaborators.
package mocks

import (
	"context"

	"github.com/gaze-network/omniverse-transformer/modules/transformer/statekeeper"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/stretchr/testify/mock"
)

var _ statekeeper.Oracle = (*Oracle)(nil)

type Oracle struct {
	mock.Mock
}

func NewOracle(t interface {
	mock.TestingT
	Cleanup(func())
},
) *Oracle {
	m := &Oracle{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Oracle) IsIncluded(ctx context.Context, tx omniverse.Transfer) (bool, error) {
	args := m.Called(ctx, tx)
	return args.Bool(0), args.Error(1)
}
