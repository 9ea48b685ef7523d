package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"
)

// Publisher is a mock type for the Publisher type
type Publisher struct {
	mock.Mock
}

// Close provides a mock function with no fields
func (_m *Publisher) Close() error {
	ret := _m.Called()
	return ret.Error(0)
}

// Publish provides a mock function with given fields: ctx, topic, event
func (_m *Publisher) Publish(ctx context.Context, topic string, event interface{}) error {
	ret := _m.Called(ctx, topic, event)
	return ret.Error(0)
}

// NewPublisher creates a new instance of Publisher. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *Publisher {
	m := &Publisher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
