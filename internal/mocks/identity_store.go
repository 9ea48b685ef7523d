package mocks

import (
	context "context"

	model "github.com/dtroode/roundrobin/internal/model"
	mock "github.com/stretchr/testify/mock"

	uuid "github.com/google/uuid"
)

// IdentityStore is a mock type for the IdentityStore type
type IdentityStore struct {
	mock.Mock
}

// Create provides a mock function with given fields: ctx, identity
func (_m *IdentityStore) Create(ctx context.Context, identity model.Identity) (model.Identity, error) {
	ret := _m.Called(ctx, identity)

	var r0 model.Identity
	if rf, ok := ret.Get(0).(func(context.Context, model.Identity) model.Identity); ok {
		r0 = rf(ctx, identity)
	} else {
		r0 = ret.Get(0).(model.Identity)
	}

	return r0, ret.Error(1)
}

// GetByEmail provides a mock function with given fields: ctx, email
func (_m *IdentityStore) GetByEmail(ctx context.Context, email string) (model.Identity, error) {
	ret := _m.Called(ctx, email)
	return ret.Get(0).(model.Identity), ret.Error(1)
}

// GetByID provides a mock function with given fields: ctx, id
func (_m *IdentityStore) GetByID(ctx context.Context, id uuid.UUID) (model.Identity, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(model.Identity), ret.Error(1)
}

// NewIdentityStore creates a new instance of IdentityStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewIdentityStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *IdentityStore {
	m := &IdentityStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
