package mocks

import (
	context "context"

	model "github.com/dtroode/roundrobin/internal/model"
	mock "github.com/stretchr/testify/mock"

	uuid "github.com/google/uuid"
)

// AccountStore is a mock type for the AccountStore type
type AccountStore struct {
	mock.Mock
}

// CreateWithOwner provides a mock function with given fields: ctx, account, owner
func (_m *AccountStore) CreateWithOwner(ctx context.Context, account model.Account, owner model.Membership) (model.Account, error) {
	ret := _m.Called(ctx, account, owner)

	var r0 model.Account
	if rf, ok := ret.Get(0).(func(context.Context, model.Account, model.Membership) model.Account); ok {
		r0 = rf(ctx, account, owner)
	} else {
		r0 = ret.Get(0).(model.Account)
	}

	return r0, ret.Error(1)
}

// GetByID provides a mock function with given fields: ctx, id
func (_m *AccountStore) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(model.Account), ret.Error(1)
}

// GetByInviteCode provides a mock function with given fields: ctx, code
func (_m *AccountStore) GetByInviteCode(ctx context.Context, code string) (model.Account, error) {
	ret := _m.Called(ctx, code)
	return ret.Get(0).(model.Account), ret.Error(1)
}

// NewAccountStore creates a new instance of AccountStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewAccountStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *AccountStore {
	m := &AccountStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
