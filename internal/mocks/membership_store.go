package mocks

import (
	context "context"

	model "github.com/dtroode/roundrobin/internal/model"
	mock "github.com/stretchr/testify/mock"

	uuid "github.com/google/uuid"
)

// MembershipStore is a mock type for the MembershipStore type
type MembershipStore struct {
	mock.Mock
}

// Create provides a mock function with given fields: ctx, membership
func (_m *MembershipStore) Create(ctx context.Context, membership model.Membership) error {
	ret := _m.Called(ctx, membership)
	return ret.Error(0)
}

// GetByIdentity provides a mock function with given fields: ctx, identityID
func (_m *MembershipStore) GetByIdentity(ctx context.Context, identityID uuid.UUID) (model.Membership, error) {
	ret := _m.Called(ctx, identityID)
	return ret.Get(0).(model.Membership), ret.Error(1)
}

// NewMembershipStore creates a new instance of MembershipStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMembershipStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MembershipStore {
	m := &MembershipStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
