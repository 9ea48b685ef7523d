package mocks

import (
	context "context"

	model "github.com/dtroode/roundrobin/internal/model"
	mock "github.com/stretchr/testify/mock"

	uuid "github.com/google/uuid"
)

// RefreshTokenStore is a mock type for the RefreshTokenStore type
type RefreshTokenStore struct {
	mock.Mock
}

// Create provides a mock function with given fields: ctx, token
func (_m *RefreshTokenStore) Create(ctx context.Context, token model.RefreshToken) error {
	ret := _m.Called(ctx, token)
	return ret.Error(0)
}

// GetByJTI provides a mock function with given fields: ctx, jti
func (_m *RefreshTokenStore) GetByJTI(ctx context.Context, jti string) (model.RefreshToken, error) {
	ret := _m.Called(ctx, jti)
	return ret.Get(0).(model.RefreshToken), ret.Error(1)
}

// RevokeAllByIdentity provides a mock function with given fields: ctx, identityID
func (_m *RefreshTokenStore) RevokeAllByIdentity(ctx context.Context, identityID uuid.UUID) error {
	ret := _m.Called(ctx, identityID)
	return ret.Error(0)
}

// Rotate provides a mock function with given fields: ctx, oldJTI, next
func (_m *RefreshTokenStore) Rotate(ctx context.Context, oldJTI string, next model.RefreshToken) error {
	ret := _m.Called(ctx, oldJTI, next)
	return ret.Error(0)
}

// RevokeByJTI provides a mock function with given fields: ctx, jti
func (_m *RefreshTokenStore) RevokeByJTI(ctx context.Context, jti string) error {
	ret := _m.Called(ctx, jti)
	return ret.Error(0)
}

// NewRefreshTokenStore creates a new instance of RefreshTokenStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewRefreshTokenStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *RefreshTokenStore {
	m := &RefreshTokenStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
