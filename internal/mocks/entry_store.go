package mocks

import (
	context "context"

	model "github.com/dtroode/roundrobin/internal/model"
	mock "github.com/stretchr/testify/mock"

	uuid "github.com/google/uuid"
)

// EntryStore is a mock type for the EntryStore type
type EntryStore struct {
	mock.Mock
}

// Append provides a mock function with given fields: ctx, entry
func (_m *EntryStore) Append(ctx context.Context, entry model.Entry) (model.Entry, error) {
	ret := _m.Called(ctx, entry)

	var r0 model.Entry
	if rf, ok := ret.Get(0).(func(context.Context, model.Entry) model.Entry); ok {
		r0 = rf(ctx, entry)
	} else {
		r0 = ret.Get(0).(model.Entry)
	}

	return r0, ret.Error(1)
}

// Delete provides a mock function with given fields: ctx, accountID, id
func (_m *EntryStore) Delete(ctx context.Context, accountID uuid.UUID, id uuid.UUID) error {
	ret := _m.Called(ctx, accountID, id)
	return ret.Error(0)
}

// DeleteAndCompact provides a mock function with given fields: ctx, accountID, id
func (_m *EntryStore) DeleteAndCompact(ctx context.Context, accountID uuid.UUID, id uuid.UUID) error {
	ret := _m.Called(ctx, accountID, id)
	return ret.Error(0)
}

// ListByAccount provides a mock function with given fields: ctx, accountID
func (_m *EntryStore) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.Entry, error) {
	ret := _m.Called(ctx, accountID)

	var r0 []model.Entry
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) []model.Entry); ok {
		r0 = rf(ctx, accountID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Entry)
	}

	return r0, ret.Error(1)
}

// SetOrder provides a mock function with given fields: ctx, accountID, id, order
func (_m *EntryStore) SetOrder(ctx context.Context, accountID uuid.UUID, id uuid.UUID, order int) error {
	ret := _m.Called(ctx, accountID, id, order)
	return ret.Error(0)
}

// SetOrders provides a mock function with given fields: ctx, accountID, ids
func (_m *EntryStore) SetOrders(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) error {
	ret := _m.Called(ctx, accountID, ids)
	return ret.Error(0)
}

// UpdateContact provides a mock function with given fields: ctx, accountID, id, name, phoneNumber
func (_m *EntryStore) UpdateContact(ctx context.Context, accountID uuid.UUID, id uuid.UUID, name string, phoneNumber string) error {
	ret := _m.Called(ctx, accountID, id, name, phoneNumber)
	return ret.Error(0)
}

// UpdateStatus provides a mock function with given fields: ctx, accountID, id, status
func (_m *EntryStore) UpdateStatus(ctx context.Context, accountID uuid.UUID, id uuid.UUID, status model.Status) error {
	ret := _m.Called(ctx, accountID, id, status)
	return ret.Error(0)
}

// NewEntryStore creates a new instance of EntryStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewEntryStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *EntryStore {
	m := &EntryStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
