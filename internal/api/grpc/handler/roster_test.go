package handler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	grpcctx "github.com/dtroode/roundrobin/internal/api/grpc/context"
	"github.com/dtroode/roundrobin/internal/api/rosterpb"
	"github.com/dtroode/roundrobin/internal/events"
	"github.com/dtroode/roundrobin/internal/model"
	"github.com/dtroode/roundrobin/internal/phone"
	"github.com/dtroode/roundrobin/internal/roster"
	"github.com/dtroode/roundrobin/internal/service"
	"github.com/dtroode/roundrobin/internal/session"
	"github.com/dtroode/roundrobin/internal/testutil"
)

type rosterFixture struct {
	handler    *Roster
	store      *testutil.EntryStore
	identityID uuid.UUID
	accountID  uuid.UUID
}

func newRosterFixture(t *testing.T) rosterFixture {
	t.Helper()

	log := testutil.MakeNoopLogger()
	bus := events.NewLocalBus()
	t.Cleanup(func() { _ = bus.Close() })

	store := testutil.NewEntryStore()
	adapter := roster.NewAdapter(store, bus, bus, roster.Options{}, log)
	svc := service.NewRosterService(adapter, phone.NewNormalizer("US", phone.ModeStrict), nil, log)

	identityID, accountID := uuid.New(), uuid.New()
	resolver := resolverStub{sessions: map[uuid.UUID]session.Session{
		identityID: {IdentityID: identityID, AccountID: accountID, Role: model.RoleAdmin},
	}}

	return rosterFixture{
		handler:    NewRoster(svc, resolver, grpcctx.NewManager(), log),
		store:      store,
		identityID: identityID,
		accountID:  accountID,
	}
}

func (f rosterFixture) seed(names ...string) []model.Entry {
	entries := make([]model.Entry, len(names))
	for i, name := range names {
		entries[i] = model.Entry{
			ID:          uuid.New(),
			AccountID:   f.accountID,
			Name:        name,
			PhoneNumber: "+12015550123",
			Status:      model.StatusAvailable,
			Order:       i,
		}
	}
	f.store.Seed(entries...)
	return entries
}

func TestRoster_AddAndList(t *testing.T) {
	f := newRosterFixture(t)
	ctx := authedContext(f.identityID)

	out, err := f.handler.AddUser(ctx, rosterpb.NewStruct(map[string]any{
		"name":         "Ada",
		"phone_number": "201-555-0123",
	}))
	require.NoError(t, err)
	added, err := rosterpb.DecodeEntry(out)
	require.NoError(t, err)
	assert.Equal(t, "+12015550123", added.PhoneNumber)

	out, err = f.handler.ListUsers(ctx, rosterpb.Empty())
	require.NoError(t, err)
	entries, err := rosterpb.DecodeEntries(out, "entries")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, added.ID, entries[0].ID)
}

func TestRoster_AddUser_InvalidPhone(t *testing.T) {
	f := newRosterFixture(t)

	_, err := f.handler.AddUser(authedContext(f.identityID), rosterpb.NewStruct(map[string]any{
		"name":         "Ada",
		"phone_number": "123",
	}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestRoster_UpdateDeleteStatus(t *testing.T) {
	f := newRosterFixture(t)
	ctx := authedContext(f.identityID)
	entries := f.seed("A", "B")

	_, err := f.handler.UpdateUser(ctx, rosterpb.NewStruct(map[string]any{
		"id":           entries[0].ID.String(),
		"name":         "Ada",
		"phone_number": "+1 201 555 0199",
	}))
	require.NoError(t, err)

	_, err = f.handler.SetStatus(ctx, rosterpb.NewStruct(map[string]any{
		"id":     entries[0].ID.String(),
		"status": "in_call",
	}))
	require.NoError(t, err)

	_, err = f.handler.DeleteUser(ctx, rosterpb.NewStruct(map[string]any{"id": entries[1].ID.String()}))
	require.NoError(t, err)

	_, err = f.handler.DeleteUser(ctx, rosterpb.NewStruct(map[string]any{"id": uuid.NewString()}))
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = f.handler.DeleteUser(ctx, rosterpb.NewStruct(map[string]any{"id": "nope"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	list, err := f.store.ListByAccount(context.Background(), f.accountID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ada", list[0].Name)
	assert.Equal(t, "+12015550199", list[0].PhoneNumber)
	assert.Equal(t, model.StatusInCall, list[0].Status)
}

func TestRoster_MoveUser(t *testing.T) {
	f := newRosterFixture(t)
	entries := f.seed("A", "B", "C")

	out, err := f.handler.MoveUser(authedContext(f.identityID), rosterpb.NewStruct(map[string]any{
		"moved_id":  entries[2].ID.String(),
		"target_id": entries[0].ID.String(),
	}))
	require.NoError(t, err)

	moved, err := rosterpb.DecodeEntries(out, "entries")
	require.NoError(t, err)
	require.Len(t, moved, 3)
	assert.Equal(t, []uuid.UUID{entries[2].ID, entries[0].ID, entries[1].ID},
		[]uuid.UUID{moved[0].ID, moved[1].ID, moved[2].ID})
}

func TestRoster_CommitOrder_PartialFailure(t *testing.T) {
	f := newRosterFixture(t)
	entries := f.seed("A", "B", "C")
	f.store.FailOrder[entries[1].ID] = errors.New("timeout")

	_, err := f.handler.CommitOrder(authedContext(f.identityID), rosterpb.NewStruct(map[string]any{
		"ids": rosterpb.UUIDList([]uuid.UUID{entries[2].ID, entries[1].ID, entries[0].ID}),
	}))
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.Unavailable, st.Code())
	require.Len(t, st.Details(), 1)
}

func TestRoster_ExportDisabled(t *testing.T) {
	f := newRosterFixture(t)

	_, err := f.handler.ExportRoster(authedContext(f.identityID), rosterpb.Empty())
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestRoster_Unauthenticated(t *testing.T) {
	f := newRosterFixture(t)

	_, err := f.handler.ListUsers(authedContext(uuid.New()), rosterpb.Empty())
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

type fakeWatchStream struct {
	grpc.ServerStream
	ctx context.Context

	mu   sync.Mutex
	sent []*structpb.Struct
	got  chan struct{}
}

func (s *fakeWatchStream) Context() context.Context { return s.ctx }

func (s *fakeWatchStream) Send(m *structpb.Struct) error {
	s.mu.Lock()
	s.sent = append(s.sent, m)
	s.mu.Unlock()
	s.got <- struct{}{}
	return nil
}

func (s *fakeWatchStream) snapshots() []*structpb.Struct {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*structpb.Struct(nil), s.sent...)
}

func TestRoster_WatchRoster(t *testing.T) {
	f := newRosterFixture(t)
	f.seed("A")

	ctx, cancel := context.WithCancel(authedContext(f.identityID))
	stream := &fakeWatchStream{ctx: ctx, got: make(chan struct{}, 8)}

	done := make(chan error, 1)
	go func() { done <- f.handler.WatchRoster(rosterpb.Empty(), stream) }()

	waitSend := func() {
		t.Helper()
		select {
		case <-stream.got:
		case <-time.After(2 * time.Second):
			t.Fatal("no snapshot sent")
		}
	}

	waitSend()

	_, err := f.handler.AddUser(authedContext(f.identityID), rosterpb.NewStruct(map[string]any{
		"name":         "B",
		"phone_number": "201-555-0123",
	}))
	require.NoError(t, err)
	waitSend()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not return")
	}

	sent := stream.snapshots()
	require.Len(t, sent, 2)
	first, err := rosterpb.DecodeEntries(sent[0], "entries")
	require.NoError(t, err)
	assert.Len(t, first, 1)
	second, err := rosterpb.DecodeEntries(sent[1], "entries")
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.Equal(t, f.accountID.String(), rosterpb.String(sent[1], "account_id"))
}
