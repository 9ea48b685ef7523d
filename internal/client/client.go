// Package client talks to the roster server and keeps a local mirror of
// the roster for display.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/roundrobin/internal/api/rosterpb"
	"github.com/dtroode/roundrobin/internal/gate"
	"github.com/dtroode/roundrobin/internal/model"
)

// ErrNotSignedIn is returned when no credentials are stored.
var ErrNotSignedIn = errors.New("not signed in")

// Credentials are the tokens of a signed-in admin.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CredentialStore persists credentials between invocations.
type CredentialStore interface {
	Load() (Credentials, error)
	Save(Credentials) error
	Clear() error
}

// Client is a typed roster.v1 client. Authenticated calls carry the stored
// access token and are retried once after a refresh when it expired.
type Client struct {
	rpc   *rosterpb.Client
	store CredentialStore
}

var _ Backend = (*Client)(nil)

func New(cc grpc.ClientConnInterface, store CredentialStore) *Client {
	return &Client{rpc: rosterpb.NewClient(cc), store: store}
}

func (c *Client) SignUp(ctx context.Context, email, password string) (uuid.UUID, error) {
	out, err := c.rpc.Invoke(ctx, rosterpb.AuthSignUp, map[string]any{"email": email, "password": password})
	if err != nil {
		return uuid.Nil, err
	}
	return rosterpb.UUID(out, "identity_id")
}

// SignIn signs in and stores the issued tokens.
func (c *Client) SignIn(ctx context.Context, email, password string) error {
	out, err := c.rpc.Invoke(ctx, rosterpb.AuthSignIn, map[string]any{"email": email, "password": password})
	if err != nil {
		return err
	}
	return c.store.Save(credentialsFrom(out))
}

// SignOut revokes the refresh token and forgets the stored tokens.
func (c *Client) SignOut(ctx context.Context) error {
	creds, err := c.store.Load()
	if err != nil {
		return err
	}
	_, rpcErr := c.rpc.Invoke(ctx, rosterpb.AuthSignOut, map[string]any{"refresh_token": creds.RefreshToken})
	if err := c.store.Clear(); err != nil {
		return err
	}
	return rpcErr
}

// GateState is the server's view decision for the stored session.
type GateState struct {
	State     gate.State
	View      gate.View
	AccountID uuid.UUID
}

// Gate asks the server which view the stored session may see. An expired
// access token is refreshed once before settling on anonymous.
func (c *Client) Gate(ctx context.Context) (GateState, error) {
	return c.gate(ctx, true)
}

func (c *Client) gate(ctx context.Context, mayRefresh bool) (GateState, error) {
	creds, err := c.store.Load()
	if errors.Is(err, ErrNotSignedIn) {
		creds = Credentials{}
	} else if err != nil {
		return GateState{State: gate.StateChecking}, err
	}

	out, err := c.rpc.Invoke(ctx, rosterpb.AuthGate, map[string]any{"access_token": creds.AccessToken})
	if err != nil {
		return GateState{State: gate.StateChecking}, err
	}

	state := gate.State(rosterpb.String(out, "state"))
	if state == gate.StateAnonymous && mayRefresh && creds.RefreshToken != "" {
		if rerr := c.refresh(ctx); rerr == nil {
			return c.gate(ctx, false)
		}
	}

	accountID, _ := uuid.Parse(rosterpb.String(out, "account_id"))
	return GateState{State: state, View: gate.View(rosterpb.String(out, "view")), AccountID: accountID}, nil
}

func (c *Client) CreateAccount(ctx context.Context, name string) (model.Account, error) {
	out, err := c.call(ctx, rosterpb.AccountsCreate, map[string]any{"name": name})
	if err != nil {
		return model.Account{}, err
	}
	account, _, err := rosterpb.DecodeAccount(out)
	return account, err
}

func (c *Client) JoinAccount(ctx context.Context, inviteCode string) (model.Account, error) {
	out, err := c.call(ctx, rosterpb.AccountsJoin, map[string]any{"invite_code": inviteCode})
	if err != nil {
		return model.Account{}, err
	}
	account, _, err := rosterpb.DecodeAccount(out)
	return account, err
}

func (c *Client) Account(ctx context.Context) (model.Account, model.Role, error) {
	out, err := c.call(ctx, rosterpb.AccountsGet, nil)
	if err != nil {
		return model.Account{}, "", err
	}
	return rosterpb.DecodeAccount(out)
}

func (c *Client) List(ctx context.Context) ([]model.Entry, error) {
	out, err := c.call(ctx, rosterpb.RosterListUsers, nil)
	if err != nil {
		return nil, err
	}
	return rosterpb.DecodeEntries(out, "entries")
}

func (c *Client) Add(ctx context.Context, name, phoneNumber, region string) (model.Entry, error) {
	out, err := c.call(ctx, rosterpb.RosterAddUser, map[string]any{
		"name":         name,
		"phone_number": phoneNumber,
		"region":       region,
	})
	if err != nil {
		return model.Entry{}, err
	}
	return rosterpb.DecodeEntry(out)
}

func (c *Client) Update(ctx context.Context, id uuid.UUID, name, phoneNumber, region string) error {
	_, err := c.call(ctx, rosterpb.RosterUpdateUser, map[string]any{
		"id":           id.String(),
		"name":         name,
		"phone_number": phoneNumber,
		"region":       region,
	})
	return err
}

func (c *Client) SetStatus(ctx context.Context, id uuid.UUID, status model.Status) error {
	_, err := c.call(ctx, rosterpb.RosterSetStatus, map[string]any{"id": id.String(), "status": string(status)})
	return err
}

func (c *Client) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := c.call(ctx, rosterpb.RosterDeleteUser, map[string]any{"id": id.String()})
	return err
}

func (c *Client) CommitOrder(ctx context.Context, ids []uuid.UUID) error {
	_, err := c.call(ctx, rosterpb.RosterCommitOrder, map[string]any{"ids": rosterpb.UUIDList(ids)})
	return err
}

func (c *Client) Export(ctx context.Context) (string, error) {
	out, err := c.call(ctx, rosterpb.RosterExportRoster, nil)
	if err != nil {
		return "", err
	}
	return rosterpb.String(out, "key"), nil
}

// Snapshot is one roster delivery from WatchRoster.
type Snapshot struct {
	AccountID uuid.UUID
	Entries   []model.Entry
	Err       string
}

// Watch calls fn with every snapshot until ctx is done or the stream ends.
func (c *Client) Watch(ctx context.Context, fn func(Snapshot)) error {
	authCtx, err := c.authorize(ctx)
	if err != nil {
		return err
	}

	stream, err := c.rpc.WatchRoster(authCtx)
	if err != nil {
		return err
	}

	for {
		msg, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if status.Code(err) == codes.Canceled && ctx.Err() != nil {
				return nil
			}
			return err
		}
		snap, err := decodeSnapshot(msg)
		if err != nil {
			return err
		}
		fn(snap)
	}
}

// FailedIDs extracts the ids of a partially failed CommitOrder.
func FailedIDs(err error) []uuid.UUID {
	st, ok := status.FromError(err)
	if !ok {
		return nil
	}
	for _, d := range st.Details() {
		s, ok := d.(*structpb.Struct)
		if !ok {
			continue
		}
		ids, err := rosterpb.UUIDs(s, "failed_ids")
		if err == nil {
			return ids
		}
	}
	return nil
}

func (c *Client) call(ctx context.Context, method string, in map[string]any) (*structpb.Struct, error) {
	authCtx, err := c.authorize(ctx)
	if err != nil {
		return nil, err
	}

	out, err := c.rpc.Invoke(authCtx, method, in)
	if status.Code(err) != codes.Unauthenticated {
		return out, err
	}

	if rerr := c.refresh(ctx); rerr != nil {
		return nil, err
	}
	authCtx, aerr := c.authorize(ctx)
	if aerr != nil {
		return nil, aerr
	}
	return c.rpc.Invoke(authCtx, method, in)
}

func (c *Client) authorize(ctx context.Context) (context.Context, error) {
	creds, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+creds.AccessToken), nil
}

func (c *Client) refresh(ctx context.Context) error {
	creds, err := c.store.Load()
	if err != nil {
		return err
	}
	if creds.RefreshToken == "" {
		return ErrNotSignedIn
	}
	out, err := c.rpc.Invoke(ctx, rosterpb.AuthRefresh, map[string]any{"refresh_token": creds.RefreshToken})
	if err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	return c.store.Save(credentialsFrom(out))
}

func credentialsFrom(out *structpb.Struct) Credentials {
	return Credentials{
		AccessToken:  rosterpb.String(out, "access_token"),
		RefreshToken: rosterpb.String(out, "refresh_token"),
	}
}

func decodeSnapshot(msg *structpb.Struct) (Snapshot, error) {
	entries, err := rosterpb.DecodeEntries(msg, "entries")
	if err != nil {
		return Snapshot{}, err
	}
	accountID, _ := uuid.Parse(rosterpb.String(msg, "account_id"))
	return Snapshot{AccountID: accountID, Entries: entries, Err: rosterpb.String(msg, "error")}, nil
}
