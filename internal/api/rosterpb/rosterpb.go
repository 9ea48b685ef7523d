// Package rosterpb describes the roster.v1 gRPC services. Requests and
// responses are google.protobuf.Struct values with the field names listed
// next to each method. The same contract is written down in
// api/roster/v1/roster.proto.
package rosterpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProtoFile is the checked-in contract the descriptors below follow.
const ProtoFile = "api/roster/v1/roster.proto"

const (
	AuthServiceName     = "roster.v1.Auth"
	AccountsServiceName = "roster.v1.Accounts"
	RosterServiceName   = "roster.v1.Roster"
)

// Full method names.
const (
	// {email, password} -> {identity_id, email}
	AuthSignUp = "/roster.v1.Auth/SignUp"
	// {email, password} -> {access_token, refresh_token}
	AuthSignIn = "/roster.v1.Auth/SignIn"
	// {refresh_token} -> {access_token, refresh_token}
	AuthRefresh = "/roster.v1.Auth/Refresh"
	// {refresh_token} -> {}
	AuthSignOut = "/roster.v1.Auth/SignOut"
	// {access_token} -> {state, view, account_id}
	AuthGate = "/roster.v1.Auth/Gate"

	// {name} -> account
	AccountsCreate = "/roster.v1.Accounts/CreateAccount"
	// {invite_code} -> account
	AccountsJoin = "/roster.v1.Accounts/JoinAccount"
	// {} -> account
	AccountsGet = "/roster.v1.Accounts/GetAccount"

	// {} -> {entries}
	RosterListUsers = "/roster.v1.Roster/ListUsers"
	// {name, phone_number, region} -> entry
	RosterAddUser = "/roster.v1.Roster/AddUser"
	// {id, name, phone_number, region} -> {}
	RosterUpdateUser = "/roster.v1.Roster/UpdateUser"
	// {id, status} -> {}
	RosterSetStatus = "/roster.v1.Roster/SetStatus"
	// {id} -> {}
	RosterDeleteUser = "/roster.v1.Roster/DeleteUser"
	// {moved_id, target_id} -> {entries}
	RosterMoveUser = "/roster.v1.Roster/MoveUser"
	// {ids} -> {}
	RosterCommitOrder = "/roster.v1.Roster/CommitOrder"
	// {} -> {key}
	RosterExportRoster = "/roster.v1.Roster/ExportRoster"
	// {} -> stream of {account_id, entries, delivered_at, error}
	RosterWatchRoster = "/roster.v1.Roster/WatchRoster"
)

// AuthServer is served without bearer authentication.
type AuthServer interface {
	SignUp(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SignIn(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Refresh(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SignOut(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Gate(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type AccountsServer interface {
	CreateAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	JoinAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type RosterServer interface {
	ListUsers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	MoveUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CommitOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExportRoster(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WatchRoster(*structpb.Struct, grpc.ServerStreamingServer[structpb.Struct]) error
}

var AuthServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("SignUp", AuthSignUp, AuthServer.SignUp),
		unary("SignIn", AuthSignIn, AuthServer.SignIn),
		unary("Refresh", AuthRefresh, AuthServer.Refresh),
		unary("SignOut", AuthSignOut, AuthServer.SignOut),
		unary("Gate", AuthGate, AuthServer.Gate),
	},
	Metadata: ProtoFile,
}

var AccountsServiceDesc = grpc.ServiceDesc{
	ServiceName: AccountsServiceName,
	HandlerType: (*AccountsServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateAccount", AccountsCreate, AccountsServer.CreateAccount),
		unary("JoinAccount", AccountsJoin, AccountsServer.JoinAccount),
		unary("GetAccount", AccountsGet, AccountsServer.GetAccount),
	},
	Metadata: ProtoFile,
}

var RosterServiceDesc = grpc.ServiceDesc{
	ServiceName: RosterServiceName,
	HandlerType: (*RosterServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListUsers", RosterListUsers, RosterServer.ListUsers),
		unary("AddUser", RosterAddUser, RosterServer.AddUser),
		unary("UpdateUser", RosterUpdateUser, RosterServer.UpdateUser),
		unary("SetStatus", RosterSetStatus, RosterServer.SetStatus),
		unary("DeleteUser", RosterDeleteUser, RosterServer.DeleteUser),
		unary("MoveUser", RosterMoveUser, RosterServer.MoveUser),
		unary("CommitOrder", RosterCommitOrder, RosterServer.CommitOrder),
		unary("ExportRoster", RosterExportRoster, RosterServer.ExportRoster),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchRoster",
			Handler:       watchRosterHandler,
			ServerStreams: true,
		},
	},
	Metadata: ProtoFile,
}

func RegisterAuthServer(s grpc.ServiceRegistrar, srv AuthServer) {
	s.RegisterService(&AuthServiceDesc, srv)
}

func RegisterAccountsServer(s grpc.ServiceRegistrar, srv AccountsServer) {
	s.RegisterService(&AccountsServiceDesc, srv)
}

func RegisterRosterServer(s grpc.ServiceRegistrar, srv RosterServer) {
	s.RegisterService(&RosterServiceDesc, srv)
}

func unary[S any](name, fullMethod string, call func(S, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func watchRosterHandler(srv any, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(RosterServer).WatchRoster(in, &grpc.GenericServerStream[structpb.Struct, structpb.Struct]{ServerStream: stream})
}
