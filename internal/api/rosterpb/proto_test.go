package rosterpb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

func TestProtoFileMatchesDescriptors(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "..", filepath.FromSlash(ProtoFile)))
	require.NoError(t, err)
	proto := string(raw)

	assert.Contains(t, proto, "package roster.v1;")

	for _, desc := range []grpc.ServiceDesc{AuthServiceDesc, AccountsServiceDesc, RosterServiceDesc} {
		assert.Equal(t, ProtoFile, desc.Metadata)

		service := strings.TrimPrefix(desc.ServiceName, "roster.v1.")
		assert.Contains(t, proto, "service "+service+" {", desc.ServiceName)

		for _, m := range desc.Methods {
			assert.Contains(t, proto, "rpc "+m.MethodName+"(google.protobuf.Struct) returns (google.protobuf.Struct);", m.MethodName)
		}
		for _, s := range desc.Streams {
			assert.Contains(t, proto, "rpc "+s.StreamName+"(google.protobuf.Struct) returns (stream google.protobuf.Struct);", s.StreamName)
		}
	}
}
