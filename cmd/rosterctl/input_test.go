package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/roundrobin/internal/api/rosterpb"
	"github.com/dtroode/roundrobin/internal/client"
)

func TestPromptLine(t *testing.T) {
	var out bytes.Buffer
	got, err := promptLine(bufio.NewReader(strings.NewReader("  ada@example.com\n")), &out, "Email")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got)
	assert.Equal(t, "Email: ", out.String())

	got, err = promptLine(bufio.NewReader(strings.NewReader("no newline")), &out, "Email")
	require.NoError(t, err)
	assert.Equal(t, "no newline", got)
}

func TestPromptPassword(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	readPassword = func(int) ([]byte, error) { return []byte("secret123"), nil }
	var out bytes.Buffer
	got, err := promptPassword(&out, "Password")
	require.NoError(t, err)
	assert.Equal(t, "secret123", got)
	assert.Equal(t, "Password: \n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("not a terminal") }
	_, err = promptPassword(&out, "Password")
	require.Error(t, err)
}

func TestDescribe(t *testing.T) {
	assert.Contains(t, describe(fmt.Errorf("load: %w", client.ErrNotSignedIn)), "rosterctl login")
	assert.Equal(t, "invalidargument: bad phone", describe(status.Error(codes.InvalidArgument, "bad phone")))

	id := uuid.New()
	st, err := status.New(codes.Unavailable, "commit order failed").
		WithDetails(rosterpb.NewStruct(map[string]any{"failed_ids": rosterpb.UUIDList([]uuid.UUID{id})}))
	require.NoError(t, err)
	assert.Contains(t, describe(st.Err()), id.String())
}
