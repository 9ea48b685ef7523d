package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/roundrobin/internal/model"
)

func TestNormalizer_Normalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mode    Mode
		input   string
		region  string
		want    string
		wantErr bool
	}{
		{name: "dashed national number", mode: ModeStrict, input: "201-555-0123", region: "US", want: "+12015550123"},
		{name: "formatted national number", mode: ModeStrict, input: "(201) 555-0123", region: "US", want: "+12015550123"},
		{name: "already canonical", mode: ModeStrict, input: "+12015550123", region: "US", want: "+12015550123"},
		{name: "international input with other default region", mode: ModeStrict, input: "+1 201 555 0123", region: "GB", want: "+12015550123"},
		{name: "default region used when empty", mode: ModeStrict, input: "2015550123", region: "", want: "+12015550123"},
		{name: "too short", mode: ModeStrict, input: "123", region: "US", wantErr: true},
		{name: "too short lenient", mode: ModeLenient, input: "123", region: "US", wantErr: true},
		{name: "letters", mode: ModeStrict, input: "call me", region: "US", wantErr: true},
		{name: "empty", mode: ModeStrict, input: "   ", region: "US", wantErr: true},
		{name: "unknown region", mode: ModeStrict, input: "201-555-0123", region: "ZZ", wantErr: true},
		{name: "lenient accepts possible length", mode: ModeLenient, input: "555-123-4567", region: "US", want: "+15551234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n := NewNormalizer("US", tt.mode)
			got, err := n.Normalize(tt.input, tt.region)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrValidation)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizer_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"201-555-0123", "+44 20 7946 0958", "(212) 555-0100"}
	for _, mode := range []Mode{ModeStrict, ModeLenient} {
		n := NewNormalizer("US", mode)
		for _, in := range inputs {
			first, err := n.Normalize(in, "US")
			require.NoError(t, err, in)

			second, err := n.Normalize(first, "US")
			require.NoError(t, err, first)
			assert.Equal(t, first, second)
		}
	}
}

func TestNormalizer_RejectsDeterministically(t *testing.T) {
	t.Parallel()

	n := NewNormalizer("US", ModeStrict)
	for range 3 {
		_, err := n.Normalize("123", "US")
		assert.ErrorIs(t, err, model.ErrValidation)
	}
}

func TestNormalizer_DefaultModeAcceptsPossibleNumbers(t *testing.T) {
	t.Parallel()

	got, err := NewNormalizer("US", "").Normalize("555-123-4567", "US")
	require.NoError(t, err)
	assert.Equal(t, "+15551234567", got)

	_, err = NewNormalizer("US", ModeStrict).Normalize("555-123-4567", "US")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeLenient, m)

	m, err = ParseMode("STRICT")
	require.NoError(t, err)
	assert.Equal(t, ModeStrict, m)

	m, err = ParseMode(" Lenient ")
	require.NoError(t, err)
	assert.Equal(t, ModeLenient, m)

	_, err = ParseMode("loose")
	assert.Error(t, err)
}

func TestDisplay(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "+1 201-555-0123", Display("+12015550123"))
	assert.Equal(t, "garbage", Display("garbage"))
}
