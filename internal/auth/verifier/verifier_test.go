package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNew_RejectsBadSecrets(t *testing.T) {
	for _, secret := range []string{"", "123", "1234567", "12a4", " 1234"} {
		v, err := New(secret, bcrypt.MinCost)
		assert.ErrorIs(t, err, ErrConfig, "secret %q", secret)
		assert.Nil(t, v)
	}
}

func TestNew_DoesNotKeepPlaintext(t *testing.T) {
	v, err := New("2334", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotContains(t, string(v.hash), "2334")
}

func TestVerify(t *testing.T) {
	v, err := New("2334", bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name      string
		candidate string
		want      bool
		wantErr   error
	}{
		{name: "exact match", candidate: "2334", want: true},
		{name: "one digit off", candidate: "2335", want: false},
		{name: "prefix of secret plus digit", candidate: "23341", want: false},
		{name: "six digits", candidate: "123456", want: false},
		{name: "empty", candidate: "", wantErr: ErrInvalidFormat},
		{name: "too short", candidate: "233", wantErr: ErrInvalidFormat},
		{name: "too long", candidate: "1234567", wantErr: ErrInvalidFormat},
		{name: "letters", candidate: "23a4", wantErr: ErrInvalidFormat},
		{name: "surrounding space", candidate: " 2334", wantErr: ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Verify(tt.candidate)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerify_BadFormatSkipsHashing(t *testing.T) {
	// A corrupt hash would make any comparison fail with an error.
	v := &Verifier{hash: []byte("not a bcrypt hash")}

	_, err := v.Verify("12")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = v.Verify("1234")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidFormat)
}

func TestVerify_SixDigitSecret(t *testing.T) {
	v, err := New("908172", bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := v.Verify("908172")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Verify("9081")
	require.NoError(t, err)
	assert.False(t, ok)
}
