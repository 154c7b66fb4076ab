package token

import (
	"testing"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := NewCodec([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	return codec
}

func TestNewCodecRejectsBadSecret(t *testing.T) {
	t.Parallel()

	_, err := NewCodec([]byte("too-short"))
	require.Error(t, err)
}

func TestSessionRoundTrip(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)

	in := SessionClaims{
		UserID:  "user-1",
		Name:    "Ana",
		Email:   "ana@x.com",
		IsAdmin: true,
	}

	tok, err := codec.SignSession(in, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	out, err := codec.VerifySession(tok)
	require.NoError(t, err)
	assert.Equal(t, in.UserID, out.UserID)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Email, out.Email)
	assert.Equal(t, in.IsAdmin, out.IsAdmin)
	assert.WithinDuration(t, time.Now(), out.IssuedAt, time.Minute)
	assert.WithinDuration(t, time.Now().Add(time.Hour), out.ExpiresAt, time.Minute)
}

func TestEmailVerificationRoundTrip(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)

	tok, err := codec.SignEmailVerification("user-2", time.Hour)
	require.NoError(t, err)

	claims, err := codec.VerifyEmailVerification(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-2", claims.UserID)
}

func TestPasswordResetRoundTrip(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)

	tests := []struct {
		name string
		kind ResetKind
	}{
		{name: "by email", kind: ResetByEmail},
		{name: "by self", kind: ResetBySelf},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tok, err := codec.SignPasswordReset(tt.kind, "user-3", 10*time.Minute)
			require.NoError(t, err)

			claims, err := codec.VerifyPasswordReset(tok)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, claims.Kind)
			assert.Equal(t, "user-3", claims.UserID)
		})
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)

	tok, err := codec.SignSession(SessionClaims{UserID: "u"}, -time.Second)
	require.NoError(t, err)

	_, err = codec.VerifySession(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestWrongKeyRejected(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)
	other, err := NewCodec([]byte("ffffffffffffffffffffffffffffffff"))
	require.NoError(t, err)

	tok, err := codec.SignSession(SessionClaims{UserID: "u"}, time.Hour)
	require.NoError(t, err)

	_, err = other.VerifySession(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMalformedTokenRejected(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)

	_, err := codec.VerifySession("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = codec.VerifyPasswordReset("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetSubjectFieldsExactlyOne(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)

	// Hand-crafted reset tokens that bypass SignPasswordReset: one with no
	// subject at all, one with both. Both must be rejected.
	mint := func(set func(tok *paseto.Token)) string {
		tok := codec.newToken(purposeReset, time.Hour)
		set(&tok)
		return tok.V4Encrypt(codec.symmetricKey, nil)
	}

	missingBoth := mint(func(tok *paseto.Token) {})
	_, err := codec.VerifyPasswordReset(missingBoth)
	assert.ErrorIs(t, err, ErrInvalidToken)

	carryingBoth := mint(func(tok *paseto.Token) {
		tok.SetString(claimResetUserID, "u")
		tok.SetString(claimSubjectUserID, "u")
	})
	_, err = codec.VerifyPasswordReset(carryingBoth)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPurposeIsEnforced(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)

	session, err := codec.SignSession(SessionClaims{UserID: "u"}, time.Hour)
	require.NoError(t, err)
	reset, err := codec.SignPasswordReset(ResetByEmail, "u", time.Hour)
	require.NoError(t, err)
	verify, err := codec.SignEmailVerification("u", time.Hour)
	require.NoError(t, err)

	// A token minted for one flow is never accepted by another.
	_, err = codec.VerifyPasswordReset(session)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = codec.VerifySession(reset)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = codec.VerifySession(verify)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = codec.VerifyEmailVerification(session)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
