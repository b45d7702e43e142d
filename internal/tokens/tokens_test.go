package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestIssuer(clock *fakeClock) *Issuer {
	return &Issuer{Secret: []byte("test-jwt-secret"), TTL: time.Hour, Now: clock.Now}
}

func TestIssuer_IssueThenValidate(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	iss := newTestIssuer(clock)

	token, exp, err := iss.Issue("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, clock.t.Add(time.Hour), exp)

	id, err := iss.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Username)
	assert.NotEmpty(t, id.TokenID)
	assert.WithinDuration(t, exp, id.ExpiresAt, time.Second)
}

func TestIssuer_RejectsAfterExpiry(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	iss := newTestIssuer(clock)

	token, _, err := iss.Issue("alice")
	require.NoError(t, err)

	clock.t = clock.t.Add(59 * time.Minute)
	_, err = iss.Validate(token)
	require.NoError(t, err)

	clock.t = clock.t.Add(2 * time.Minute)
	_, err = iss.Validate(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestIssuer_RejectsTamperedSignature(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer(&fakeClock{t: time.Now()})
	token, _, err := iss.Issue("alice")
	require.NoError(t, err)

	dot := strings.LastIndex(token, ".")
	sig := []byte(token[dot+1:])
	for i := range sig {
		tampered := make([]byte, len(sig))
		copy(tampered, sig)
		tampered[i] = flipHighBit(tampered[i])
		_, err := iss.Validate(token[:dot+1] + string(tampered))
		require.Error(t, err, "byte %d", i)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	}
}

const b64url = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// flipHighBit swaps a base64url character for the one whose 6-bit value
// differs in the top bit, so the decoded signature always changes.
func flipHighBit(ch byte) byte {
	idx := strings.IndexByte(b64url, ch)
	return b64url[idx^32]
}

func TestIssuer_RejectsForeignTokens(t *testing.T) {
	t.Parallel()

	now := time.Now()
	iss := newTestIssuer(&fakeClock{t: now})

	otherSecret, _, err := (&Issuer{Secret: []byte("other"), TTL: time.Hour}).Issue("alice")
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Username: "alice"}).SignedString(iss.Secret)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		Username:         "alice",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
	}).SignedString(iss.Secret)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
	}).SignedString(iss.Secret)
	require.NoError(t, err)

	tests := map[string]string{
		"other secret": otherSecret,
		"no expiry":    noExp,
		"wrong alg":    hs512,
		"no subject":   noSubject,
		"malformed":    "not-a-jwt",
		"empty":        "",
	}
	for name, raw := range tests {
		raw := raw
		t.Run(name, func(t *testing.T) {
			_, err := iss.Validate(raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestIssuer_IssueRequiresUsername(t *testing.T) {
	_, _, err := newTestIssuer(&fakeClock{t: time.Now()}).Issue("")
	require.Error(t, err)
}
