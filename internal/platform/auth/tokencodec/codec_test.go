package tokencodec

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	memclock "github.com/eco7/eco7-api/internal/adapters/memory/clock"
	"github.com/eco7/eco7-api/internal/domain"
)

var testSecret = []byte("codec-test-secret")

func newTestCodec(t *testing.T, opts ...Option) (*Codec, *memclock.ManualClock) {
	t.Helper()
	clk := memclock.NewManualClock(time.Unix(1700000000, 0).UTC())
	c, err := New(testSecret, append([]Option{WithClock(clk)}, opts...)...)
	require.NoError(t, err)
	return c, clk
}

func TestCodec_IssueThenVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	c, clk := newTestCodec(t)
	tok, exp, err := c.Issue("sub-1", "alice@example.com", time.Hour)
	require.NoError(t, err)
	require.True(t, exp.Equal(clk.Now().Add(time.Hour)), "exp=%v", exp)

	claims, err := c.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, domain.SubjectID("sub-1"), claims.SubjectID)
	require.Equal(t, "alice@example.com", claims.Email)
	require.True(t, claims.ExpiresAt.Equal(exp), "ExpiresAt=%v", claims.ExpiresAt)
	require.True(t, claims.IssuedAt.Equal(clk.Now()), "IssuedAt=%v", claims.IssuedAt)
	require.NotEmpty(t, claims.TokenID)
}

func TestCodec_TokensForSameSubjectDiffer(t *testing.T) {
	t.Parallel()

	c, _ := newTestCodec(t)
	a, _, err := c.Issue("sub-1", "a@example.com", time.Hour)
	require.NoError(t, err)
	b, _, err := c.Issue("sub-1", "a@example.com", time.Hour)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	_, err = c.Verify(a)
	require.NoError(t, err)
	_, err = c.Verify(b)
	require.NoError(t, err)
}

func TestCodec_Verify_Expired(t *testing.T) {
	t.Parallel()

	c, clk := newTestCodec(t)
	tok, _, err := c.Issue("sub-1", "a@example.com", time.Hour)
	require.NoError(t, err)

	clk.Advance(time.Hour - time.Second)
	_, err = c.Verify(tok)
	require.NoError(t, err)

	clk.Advance(time.Second)
	_, err = c.Verify(tok)
	require.ErrorIs(t, err, ErrExpired)
}

func TestCodec_Verify_WrongSecret(t *testing.T) {
	t.Parallel()

	c, _ := newTestCodec(t)
	other, err := New([]byte("some-other-secret"))
	require.NoError(t, err)

	tok, _, err := other.Issue("sub-1", "a@example.com", time.Hour)
	require.NoError(t, err)

	_, err = c.Verify(tok)
	require.ErrorIs(t, err, ErrBadSignature)
}

func TestCodec_Verify_Malformed(t *testing.T) {
	t.Parallel()

	c, _ := newTestCodec(t)
	for _, raw := range []string{"", "garbage", "a.b.c", "abc.def"} {
		_, err := c.Verify(raw)
		require.ErrorIs(t, err, ErrMalformed, "token %q", raw)
	}
}

func TestCodec_Verify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	c, clk := newTestCodec(t)
	claims := jwt.RegisteredClaims{
		Subject:   "sub-1",
		ExpiresAt: jwt.NewNumericDate(clk.Now().Add(time.Hour)),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = c.Verify(unsigned)
	require.ErrorIs(t, err, ErrMalformed)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(c.secret)
	require.NoError(t, err)
	_, err = c.Verify(hs512)
	require.ErrorIs(t, err, ErrMalformed)
	require.False(t, errors.Is(err, ErrBadSignature))
}

func TestCodec_Verify_MissingClaims(t *testing.T) {
	t.Parallel()

	c, clk := newTestCodec(t)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "sub-1",
	}).SignedString(testSecret)
	require.NoError(t, err)
	_, err = c.Verify(noExp)
	require.ErrorIs(t, err, ErrMalformed)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(clk.Now().Add(time.Hour)),
	}).SignedString(testSecret)
	require.NoError(t, err)
	_, err = c.Verify(noSub)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestCodec_Verify_IssuerMismatch(t *testing.T) {
	t.Parallel()

	c, clk := newTestCodec(t, WithIssuer("eco7"))
	other, err := New(testSecret, WithClock(clk), WithIssuer("someone-else"))
	require.NoError(t, err)

	tok, _, err := other.Issue("sub-1", "a@example.com", time.Hour)
	require.NoError(t, err)

	_, err = c.Verify(tok)
	require.ErrorIs(t, err, ErrMalformed)
	require.False(t, errors.Is(err, ErrBadSignature))

	own, _, err := c.Issue("sub-1", "a@example.com", time.Hour)
	require.NoError(t, err)
	_, err = c.Verify(own)
	require.NoError(t, err)
}

func TestCodec_InvalidArguments(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	require.ErrorIs(t, err, ErrEmptySecret)

	c, _ := newTestCodec(t)
	_, _, err = c.Issue("", "a@example.com", time.Hour)
	require.ErrorIs(t, err, ErrEmptySubject)
	_, _, err = c.Issue("sub-1", "a@example.com", 0)
	require.ErrorIs(t, err, ErrInvalidTTL)
}
