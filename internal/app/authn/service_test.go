package authn

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	memclock "github.com/eco7/eco7-api/internal/adapters/memory/clock"
	memidentityrepo "github.com/eco7/eco7-api/internal/adapters/memory/identityrepo"
	"github.com/eco7/eco7-api/internal/domain"
	"github.com/eco7/eco7-api/internal/platform/auth/tokencodec"
	"github.com/eco7/eco7-api/internal/platform/credentials"
)

type fixture struct {
	svc   *Service
	repo  *memidentityrepo.Repo
	codec *tokencodec.Codec
	clk   *memclock.ManualClock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	clk := memclock.NewManualClock(time.Unix(1700000000, 0).UTC())
	codec, err := tokencodec.New([]byte("authn-test-secret"), tokencodec.WithClock(clk))
	require.NoError(t, err)
	matcher, err := credentials.NewBcrypt(4)
	require.NoError(t, err)
	repo := memidentityrepo.NewRepo()
	return fixture{
		svc:   NewService(repo, matcher, codec, clk, time.Hour),
		repo:  repo,
		codec: codec,
		clk:   clk,
	}
}

func requireAppError(t *testing.T, err error, status int, code string) *Error {
	t.Helper()
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Status != status || ae.Code != code {
		t.Fatalf("err=%v (type=%T), want %s %d", err, err, code, status)
	}
	return ae
}

func TestService_RegisterThenLogin(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	name := "  Alice   Green "
	reg, err := f.svc.Register(ctx, RegisterInput{Email: " Alice@Example.com ", Secret: "pw1", DisplayName: &name})
	if err != nil {
		t.Fatalf("Register err=%v", err)
	}
	require.Equal(t, "alice@example.com", reg.Identity.Email)
	require.NotNil(t, reg.Identity.DisplayName)
	require.Equal(t, "Alice Green", *reg.Identity.DisplayName)
	require.True(t, reg.Identity.Authenticated)
	require.True(t, reg.ExpiresAt.Equal(f.clk.Now().Add(time.Hour)))

	claims, err := f.codec.Verify(reg.Token)
	require.NoError(t, err)
	require.Equal(t, reg.Identity.SubjectID, claims.SubjectID)

	stored, err := f.repo.GetByID(ctx, reg.Identity.SubjectID)
	require.NoError(t, err)
	require.NotEqual(t, "pw1", stored.Secret)

	f.clk.Advance(time.Minute)
	login, err := f.svc.Login(ctx, LoginInput{Email: "ALICE@example.com", Secret: "pw1"})
	if err != nil {
		t.Fatalf("Login err=%v", err)
	}
	require.Equal(t, reg.Identity.SubjectID, login.Identity.SubjectID)
	require.True(t, login.Identity.Authenticated)
	require.NotEqual(t, reg.Token, login.Token)

	// Earlier tokens stay valid.
	_, err = f.codec.Verify(reg.Token)
	require.NoError(t, err)
}

func TestService_Register_DuplicateEmailRegardlessOfSecret(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, RegisterInput{Email: "bob@example.com", Secret: "one"})
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, RegisterInput{Email: "BOB@example.com", Secret: "two"})
	requireAppError(t, err, 409, "USER_ALREADY_EXISTS")
}

func TestService_Register_ConcurrentSameEmail(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Register(ctx, RegisterInput{Email: "race@example.com", Secret: "pw"})
			mu.Lock()
			defer mu.Unlock()
			ae := (*Error)(nil)
			switch {
			case err == nil:
				successes++
			case errors.As(err, &ae) && ae.Code == "USER_ALREADY_EXISTS":
				conflicts++
			default:
				t.Errorf("unexpected err=%v", err)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, successes)
	require.Equal(t, n-1, conflicts)
}

func TestService_Register_Validation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	long := make([]byte, credentials.MaxSecretBytes+1)
	for i := range long {
		long[i] = 'x'
	}
	cases := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{name: "missing email", in: RegisterInput{Secret: "pw"}, field: "email"},
		{name: "bad email", in: RegisterInput{Email: "not-an-email", Secret: "pw"}, field: "email"},
		{name: "missing secret", in: RegisterInput{Email: "c@example.com"}, field: "password"},
		{name: "secret too long", in: RegisterInput{Email: "c@example.com", Secret: string(long)}, field: "password"},
	}
	for _, tc := range cases {
		_, err := f.svc.Register(ctx, tc.in)
		ae := requireAppError(t, err, 400, "VALIDATION_ERROR")
		if _, ok := ae.Details[tc.field]; !ok {
			t.Fatalf("%s: details=%v, want key %q", tc.name, ae.Details, tc.field)
		}
	}
}

func TestService_Login_FailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, RegisterInput{Email: "carol@example.com", Secret: "right"})
	require.NoError(t, err)

	_, errUnknown := f.svc.Login(ctx, LoginInput{Email: "nobody@example.com", Secret: "right"})
	_, errWrong := f.svc.Login(ctx, LoginInput{Email: "carol@example.com", Secret: "wrong"})

	a := requireAppError(t, errUnknown, 401, "INVALID_CREDENTIALS")
	b := requireAppError(t, errWrong, 401, "INVALID_CREDENTIALS")
	require.Equal(t, a.Message, b.Message)
}

func TestService_Login_RejectsSecretExtendingRegisteredOne(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	secret := strings.Repeat("a", credentials.MaxSecretBytes)
	_, err := f.svc.Register(ctx, RegisterInput{Email: "long@example.com", Secret: secret})
	require.NoError(t, err)

	_, errLong := f.svc.Login(ctx, LoginInput{Email: "long@example.com", Secret: secret + "WRONG-SUFFIX"})
	_, errWrong := f.svc.Login(ctx, LoginInput{Email: "long@example.com", Secret: "wrong"})
	a := requireAppError(t, errLong, 401, "INVALID_CREDENTIALS")
	b := requireAppError(t, errWrong, 401, "INVALID_CREDENTIALS")
	require.Equal(t, b.Message, a.Message)

	_, err = f.svc.Login(ctx, LoginInput{Email: "long@example.com", Secret: secret})
	require.NoError(t, err)
}

func TestService_Login_MissingCredentials(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.Login(context.Background(), LoginInput{Email: "  ", Secret: "pw"})
	requireAppError(t, err, 400, "MISSING_CREDENTIALS")
	_, err = f.svc.Login(context.Background(), LoginInput{Email: "a@example.com"})
	requireAppError(t, err, 400, "MISSING_CREDENTIALS")
}

func TestService_GetIdentity(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, RegisterInput{Email: "dave@example.com", Secret: "pw"})
	require.NoError(t, err)

	got, err := f.svc.GetIdentity(ctx, reg.Identity.SubjectID)
	require.NoError(t, err)
	require.Equal(t, reg.Identity.Email, got.Email)

	_, err = f.svc.GetIdentity(ctx, domain.SubjectID("missing"))
	requireAppError(t, err, 404, "USER_NOT_FOUND")
}
