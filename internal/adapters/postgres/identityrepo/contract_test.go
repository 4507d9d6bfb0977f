package identityrepo

import (
	"testing"

	"github.com/eco7/eco7-api/internal/adapters/contracttest"
	"github.com/eco7/eco7-api/internal/adapters/postgres/testutil"
	identityrepoport "github.com/eco7/eco7-api/internal/ports/out/identityrepo"
)

func TestContract_PostgresIdentityRepo(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunIdentityRepo(t, func(t *testing.T) (identityrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(pool), nil
	})
}
