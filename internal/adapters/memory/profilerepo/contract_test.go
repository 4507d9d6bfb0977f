package profilerepo

import (
	"testing"

	"github.com/eco7/eco7-api/internal/adapters/contracttest"
	memidentityrepo "github.com/eco7/eco7-api/internal/adapters/memory/identityrepo"
	identityrepoport "github.com/eco7/eco7-api/internal/ports/out/identityrepo"
	profilerepoport "github.com/eco7/eco7-api/internal/ports/out/profilerepo"
)

func TestContract_ProfileRepo(t *testing.T) {
	contracttest.RunProfileRepo(t,
		func(t *testing.T) (identityrepoport.Repository, func()) {
			t.Helper()
			return memidentityrepo.NewRepo(), nil
		},
		func(t *testing.T) (profilerepoport.Repository, func()) {
			t.Helper()
			return NewRepo(), nil
		},
	)
}
