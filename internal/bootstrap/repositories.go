package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/accrabet/accrabet/internal/database/postgres"
	"github.com/accrabet/accrabet/internal/repository"
)

// Repositories holds all repository implementations used by the application.
// This provides a centralized location for repository initialization and
// makes dependency injection clearer.
type Repositories struct {
	Ledger   repository.Ledger
	Wager    repository.Wager
	Contest  repository.Contest
	Referral repository.Referral
	User     repository.User
}

// InitializeRepositories creates all repository implementations
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Ledger:   postgres.NewLedgerRepository(dbPool),
		Wager:    postgres.NewWagerRepository(dbPool),
		Contest:  postgres.NewContestRepository(dbPool),
		Referral: postgres.NewReferralRepository(dbPool),
		User:     postgres.NewUserRepository(dbPool),
	}
}
