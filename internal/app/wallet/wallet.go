// Package wallet implements the append-only currency audit ledger.
// Balances live in the progression record; every credit additionally
// writes a ledger row so grants can be audited after the fact. Debits
// (purchases) belong to the shop collaborator, not this engine.
package wallet

import (
	"fmt"
	"time"

	"github.com/wordkite/wordkite/internal/domain"
	"github.com/wordkite/wordkite/internal/infra/sqlite"
)

// Service records currency credits.
type Service struct {
	db *sqlite.DB
}

// NewService creates a wallet service.
func NewService(db *sqlite.DB) *Service {
	return &Service{db: db}
}

// Credit appends one audit entry for a currency grant. balanceAfter is
// the player's balance after the credit was applied to the progression
// record.
func (s *Service) Credit(playerID string, currency domain.Currency, amount int64, reason string, balanceAfter int64) error {
	if playerID == "" {
		return domain.ErrEmptyPlayerID
	}
	if amount <= 0 {
		return fmt.Errorf("%w: got %d", domain.ErrNonPositiveAmount, amount)
	}

	_, err := s.db.InsertLedgerEntry(domain.LedgerEntry{
		PlayerID:  playerID,
		Currency:  currency,
		Amount:    amount,
		Reason:    reason,
		Balance:   balanceAfter,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// History returns a player's recent credits, newest first.
func (s *Service) History(playerID string, limit int) ([]domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.db.LedgerEntries(playerID, limit)
}
