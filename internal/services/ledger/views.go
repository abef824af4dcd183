package ledger

import (
	"github.com/findosh/paywave/internal/models"
	"github.com/shopspring/decimal"
)

// recentLimit caps the dashboard's recent-transactions view
const recentLimit = 5

// Balance returns the current wallet balance
func (s *Store) Balance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// UPIID returns the wallet's UPI address
func (s *Store) UPIID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upiID
}

// RecentPayees returns the payees shown as quick-send shortcuts
func (s *Store) RecentPayees() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.recentPayees...)
}

// Transactions returns the full history, newest first
func (s *Store) Transactions() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Transaction(nil), s.transactions...)
}

// RecentTransactions returns the five newest history entries
func (s *Store) RecentTransactions() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.transactions)
	if n > recentLimit {
		n = recentLimit
	}
	return append([]models.Transaction(nil), s.transactions[:n]...)
}

// TransactionsByCategory filters the history by category
func (s *Store) TransactionsByCategory(category string) []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transaction
	for _, tx := range s.transactions {
		if tx.Category == category {
			out = append(out, tx)
		}
	}
	return out
}

// Rewards returns every reward, redeemed or not
func (s *Store) Rewards() []models.Reward {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Reward(nil), s.rewards...)
}

// AvailableRewards returns the rewards not yet redeemed
func (s *Store) AvailableRewards() []models.Reward {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Reward
	for _, r := range s.rewards {
		if !r.IsRedeemed {
			out = append(out, r)
		}
	}
	return out
}

// TotalRewardPoints sums the points of unredeemed rewards
func (s *Store) TotalRewardPoints() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, r := range s.rewards {
		if !r.IsRedeemed {
			total += r.Points
		}
	}
	return total
}

// Offers returns every offer, applied or not
func (s *Store) Offers() []models.Offer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Offer(nil), s.offers...)
}

// SpecialOffers returns the offers not yet applied
func (s *Store) SpecialOffers() []models.Offer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Offer
	for _, o := range s.offers {
		if !o.IsApplied {
			out = append(out, o)
		}
	}
	return out
}

// Summary aggregates settled history: Paid entries count as spent,
// Received entries as received
func (s *Store) Summary() models.TransactionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	spent := decimal.Zero
	received := decimal.Zero
	for _, tx := range s.transactions {
		switch tx.Status {
		case models.StatusPaid:
			spent = spent.Add(tx.Amount)
		case models.StatusReceived:
			received = received.Add(tx.Amount)
		}
	}
	return models.TransactionSummary{
		TotalSpent:    spent,
		TotalReceived: received,
		NetBalance:    received.Sub(spent),
	}
}
