// Package ledger owns the wallet balance and the append-only transaction
// history, plus reward and offer redemption state. Every mutating operation
// is two-phase: it first waits on the simulated remote call, then applies
// balance delta and history entry together inside one critical section.
// History order therefore reflects completion order of the remote work,
// not initiation order.
package ledger

import (
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/findosh/paywave/internal/models"
	"github.com/findosh/paywave/internal/services/gateway"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyRedeemed = errors.New("reward already redeemed")
	ErrAlreadyApplied  = errors.New("offer already applied")
)

// Gateway is the payment backend seam. The mock implementation sleeps its
// configured latency; a real integration would put the network call here.
type Gateway interface {
	Pay(req gateway.PaymentRequest) (*gateway.PaymentResponse, error)
	Recharge(req gateway.PaymentRequest) (*gateway.PaymentResponse, error)
}

// Config holds latencies for operations with no gateway counterpart
type Config struct {
	TopUpLatency  time.Duration
	RedeemLatency time.Duration
	LoadLatency   time.Duration
}

// Store holds one user's wallet state for the lifetime of the process.
// It does not persist; the session manager owns the only persisted state.
type Store struct {
	gw  Gateway
	cfg Config

	mu           sync.Mutex
	balance      decimal.Decimal
	upiID        string
	recentPayees []string
	transactions []models.Transaction // newest first
	rewards      []models.Reward
	offers       []models.Offer
}

// NewStore creates an empty ledger store
func NewStore(gw Gateway, cfg Config) *Store {
	return &Store{
		gw:      gw,
		cfg:     cfg,
		balance: decimal.Zero,
	}
}

// Snapshot is a dashboard payload fetched from the backend
type Snapshot struct {
	Balance      decimal.Decimal
	UPIID        string
	RecentPayees []string
	Transactions []models.Transaction
	Rewards      []models.Reward
	Offers       []models.Offer
}

// Load replaces the store's state with a fetched snapshot after the
// configured load latency
func (s *Store) Load(snap Snapshot) {
	s.wait(s.cfg.LoadLatency)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.balance = snap.Balance
	s.upiID = snap.UPIID
	s.recentPayees = append([]string(nil), snap.RecentPayees...)
	s.transactions = append([]models.Transaction(nil), snap.Transactions...)
	s.rewards = append([]models.Reward(nil), snap.Rewards...)
	s.offers = append([]models.Offer(nil), snap.Offers...)
}

// MakePayment sends amount to recipient through the gateway and, on
// success, debits the balance and prepends a Paid transaction. Failure
// leaves balance and history untouched.
func (s *Store) MakePayment(paymentType, recipient string, amount decimal.Decimal) (models.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return models.Transaction{}, ErrInvalidAmount
	}

	if _, err := s.gw.Pay(gateway.PaymentRequest{
		Recipient: recipient,
		Amount:    amount,
		Category:  paymentType,
	}); err != nil {
		return models.Transaction{}, err
	}

	tx := models.NewTransaction(paymentType+" - "+recipient, amount, models.StatusPaid)
	tx.Category = paymentType
	tx.Type = models.TypeDebit
	tx.PaymentMethod = models.MethodWallet

	s.mu.Lock()
	s.balance = s.balance.Sub(amount)
	s.prepend(tx)
	s.mu.Unlock()

	return tx, nil
}

// Recharge pays a mobile or service recharge for the given number
func (s *Store) Recharge(provider, number string, amount decimal.Decimal, plan string) (models.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return models.Transaction{}, ErrInvalidAmount
	}

	if _, err := s.gw.Recharge(gateway.PaymentRequest{
		Recipient: number,
		Amount:    amount,
		Category:  models.CategoryRecharge,
		Note:      plan,
	}); err != nil {
		return models.Transaction{}, err
	}

	tx := models.NewTransaction(provider+" Recharge - "+number, amount, models.StatusPaid)
	tx.Category = models.CategoryRecharge
	tx.Type = models.TypeDebit
	tx.PaymentMethod = models.MethodWallet

	s.mu.Lock()
	s.balance = s.balance.Sub(amount)
	s.prepend(tx)
	s.mu.Unlock()

	return tx, nil
}

// AddMoney credits the wallet from the user's bank after the top-up latency
func (s *Store) AddMoney(amount decimal.Decimal) (models.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return models.Transaction{}, ErrInvalidAmount
	}

	s.wait(s.cfg.TopUpLatency)

	tx := models.NewTransaction("Add Money to Wallet", amount, models.StatusReceived)
	tx.Category = models.CategoryWallet
	tx.Type = models.TypeCredit
	tx.PaymentMethod = models.MethodBankTransfer

	s.mu.Lock()
	s.balance = s.balance.Add(amount)
	s.prepend(tx)
	s.mu.Unlock()

	return tx, nil
}

// ScanAndPay parses UPI QR payload of the form
// upi://pay?pa=merchant@upi&pn=Store&am=45.50 and delegates to MakePayment.
// A malformed payload falls back to amount 10 and an unknown merchant.
func (s *Store) ScanAndPay(qrData string) (models.Transaction, error) {
	amount, recipient := parseQR(qrData)
	return s.MakePayment(models.CategoryQRPayment, recipient, amount)
}

// RedeemReward marks a reward redeemed after the redeem latency. Unknown
// ids and already-redeemed rewards are rejected before any state changes.
func (s *Store) RedeemReward(id string) error {
	s.mu.Lock()
	idx := s.rewardIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	if s.rewards[idx].IsRedeemed {
		s.mu.Unlock()
		return ErrAlreadyRedeemed
	}
	s.mu.Unlock()

	s.wait(s.cfg.RedeemLatency)

	s.mu.Lock()
	defer s.mu.Unlock()
	idx = s.rewardIndex(id)
	if idx < 0 {
		return ErrNotFound
	}
	// A concurrent redeem may have settled during the wait
	if s.rewards[idx].IsRedeemed {
		return ErrAlreadyRedeemed
	}
	reward := s.rewards[idx]
	reward.IsRedeemed = true
	s.rewards[idx] = reward
	return nil
}

// ApplyOffer marks an offer applied after the redeem latency
func (s *Store) ApplyOffer(id string) error {
	s.mu.Lock()
	idx := s.offerIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	if s.offers[idx].IsApplied {
		s.mu.Unlock()
		return ErrAlreadyApplied
	}
	s.mu.Unlock()

	s.wait(s.cfg.RedeemLatency)

	s.mu.Lock()
	defer s.mu.Unlock()
	idx = s.offerIndex(id)
	if idx < 0 {
		return ErrNotFound
	}
	if s.offers[idx].IsApplied {
		return ErrAlreadyApplied
	}
	offer := s.offers[idx]
	offer.IsApplied = true
	s.offers[idx] = offer
	return nil
}

// rewardIndex must be called with the lock held
func (s *Store) rewardIndex(id string) int {
	for i := range s.rewards {
		if s.rewards[i].ID == id {
			return i
		}
	}
	return -1
}

// offerIndex must be called with the lock held
func (s *Store) offerIndex(id string) int {
	for i := range s.offers {
		if s.offers[i].ID == id {
			return i
		}
	}
	return -1
}

// prepend must be called with the lock held
func (s *Store) prepend(tx models.Transaction) {
	s.transactions = append([]models.Transaction{tx}, s.transactions...)
}

func (s *Store) wait(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

func parseQR(qrData string) (decimal.Decimal, string) {
	fallbackAmount := decimal.NewFromInt(10)
	const fallbackRecipient = "Unknown Merchant"

	u, err := url.Parse(qrData)
	if err != nil || !strings.EqualFold(u.Scheme, "upi") {
		return fallbackAmount, fallbackRecipient
	}

	values := u.Query()
	recipient := values.Get("pn")
	if recipient == "" {
		recipient = fallbackRecipient
	}
	amount, err := decimal.NewFromString(values.Get("am"))
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		amount = fallbackAmount
	}
	return amount, recipient
}
