package ledger

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/findosh/paywave/internal/models"
	"github.com/findosh/paywave/internal/services/gateway"
	"github.com/shopspring/decimal"
)

// stubGateway settles payments after a per-recipient delay, or declines
// everything when failing is set
type stubGateway struct {
	delays  map[string]time.Duration
	failing bool
}

func (g *stubGateway) Recharge(req gateway.PaymentRequest) (*gateway.PaymentResponse, error) {
	return g.Pay(req)
}

func (g *stubGateway) Pay(req gateway.PaymentRequest) (*gateway.PaymentResponse, error) {
	if d, ok := g.delays[req.Recipient]; ok {
		time.Sleep(d)
	}
	if g.failing {
		return nil, gateway.ErrSimulatedFailure
	}
	return &gateway.PaymentResponse{
		TransactionID: "stub",
		Status:        gateway.PaymentSuccess,
		Amount:        req.Amount,
		Timestamp:     time.Now().UTC(),
	}, nil
}

func newTestStore(gw Gateway) *Store {
	s := NewStore(gw, Config{})
	s.Load(DemoSnapshot())
	return s
}

func amount(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func TestMakePayment_AtomicMutation(t *testing.T) {
	s := newTestStore(&stubGateway{})
	before := s.Balance()
	history := len(s.Transactions())

	tx, err := s.MakePayment("Send Money", "John Doe", amount(50))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := before.Sub(amount(50))
	if !s.Balance().Equal(want) {
		t.Errorf("Expected balance %s, got %s", want, s.Balance())
	}
	if got := len(s.Transactions()); got != history+1 {
		t.Errorf("Expected history length %d, got %d", history+1, got)
	}

	front := s.Transactions()[0]
	if front.ID != tx.ID {
		t.Errorf("Expected new transaction at the front of history")
	}
	if front.Status != models.StatusPaid {
		t.Errorf("Expected status Paid, got %s", front.Status)
	}
	if front.Type != models.TypeDebit {
		t.Errorf("Expected type debit, got %s", front.Type)
	}
	if front.Description != "Send Money - John Doe" {
		t.Errorf("Unexpected description %q", front.Description)
	}
}

func TestMakePayment_InvalidAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
	}{
		{"zero", decimal.Zero},
		{"negative", amount(-5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(&stubGateway{})
			before := s.Balance()
			history := len(s.Transactions())

			_, err := s.MakePayment("Bill", "X", tt.amount)
			if !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("Expected ErrInvalidAmount, got %v", err)
			}
			if !s.Balance().Equal(before) {
				t.Error("Expected balance unchanged")
			}
			if len(s.Transactions()) != history {
				t.Error("Expected history unchanged")
			}
		})
	}
}

func TestMakePayment_GatewayFailureLeavesStateUntouched(t *testing.T) {
	s := newTestStore(&stubGateway{failing: true})
	before := s.Balance()
	history := len(s.Transactions())

	_, err := s.MakePayment("Send Money", "John Doe", amount(50))
	if !errors.Is(err, gateway.ErrSimulatedFailure) {
		t.Fatalf("Expected ErrSimulatedFailure, got %v", err)
	}
	if !s.Balance().Equal(before) {
		t.Errorf("Expected balance unchanged, got %s", s.Balance())
	}
	if len(s.Transactions()) != history {
		t.Error("Expected history unchanged")
	}
}

func TestHistory_ReflectsCompletionOrder(t *testing.T) {
	gw := &stubGateway{delays: map[string]time.Duration{
		"slow": 120 * time.Millisecond,
		"fast": 40 * time.Millisecond,
	}}
	s := newTestStore(gw)

	var wg sync.WaitGroup
	var slowTx, fastTx models.Transaction
	wg.Add(2)
	go func() {
		defer wg.Done()
		slowTx, _ = s.MakePayment("Send Money", "slow", amount(15))
	}()
	go func() {
		defer wg.Done()
		fastTx, _ = s.MakePayment("Send Money", "fast", amount(8))
	}()
	wg.Wait()

	history := s.Transactions()
	// The fast payment settles first and the slow one lands on top of it:
	// positions follow completion order, not initiation order
	if history[0].ID != slowTx.ID {
		t.Errorf("Expected last-settled payment at the front, got %q", history[0].Description)
	}
	if history[1].ID != fastTx.ID {
		t.Errorf("Expected first-settled payment behind it, got %q", history[1].Description)
	}

	want := decimal.NewFromFloat(1250.75).Sub(amount(23))
	if !s.Balance().Equal(want) {
		t.Errorf("Expected balance %s, got %s", want, s.Balance())
	}
}

func TestSequentialAddMoneyThenPayment(t *testing.T) {
	s := newTestStore(&stubGateway{})

	if !s.Balance().Equal(amount(1250.75)) {
		t.Fatalf("Expected seeded balance 1250.75, got %s", s.Balance())
	}

	addTx, err := s.AddMoney(amount(100))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	payTx, err := s.MakePayment("Bill", "X", amount(50))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !s.Balance().Equal(amount(1300.75)) {
		t.Errorf("Expected balance 1300.75, got %s", s.Balance())
	}

	history := s.Transactions()
	if history[0].ID != payTx.ID {
		t.Errorf("Expected payment at the front, got %q", history[0].Description)
	}
	if history[1].ID != addTx.ID {
		t.Errorf("Expected top-up second, got %q", history[1].Description)
	}
	if history[2].ID != "t1" {
		t.Errorf("Expected pre-existing history preserved, got %q", history[2].ID)
	}
}

func TestAddMoney_CreditsWallet(t *testing.T) {
	s := newTestStore(&stubGateway{})
	before := s.Balance()

	tx, err := s.AddMoney(amount(200))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !s.Balance().Equal(before.Add(amount(200))) {
		t.Errorf("Expected balance credited, got %s", s.Balance())
	}
	if tx.Status != models.StatusReceived {
		t.Errorf("Expected status Received, got %s", tx.Status)
	}
	if tx.Type != models.TypeCredit {
		t.Errorf("Expected type credit, got %s", tx.Type)
	}

	if _, err := s.AddMoney(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestRecharge(t *testing.T) {
	s := newTestStore(&stubGateway{})
	before := s.Balance()

	tx, err := s.Recharge("Airtel", "9876543210", amount(49.99), "unlimited-28d")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !s.Balance().Equal(before.Sub(amount(49.99))) {
		t.Errorf("Expected balance debited, got %s", s.Balance())
	}
	if tx.Category != models.CategoryRecharge {
		t.Errorf("Expected category Recharge, got %q", tx.Category)
	}
	if tx.Description != "Airtel Recharge - 9876543210" {
		t.Errorf("Unexpected description %q", tx.Description)
	}

	if _, err := s.Recharge("Airtel", "9876543210", amount(-1), ""); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestScanAndPay(t *testing.T) {
	tests := []struct {
		name          string
		qrData        string
		wantAmount    decimal.Decimal
		wantRecipient string
	}{
		{
			name:          "well-formed payload",
			qrData:        "upi://pay?pa=merchant@upi&pn=Coffee Shop&am=45.50",
			wantAmount:    amount(45.50),
			wantRecipient: "Coffee Shop",
		},
		{
			name:          "malformed payload falls back to defaults",
			qrData:        "not-a-qr-payload",
			wantAmount:    amount(10),
			wantRecipient: "Unknown Merchant",
		},
		{
			name:          "missing amount falls back",
			qrData:        "upi://pay?pa=merchant@upi&pn=Book Store",
			wantAmount:    amount(10),
			wantRecipient: "Book Store",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(&stubGateway{})
			before := s.Balance()

			tx, err := s.ScanAndPay(tt.qrData)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if !tx.Amount.Equal(tt.wantAmount) {
				t.Errorf("Expected amount %s, got %s", tt.wantAmount, tx.Amount)
			}
			if tx.Category != models.CategoryQRPayment {
				t.Errorf("Expected category QR Payment, got %q", tx.Category)
			}
			if tx.Description != models.CategoryQRPayment+" - "+tt.wantRecipient {
				t.Errorf("Unexpected description %q", tx.Description)
			}
			if !s.Balance().Equal(before.Sub(tt.wantAmount)) {
				t.Errorf("Expected balance debited by %s, got %s", tt.wantAmount, s.Balance())
			}
		})
	}
}

func TestRedeemReward(t *testing.T) {
	s := newTestStore(&stubGateway{})
	pointsBefore := s.TotalRewardPoints()

	if err := s.RedeemReward("r1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := s.TotalRewardPoints(); got != pointsBefore-250 {
		t.Errorf("Expected points %d, got %d", pointsBefore-250, got)
	}
	for _, r := range s.AvailableRewards() {
		if r.ID == "r1" {
			t.Error("Expected r1 absent from available rewards")
		}
	}
	// Redeemed rewards stay in the full collection with the flag flipped
	found := false
	for _, r := range s.Rewards() {
		if r.ID == "r1" {
			found = true
			if !r.IsRedeemed {
				t.Error("Expected r1 marked redeemed")
			}
		}
	}
	if !found {
		t.Error("Expected r1 still present in rewards")
	}

	if err := s.RedeemReward("r1"); !errors.Is(err, ErrAlreadyRedeemed) {
		t.Errorf("Expected ErrAlreadyRedeemed, got %v", err)
	}
	if err := s.RedeemReward("no-such-reward"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestApplyOffer(t *testing.T) {
	s := newTestStore(&stubGateway{})

	if err := s.ApplyOffer("o2"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, o := range s.SpecialOffers() {
		if o.ID == "o2" {
			t.Error("Expected o2 absent from special offers")
		}
	}

	if err := s.ApplyOffer("o2"); !errors.Is(err, ErrAlreadyApplied) {
		t.Errorf("Expected ErrAlreadyApplied, got %v", err)
	}
	if err := s.ApplyOffer("no-such-offer"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentRedeem_SingleWinner(t *testing.T) {
	gw := &stubGateway{}
	s := NewStore(gw, Config{RedeemLatency: 30 * time.Millisecond})
	s.Load(DemoSnapshot())

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.RedeemReward("r2")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, ErrAlreadyRedeemed) {
			t.Errorf("Expected ErrAlreadyRedeemed for the loser, got %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("Expected exactly one successful redemption, got %d", succeeded)
	}
}

func TestDerivedViews(t *testing.T) {
	s := newTestStore(&stubGateway{})

	if got := len(s.RecentTransactions()); got != 5 {
		t.Errorf("Expected 5 recent transactions, got %d", got)
	}

	if _, err := s.AddMoney(amount(10)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	recent := s.RecentTransactions()
	if len(recent) != 5 {
		t.Errorf("Expected recent view capped at 5, got %d", len(recent))
	}
	if recent[0].Description != "Add Money to Wallet" {
		t.Errorf("Expected newest entry first, got %q", recent[0].Description)
	}

	utilities := s.TransactionsByCategory(models.CategoryUtilities)
	if len(utilities) != 2 {
		t.Errorf("Expected 2 utilities transactions, got %d", len(utilities))
	}

	if got := s.TotalRewardPoints(); got != 1250 {
		t.Errorf("Expected 1250 total points, got %d", got)
	}
	if got := len(s.SpecialOffers()); got != 3 {
		t.Errorf("Expected 3 special offers, got %d", got)
	}
}

func TestSummary(t *testing.T) {
	s := newTestStore(&stubGateway{})

	sum := s.Summary()
	// Seed data: Paid 120 + 49.99 + 30, Received 2500, Pending ignored
	if !sum.TotalSpent.Equal(amount(199.99)) {
		t.Errorf("Expected total spent 199.99, got %s", sum.TotalSpent)
	}
	if !sum.TotalReceived.Equal(amount(2500)) {
		t.Errorf("Expected total received 2500, got %s", sum.TotalReceived)
	}
	if !sum.NetBalance.Equal(amount(2300.01)) {
		t.Errorf("Expected net 2300.01, got %s", sum.NetBalance)
	}
}
