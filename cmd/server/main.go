// PayWave - Digital Wallet Service
// Entry point for the web server
package main

import (
	"log"
	"net/http"

	"github.com/findosh/paywave/internal/config"
	"github.com/findosh/paywave/internal/handlers"
	"github.com/findosh/paywave/internal/middleware"
	"github.com/findosh/paywave/internal/services/gateway"
	"github.com/findosh/paywave/internal/services/ledger"
	"github.com/findosh/paywave/internal/services/session"
	"github.com/findosh/paywave/internal/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := storage.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	userRepo := storage.NewUserRepository(db)
	sessionStateRepo := storage.NewSessionStateRepository(db)

	// Initialize the simulated payment gateway
	gatewayService := gateway.NewService(gateway.Config{
		Provider:        gateway.ProviderMock,
		SecretKey:       cfg.SecretKey,
		TokenTTL:        cfg.SessionDuration,
		PayLatency:      cfg.PayLatency,
		RechargeLatency: cfg.RechargeLatency,
		FailureRate:     cfg.PayFailureRate,
	}, userRepo)

	// Initialize the session manager. Navigation intents are logged here;
	// the SPA owns actual routing.
	navigator := session.NavigatorFunc(func(route session.Route) {
		log.Printf("navigate: %s", route)
	})
	sessions := session.NewManager(sessionStateRepo, navigator, cfg.SessionPoll)
	sessions.Subscribe(func(authenticated bool) {
		log.Printf("session authenticated: %v", authenticated)
	})
	sessions.Start()
	defer sessions.Close()

	// Initialize the ledger with demo dashboard data
	store := ledger.NewStore(gatewayService, ledger.Config{
		TopUpLatency:  cfg.TopUpLatency,
		RedeemLatency: cfg.RedeemLatency,
	})
	store.Load(ledger.DemoSnapshot())

	// Initialize handlers
	h := handlers.New(cfg, gatewayService, sessions, store)

	// Initialize auth middleware; the gateway re-verifies stored tokens
	authMiddleware := middleware.NewAuth(sessions, gatewayService)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("/api/register", postOnly(h.Register))
	mux.HandleFunc("/api/login", postOnly(h.Login))
	mux.HandleFunc("/api/logout", postOnly(h.Logout))

	// Protected routes (require a live session)
	protected := map[string]http.HandlerFunc{
		"/api/wallet":              h.Wallet,
		"/api/transactions":        h.Transactions,
		"/api/transactions/recent": h.RecentTransactions,
		"/api/summary":             h.Summary,
		"/api/rewards":             h.Rewards,
		"/api/offers":              h.Offers,
	}
	for path, fn := range protected {
		mux.Handle(path, authMiddleware.RequireSession(fn))
	}

	mux.Handle("/api/payments", authMiddleware.RequireSession(postOnly(h.MakePayment)))
	mux.Handle("/api/recharge", authMiddleware.RequireSession(postOnly(h.Recharge)))
	mux.Handle("/api/wallet/add", authMiddleware.RequireSession(postOnly(h.AddMoney)))
	mux.Handle("/api/scan-pay", authMiddleware.RequireSession(postOnly(h.ScanAndPay)))
	mux.Handle("/api/rewards/redeem", authMiddleware.RequireSession(postOnly(h.RedeemReward)))
	mux.Handle("/api/offers/apply", authMiddleware.RequireSession(postOnly(h.ApplyOffer)))

	// Apply global middleware
	handler := middleware.Chain(
		mux,
		middleware.Recover,
		middleware.SecurityHeaders,
		middleware.Logger,
	)

	// Start server
	addr := ":" + cfg.Port
	log.Printf("PayWave server starting on http://localhost%s", addr)
	log.Printf("Environment: %s", cfg.Environment)

	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func postOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}
