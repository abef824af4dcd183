// Package gateway simulates the remote payment backend. It is the seam
// where a real network integration would replace the built-in latency:
// every call sleeps its configured delay before answering, the way the
// production API would make the caller wait on the wire.
package gateway

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	mathrand "math/rand"
	"time"

	"github.com/findosh/paywave/internal/models"
	"github.com/findosh/paywave/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
	ErrUPIIDExists        = errors.New("upi id already registered")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSimulatedFailure   = errors.New("payment declined by gateway")
	ErrLiveUnavailable    = errors.New("live payment provider not configured")
)

// Provider identifies the backend implementation
type Provider string

const (
	ProviderMock Provider = "mock"
	ProviderLive Provider = "live" // reserved; no live integration yet
)

// PaymentStatus is the gateway's view of a payment
type PaymentStatus string

const (
	PaymentSuccess PaymentStatus = "success"
	PaymentPending PaymentStatus = "pending"
	PaymentFailed  PaymentStatus = "failed"
)

// Config holds gateway configuration
type Config struct {
	Provider        Provider
	SecretKey       string
	TokenTTL        time.Duration
	PayLatency      time.Duration
	RechargeLatency time.Duration // falls back to PayLatency when zero
	AuthLatency     time.Duration
	FailureRate     float64 // 0.0-1.0 chance a payment is declined
}

// Service is the simulated payment backend
type Service struct {
	cfg      Config
	userRepo *storage.UserRepository
}

// NewService creates a new gateway service
func NewService(cfg Config, userRepo *storage.UserRepository) *Service {
	if cfg.Provider == "" {
		cfg.Provider = ProviderMock
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.RechargeLatency == 0 {
		cfg.RechargeLatency = cfg.PayLatency
	}
	return &Service{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

// RegisterInput contains registration data
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	UPIID    string
}

// Register creates a new user account
func (s *Service) Register(input RegisterInput) (*models.User, error) {
	s.wait(s.cfg.AuthLatency)

	if len(input.Password) < 8 {
		return nil, ErrWeakPassword
	}

	exists, err := s.userRepo.EmailExists(input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	exists, err = s.userRepo.UPIIDExists(input.UPIID)
	if err != nil {
		return nil, fmt.Errorf("failed to check upi id: %w", err)
	}
	if exists {
		return nil, ErrUPIIDExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(input.Email, input.Name, input.UPIID, string(hash))
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput contains login credentials
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is the backend's answer to a successful login: the opaque
// token the client stores plus its absolute expiration
type LoginResult struct {
	User    *models.User
	Token   string
	Expires time.Time
}

// Login authenticates a user and issues a session token
func (s *Service) Login(input LoginInput) (*LoginResult, error) {
	s.wait(s.cfg.AuthLatency)

	user, err := s.userRepo.GetByEmail(input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	expires := time.Now().UTC().Add(s.cfg.TokenTTL)
	token, err := s.createToken(user, expires)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return &LoginResult{
		User:    user,
		Token:   token,
		Expires: expires,
	}, nil
}

// PaymentRequest describes a payment submitted to the backend
type PaymentRequest struct {
	Recipient string
	Amount    decimal.Decimal
	Category  string
	Note      string
}

// PaymentResponse is the backend's acknowledgement of a payment
type PaymentResponse struct {
	TransactionID string
	Status        PaymentStatus
	Message       string
	Amount        decimal.Decimal
	Timestamp     time.Time
}

// Pay processes a payment after the configured latency. A configured
// failure rate stands in for network and backend errors.
func (s *Service) Pay(req PaymentRequest) (*PaymentResponse, error) {
	return s.process(req, s.cfg.PayLatency)
}

// Recharge processes a recharge order. Same failure model as Pay, but
// recharge rails answer on their own latency.
func (s *Service) Recharge(req PaymentRequest) (*PaymentResponse, error) {
	return s.process(req, s.cfg.RechargeLatency)
}

func (s *Service) process(req PaymentRequest, latency time.Duration) (*PaymentResponse, error) {
	if s.cfg.Provider == ProviderLive {
		return nil, ErrLiveUnavailable
	}
	s.wait(latency)

	if s.cfg.FailureRate > 0 && mathrand.Float64() < s.cfg.FailureRate {
		return nil, ErrSimulatedFailure
	}

	return &PaymentResponse{
		TransactionID: uuid.New().String(),
		Status:        PaymentSuccess,
		Message:       fmt.Sprintf("payment of %s to %s processed", req.Amount.StringFixed(2), req.Recipient),
		Amount:        req.Amount,
		Timestamp:     time.Now().UTC(),
	}, nil
}

// ValidateToken verifies a JWT token and returns the subject email
func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SecretKey), nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	exp, ok := claims["exp"].(float64)
	if !ok || time.Unix(int64(exp), 0).Before(time.Now()) {
		return "", ErrInvalidToken
	}

	email, ok := claims["email"].(string)
	if !ok {
		return "", ErrInvalidToken
	}

	return email, nil
}

func (s *Service) createToken(user *models.User, expires time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"name":  user.Name,
		"exp":   expires.Unix(),
		"iat":   time.Now().Unix(),
		"jti":   generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.SecretKey))
}

func generateJTI() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

func (s *Service) wait(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
