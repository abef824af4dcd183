package ledger

import (
	"time"

	"github.com/findosh/paywave/internal/models"
	"github.com/shopspring/decimal"
)

// DemoSnapshot returns the sample dashboard data served while no real
// backend is wired up
func DemoSnapshot() Snapshot {
	return Snapshot{
		Balance:      decimal.NewFromFloat(1250.75),
		UPIID:        "user@bankupi",
		RecentPayees: []string{"John Doe", "ABC Utilities", "XYZ Mobile"},
		Transactions: []models.Transaction{
			{
				ID:            "t1",
				Date:          date(2024, 4, 20),
				Description:   "Electricity Bill",
				Amount:        decimal.NewFromFloat(120.00),
				Status:        models.StatusPaid,
				Category:      models.CategoryUtilities,
				PaymentMethod: models.MethodWallet,
			},
			{
				ID:            "t2",
				Date:          date(2024, 4, 19),
				Description:   "Grocery",
				Amount:        decimal.NewFromFloat(85.50),
				Status:        models.StatusPending,
				Category:      models.CategoryShopping,
				PaymentMethod: models.MethodUPI,
			},
			{
				ID:            "t3",
				Date:          date(2024, 4, 18),
				Description:   "Salary",
				Amount:        decimal.NewFromFloat(2500.00),
				Status:        models.StatusReceived,
				Category:      models.CategoryIncome,
				PaymentMethod: models.MethodBankTransfer,
			},
			{
				ID:            "t4",
				Date:          date(2024, 4, 15),
				Description:   "Mobile Recharge",
				Amount:        decimal.NewFromFloat(49.99),
				Status:        models.StatusPaid,
				Category:      models.CategoryUtilities,
				PaymentMethod: models.MethodWallet,
			},
			{
				ID:            "t5",
				Date:          date(2024, 4, 12),
				Description:   "Movie Tickets",
				Amount:        decimal.NewFromFloat(30.00),
				Status:        models.StatusPaid,
				Category:      models.CategoryEntertainment,
				PaymentMethod: models.MethodCreditCard,
			},
		},
		Rewards: []models.Reward{
			{
				ID:             "r1",
				Name:           "Cashback Reward",
				Title:          "Cashback Reward",
				Description:    "5% cashback on your next bill payment",
				Points:         250,
				PointsRequired: 250,
				ExpiryDate:     date(2024, 6, 30),
			},
			{
				ID:             "r2",
				Name:           "Welcome Bonus",
				Title:          "Welcome Bonus",
				Description:    "Sign-up bonus points",
				Points:         500,
				PointsRequired: 500,
				ExpiryDate:     date(2024, 5, 15),
			},
			{
				ID:             "r3",
				Name:           "Referral Bonus",
				Title:          "Referral Bonus",
				Description:    "Points earned for referring a friend",
				Points:         350,
				PointsRequired: 350,
				ExpiryDate:     date(2024, 7, 20),
			},
			{
				ID:             "r4",
				Name:           "Transaction Milestone",
				Title:          "Transaction Milestone",
				Description:    "Completed 10 transactions",
				Points:         150,
				PointsRequired: 150,
				ExpiryDate:     date(2024, 8, 10),
			},
		},
		Offers: []models.Offer{
			{
				ID:          "o1",
				Title:       "Electricity Bill",
				Description: "10% cashback on electricity bill payments",
				Discount:    "10%",
				Code:        "POWER10",
				ValidUntil:  date(2024, 5, 30),
			},
			{
				ID:          "o2",
				Title:       "Mobile Recharge",
				Description: "Flat ₹50 off on recharges above ₹300",
				Discount:    "₹50",
				Code:        "RECHARGE50",
				ValidUntil:  date(2024, 5, 15),
			},
			{
				ID:          "o3",
				Title:       "DTH Recharge",
				Description: "5% cashback on all DTH recharges",
				Discount:    "5%",
				Code:        "DTH5",
				ValidUntil:  date(2024, 6, 10),
			},
		},
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
