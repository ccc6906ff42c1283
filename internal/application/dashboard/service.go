package dashboard

import (
	"context"
	"encoding/json"
	"math"
	"math/rand"
	"time"

	"origenmx-backend/internal/domain"
	"origenmx-backend/internal/pkg/latency"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Score buckets partition [0,100]: high ≥80, medium [60,80), low <60.
const (
	BucketHigh   = "high"
	BucketMedium = "medium"
	BucketLow    = "low"
)

// Eligibility: floor(area × 1000) credit units, gated on score > 70.
const (
	eligibilityScoreGate = 70
	creditPerHectare     = 1000
)

const statsCacheKey = "origen:dashboard:stats"

// RepaymentRate is a portfolio-level placeholder until enough repayment
// history accumulates to compute a real one.
const RepaymentRate = 95.0

type Service struct {
	DB       *gorm.DB
	Rdb      *redis.Client // optional stats cache
	Latency  *latency.Simulator
	Rand     *rand.Rand       // optional seeded source for projected disbursements
	CacheTTL time.Duration    // 0 disables caching
	Now      func() time.Time // injectable clock; nil uses time.Now
}

type Stats struct {
	TotalLots            int                   `json:"total_lots"`
	AverageScore         int                   `json:"average_score"`
	EligibleCreditTotal  float64               `json:"eligible_credit_total"`
	ActiveCreditCount    int                   `json:"active_credit_count"`
	ActiveCreditTotal    float64               `json:"active_credit_total"`
	ScoreBuckets         BucketCounts          `json:"score_buckets"`
	MonthlyDisbursements []MonthlyDisbursement `json:"monthly_disbursements"`
	RepaymentRate        float64               `json:"repayment_rate"`
}

type BucketCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type MonthlyDisbursement struct {
	Month  string  `json:"month"` // YYYY-MM
	Amount float64 `json:"amount"`
}

// ScoreBucket classifies an AgroScore. Every integer in [0,100] maps to
// exactly one bucket.
func ScoreBucket(score int) string {
	switch {
	case score >= 80:
		return BucketHigh
	case score >= 60:
		return BucketMedium
	default:
		return BucketLow
	}
}

// EligibleCredit estimates the credit a lot could carry: floor(area × 1000)
// when the score clears the gate and the lot is not already credit-active or
// repaid, 0 otherwise. creditStatus is the lot's derived status.
func EligibleCredit(areaHa float64, score int, creditStatus string) float64 {
	if score <= eligibilityScoreGate {
		return 0
	}
	if creditStatus == domain.CreditStatusActive || creditStatus == domain.CreditStatusRepaid {
		return 0
	}
	return math.Floor(areaHa * creditPerHectare)
}

// Stats computes the dashboard aggregate, serving from the Redis cache when
// a fresh copy exists.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	if err := s.Latency.Read(ctx); err != nil {
		return nil, err
	}

	if s.Rdb != nil && s.CacheTTL > 0 {
		if raw, err := s.Rdb.Get(ctx, statsCacheKey).Bytes(); err == nil {
			var cached Stats
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	var lots []domain.Lot
	if err := s.DB.WithContext(ctx).Find(&lots).Error; err != nil {
		return nil, err
	}
	var credits []domain.Credit
	if err := s.DB.WithContext(ctx).Find(&credits).Error; err != nil {
		return nil, err
	}

	creditStatus := map[string]string{}
	for _, c := range credits {
		creditStatus[c.CreditID] = c.Status
	}

	stats := &Stats{RepaymentRate: RepaymentRate}
	stats.TotalLots = len(lots)

	scoreSum := 0
	for _, lot := range lots {
		scoreSum += lot.AgroScore
		switch ScoreBucket(lot.AgroScore) {
		case BucketHigh:
			stats.ScoreBuckets.High++
		case BucketMedium:
			stats.ScoreBuckets.Medium++
		default:
			stats.ScoreBuckets.Low++
		}

		status := domain.CreditStatusNone
		if lot.CreditID != nil {
			if st, ok := creditStatus[*lot.CreditID]; ok {
				status = st
			}
		}
		stats.EligibleCreditTotal += EligibleCredit(lot.AreaHa, lot.AgroScore, status)
	}
	if len(lots) > 0 {
		stats.AverageScore = int(math.Round(float64(scoreSum) / float64(len(lots))))
	}

	for _, c := range credits {
		if c.Status == domain.CreditActive || c.Status == domain.CreditDelinquent {
			stats.ActiveCreditCount++
			stats.ActiveCreditTotal += c.Amount
		}
	}

	stats.MonthlyDisbursements = s.projectedDisbursements(6)

	if s.Rdb != nil && s.CacheTTL > 0 {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.Rdb.Set(ctx, statsCacheKey, raw, s.CacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("dashboard stats cache write failed")
			}
		}
	}
	return stats, nil
}

// projectedDisbursements generates the demo chart series: one figure per
// month for the trailing n months. Figures are synthetic (20k–80k range)
// until real disbursement history replaces them.
func (s *Service) projectedDisbursements(n int) []MonthlyDisbursement {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	// Walk from the first of the month: AddDate on a day-29..31 anchor
	// normalizes into the next month and skips or duplicates labels.
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]MonthlyDisbursement, n)
	for i := 0; i < n; i++ {
		m := anchor.AddDate(0, -(n - 1 - i), 0)
		out[i] = MonthlyDisbursement{
			Month:  m.Format("2006-01"),
			Amount: float64(20000 + s.randInt(60000)),
		}
	}
	return out
}

func (s *Service) randInt(n int) int {
	if s.Rand != nil {
		return s.Rand.Intn(n)
	}
	return rand.Intn(n)
}
