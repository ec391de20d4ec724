package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/werner-traut/budget/internal/calendar"
	apperrors "github.com/werner-traut/budget/internal/errors"
	"github.com/werner-traut/budget/internal/logger"
	"github.com/werner-traut/budget/internal/models"
	"github.com/werner-traut/budget/internal/payperiod"
)

// errVersionConflict marks a compare-and-swap that matched no row. It never
// leaves this file; callers see ErrCascadeConflict once retries run out.
var errVersionConflict = errors.New("pay period version changed")

// payPeriodService stores pay periods and applies cascades. Writes for one
// user are serialized by a per-user mutex; every relabel is additionally a
// compare-and-swap on the row version so concurrent writers from other
// processes are detected.
type payPeriodService struct {
	db         *gorm.DB
	maxRetries int
	audit      AuditServicer
	locks      sync.Map // user ID -> *sync.Mutex
	group      singleflight.Group
	log        *zap.SugaredLogger

	// beforeRelabel runs inside the cascade transaction before the first
	// row is written. Tests use it to simulate a concurrent writer.
	beforeRelabel func(tx *gorm.DB, userID string)

	// beforeUpdate runs between loading a period and its versioned write in
	// UpdatePeriod.
	beforeUpdate func(db *gorm.DB, periodID string)
}

// NewPayPeriodService creates a new PayPeriodServicer. maxRetries bounds how
// often a cascade is recomputed after losing a version race. audit, when set,
// records cascades made by CascadeAllUsers.
func NewPayPeriodService(db *gorm.DB, maxRetries int, audit AuditServicer) PayPeriodServicer {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &payPeriodService{
		db:         db,
		maxRetries: maxRetries,
		audit:      audit,
		log:        logger.Named("payperiod"),
	}
}

func (s *payPeriodService) lock(userID string) func() {
	m, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func loadPeriods(db *gorm.DB, userID string) ([]models.PayPeriod, error) {
	var periods []models.PayPeriod
	if err := db.Where("user_id = ?", userID).
		Order("start_date ASC").Order("created_at ASC").
		Find(&periods).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return periods, nil
}

func orderError(err error) error {
	if errors.Is(err, payperiod.ErrOutOfOrder) {
		return apperrors.Wrap(apperrors.ErrPeriodOutOfOrder, err)
	}
	return err
}

// CreatePeriod validates the merged ordering and stores the period.
func (s *payPeriodService) CreatePeriod(userID string, periodType models.PeriodType, startDate time.Time, salary decimal.Decimal) (*models.PayPeriod, error) {
	if !periodType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown period type")
	}
	if !salary.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "salary amount must be positive")
	}

	unlock := s.lock(userID)
	defer unlock()

	existing, err := loadPeriods(s.db, userID)
	if err != nil {
		return nil, err
	}

	candidate := payperiod.Candidate{
		PeriodType:   periodType,
		StartDate:    calendar.Day(startDate),
		SalaryAmount: salary,
	}
	if err := payperiod.ValidateOrder(existing, candidate); err != nil {
		return nil, orderError(err)
	}

	period := &models.PayPeriod{
		UserID:       userID,
		PeriodType:   candidate.PeriodType,
		StartDate:    candidate.StartDate,
		SalaryAmount: candidate.SalaryAmount,
	}
	if err := s.db.Create(period).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return period, nil
}

// GetUserPeriods returns the user's periods ordered by start date. Closed
// periods are included only on request.
func (s *payPeriodService) GetUserPeriods(userID string, includeClosed bool) ([]models.PayPeriod, error) {
	q := s.db.Where("user_id = ?", userID)
	if !includeClosed {
		q = q.Where("period_type <> ?", models.PeriodTypeClosed)
	}

	var periods []models.PayPeriod
	if err := q.Order("start_date ASC").Order("created_at ASC").Find(&periods).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return periods, nil
}

// GetPeriodByID returns one period owned by the user.
func (s *payPeriodService) GetPeriodByID(userID, periodID string) (*models.PayPeriod, error) {
	var period models.PayPeriod
	if err := s.db.Where("id = ? AND user_id = ?", periodID, userID).First(&period).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPayPeriodNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &period, nil
}

// UpdatePeriod applies a partial update. A change of label or start date is
// checked against the user's other periods before anything is written.
func (s *payPeriodService) UpdatePeriod(userID, periodID string, update PayPeriodUpdate) (*models.PayPeriod, error) {
	unlock := s.lock(userID)
	defer unlock()

	existing, err := loadPeriods(s.db, userID)
	if err != nil {
		return nil, err
	}

	var period *models.PayPeriod
	for i := range existing {
		if existing[i].ID == periodID {
			p := existing[i]
			period = &p
			break
		}
	}
	if period == nil {
		return nil, apperrors.ErrPayPeriodNotFound
	}

	reorder := false
	if update.PeriodType != nil && *update.PeriodType != period.PeriodType {
		if !update.PeriodType.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown period type")
		}
		period.PeriodType = *update.PeriodType
		reorder = true
	}
	if update.StartDate != nil && !calendar.Day(*update.StartDate).Equal(calendar.Day(period.StartDate)) {
		period.StartDate = calendar.Day(*update.StartDate)
		reorder = true
	}
	if update.SalaryAmount != nil {
		if !update.SalaryAmount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "salary amount must be positive")
		}
		period.SalaryAmount = *update.SalaryAmount
	}

	if reorder {
		if err := payperiod.ValidateOrder(existing, payperiod.CandidateFrom(*period)); err != nil {
			return nil, orderError(err)
		}
	}

	if s.beforeUpdate != nil {
		s.beforeUpdate(s.db, period.ID)
	}

	result := s.db.Model(&models.PayPeriod{}).
		Where("id = ? AND user_id = ? AND version = ?", period.ID, userID, period.Version).
		Updates(map[string]interface{}{
			"period_type":   period.PeriodType,
			"start_date":    period.StartDate,
			"salary_amount": period.SalaryAmount,
			"version":       period.Version + 1,
		})
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrPayPeriodConflict
	}
	period.Version++

	return period, nil
}

// AddNextPeriod brings the labels up to date and then appends the period
// that follows the latest open one.
func (s *payPeriodService) AddNextPeriod(userID string, today time.Time) (*models.PayPeriod, error) {
	if _, err := s.CascadeIfDue(userID, today); err != nil {
		return nil, err
	}

	unlock := s.lock(userID)
	defer unlock()

	existing, err := loadPeriods(s.db, userID)
	if err != nil {
		return nil, err
	}

	candidate, ok := payperiod.NextCandidate(existing)
	if !ok {
		if len(payperiod.Active(existing)) == 0 {
			return nil, apperrors.ErrNoActivePeriods
		}
		return nil, apperrors.ErrPeriodSlotsFull
	}
	if err := payperiod.ValidateOrder(existing, candidate); err != nil {
		return nil, orderError(err)
	}

	period := &models.PayPeriod{
		UserID:       userID,
		PeriodType:   candidate.PeriodType,
		StartDate:    candidate.StartDate,
		SalaryAmount: candidate.SalaryAmount,
	}
	if err := s.db.Create(period).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return period, nil
}

// CascadeIfDue advances the user's labels when the NEXT_PERIOD has started.
// Concurrent calls for the same user and day share a single run.
func (s *payPeriodService) CascadeIfDue(userID string, today time.Time) (*CascadeResult, error) {
	day := calendar.Day(today)
	key := userID + "|" + calendar.Format(day)

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		unlock := s.lock(userID)
		defer unlock()
		return s.cascadeWithRetry(userID, day)
	})
	if err != nil {
		return nil, err
	}
	return v.(*CascadeResult), nil
}

func (s *payPeriodService) cascadeWithRetry(userID string, today time.Time) (*CascadeResult, error) {
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		result, err := s.cascadeOnce(userID, today)
		if errors.Is(err, errVersionConflict) {
			s.log.Warnw("cascade lost version race, retrying",
				"user_id", userID,
				"attempt", attempt+1,
			)
			continue
		}
		return result, err
	}

	s.log.Errorw("cascade retries exhausted", "user_id", userID, "max_retries", s.maxRetries)
	return nil, apperrors.ErrCascadeConflict
}

// cascadeOnce reads the user's periods, cascades as many times as needed to
// clear every started NEXT_PERIOD, and writes all relabels in one
// transaction.
func (s *payPeriodService) cascadeOnce(userID string, today time.Time) (*CascadeResult, error) {
	result := &CascadeResult{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		original, err := loadPeriods(tx, userID)
		if err != nil {
			return err
		}

		current := original
		for result.Rounds < len(models.ActivePeriodTypes) && payperiod.ShouldCascade(current, today) {
			current = payperiod.Cascade(current)
			result.Rounds++
		}
		if result.Rounds == 0 {
			result.Periods = payperiod.Active(current)
			return nil
		}

		if s.beforeRelabel != nil {
			s.beforeRelabel(tx, userID)
		}

		versions := make(map[string]int64, len(original))
		for _, p := range original {
			versions[p.ID] = p.Version
		}

		changed := payperiod.Changed(original, current)
		bumped := make(map[string]int64, len(changed))
		for _, p := range changed {
			version := versions[p.ID]
			res := tx.Model(&models.PayPeriod{}).
				Where("id = ? AND version = ?", p.ID, version).
				Updates(map[string]interface{}{
					"period_type": p.PeriodType,
					"version":     version + 1,
				})
			if res.Error != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
			}
			if res.RowsAffected == 0 {
				return errVersionConflict
			}
			bumped[p.ID] = version + 1
		}

		for i := range current {
			if v, ok := bumped[current[i].ID]; ok {
				current[i].Version = v
			}
		}
		for i := range changed {
			changed[i].Version = bumped[changed[i].ID]
		}

		result.Cascaded = true
		result.Changed = changed
		result.Periods = payperiod.Active(current)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Cascaded {
		s.log.Infow("pay periods cascaded",
			"user_id", userID,
			"rounds", result.Rounds,
			"relabelled", len(result.Changed),
		)
	}
	return result, nil
}

// CascadeAllUsers runs CascadeIfDue for every user whose NEXT_PERIOD has
// started. One user's failure is logged and does not stop the pass.
func (s *payPeriodService) CascadeAllUsers(ctx context.Context, today time.Time) (*CascadeRunSummary, error) {
	day := calendar.Day(today)

	var userIDs []string
	if err := s.db.WithContext(ctx).Model(&models.PayPeriod{}).
		Where("period_type = ? AND start_date <= ?", models.PeriodTypeNext, day).
		Distinct("user_id").
		Pluck("user_id", &userIDs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &CascadeRunSummary{Users: len(userIDs)}
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result, err := s.CascadeIfDue(userID, day)
		if err != nil {
			summary.Failed++
			s.log.Errorw("scheduled cascade failed", "user_id", userID, "error", err)
			continue
		}
		if result.Cascaded {
			summary.Cascaded++
			if s.audit != nil {
				s.audit.Log(userID, models.AuditScheduledCascade, "pay_period", "", "", map[string]interface{}{
					"today":   calendar.Format(day),
					"rounds":  result.Rounds,
					"changed": len(result.Changed),
				})
			}
		}
	}
	return summary, nil
}
