package services

import (
	"fmt"
	"log"
	"time"

	"ecosnap/internal/models"
	"ecosnap/internal/repositories"
)

// dateLayout is the day-resolution format lastActiveDate is stored in.
const dateLayout = "2006-01-02"

// ecoScorePerClassification is the flat score awarded per event, regardless
// of the impact magnitude.
const ecoScorePerClassification = 10

// EventPublisher publishes a classification event to the message broker.
// *rabbitmq.Client satisfies this; tests substitute a mock.
type EventPublisher interface {
	PublishClassificationRecorded(event map[string]interface{}) error
}

// StatsService applies the post-classification bookkeeping to a user's stats.
type StatsService struct {
	userRepo  repositories.UserRepository
	publisher EventPublisher
}

// NewStatsService creates a new StatsService. publisher may be nil, in which
// case no events are emitted.
func NewStatsService(userRepo repositories.UserRepository, publisher EventPublisher) *StatsService {
	return &StatsService{
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// RecordClassification updates the user's stats for one successful
// classification event and publishes a classification.recorded event.
// Returns repositories.ErrUserNotFound if the user no longer exists; the
// caller decides whether that aborts the request (for the upload path it
// does not).
func (s *StatsService) RecordClassification(userID, label string) error {
	impact := LookupImpact(label)
	now := time.Now()

	err := s.userRepo.UpdateStats(userID, func(stats *models.Stats) {
		ApplyClassification(stats, impact, now)
	})
	if err != nil {
		return fmt.Errorf("failed to update stats for user %s: %w", userID, err)
	}

	if s.publisher != nil {
		event := map[string]interface{}{
			"userID":      userID,
			"wasteType":   label,
			"co2Saved":    impact.CO2Saved,
			"energySaved": impact.EnergySaved,
			"recordedAt":  now.Format(time.RFC3339),
		}
		if err := s.publisher.PublishClassificationRecorded(event); err != nil {
			// Event delivery is best-effort, same as stats durability.
			log.Printf("Warning: failed to publish classification event for user %s: %v", userID, err)
		}
	}

	return nil
}

// ApplyClassification mutates stats for one classification event that
// happened at now (server-local clock, day resolution).
//
// The streak counts consecutive calendar days with at least one event:
// a second event on the same day leaves it unchanged, an event on the day
// after lastActiveDate extends it, and anything else (first event ever, a
// gap of two or more days, or a lastActiveDate in the future from clock
// skew) restarts it at 1. All cumulative fields increment on every event;
// only the streak is day-deduplicated.
func ApplyClassification(stats *models.Stats, impact Impact, now time.Time) {
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)

	switch {
	case stats.LastActiveDate != nil && *stats.LastActiveDate == today:
		// streak already counted today
	case stats.LastActiveDate != nil && *stats.LastActiveDate == yesterday:
		stats.CurrentStreak++
	default:
		stats.CurrentStreak = 1
	}

	// Assigned even on the already-counted-today branch; the date write is
	// idempotent, not conditional.
	stats.LastActiveDate = &today

	stats.TotalClassifications++
	stats.EcoScore += ecoScorePerClassification
	stats.WasteRedirected++
	stats.CarbonSaved += impact.CO2Saved
	stats.EnergySaved += impact.EnergySaved
}
