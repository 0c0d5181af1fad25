// Package cache keeps a local sqlite mirror of the question bank so listing,
// filtering, and stats work offline between syncs.
package cache

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/sanjitmathur/ExamForge/internal/api"
	"github.com/sanjitmathur/ExamForge/pkg/domain"
)

// Store wraps the local cache database.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the cache database at path and migrates it.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if err := db.AutoMigrate(&QuestionModel{}); err != nil {
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}
	return &Store{db: db}, nil
}

// ReplaceQuestions swaps the cached bank for the given snapshot. Sync always
// fetches the full unfiltered listing, so stale rows are dropped rather than
// left behind with no matching server record.
func (s *Store) ReplaceQuestions(questions []domain.ExtractedQuestion) error {
	now := time.Now().UTC()
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&QuestionModel{}).Error; err != nil {
			return err
		}
		for _, q := range questions {
			model := questionToModel(q, now)
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListQuestions returns cached questions matching the filter, in the same
// order the backend uses (paper, then position within the paper).
func (s *Store) ListQuestions(filter api.QuestionFilter) ([]domain.ExtractedQuestion, error) {
	tx := s.db.Model(&QuestionModel{}).Order("paper_id ASC, order_in_paper ASC")
	for column, value := range map[string]string{
		"board":         filter.Board,
		"grade_level":   filter.GradeLevel,
		"subject":       filter.Subject,
		"question_type": filter.QuestionType,
		"difficulty":    filter.Difficulty,
		"topic":         filter.Topic,
	} {
		if value != "" {
			tx = tx.Where(column+" = ?", value)
		}
	}
	var models []QuestionModel
	if err := tx.Find(&models).Error; err != nil {
		return nil, err
	}
	questions := make([]domain.ExtractedQuestion, 0, len(models))
	for _, m := range models {
		questions = append(questions, questionFromModel(m))
	}
	return questions, nil
}

// Stats aggregates the cached bank the way the backend's stats endpoint does.
func (s *Store) Stats() (domain.QuestionStats, error) {
	stats := domain.QuestionStats{
		ByType:       map[string]int{},
		ByDifficulty: map[string]int{},
		BySubject:    map[string]int{},
		ByGrade:      map[string]int{},
		ByBoard:      map[string]int{},
	}
	var total int64
	if err := s.db.Model(&QuestionModel{}).Count(&total).Error; err != nil {
		return domain.QuestionStats{}, err
	}
	stats.TotalQuestions = int(total)
	for column, dest := range map[string]map[string]int{
		"question_type": stats.ByType,
		"difficulty":    stats.ByDifficulty,
		"subject":       stats.BySubject,
		"grade_level":   stats.ByGrade,
		"board":         stats.ByBoard,
	} {
		if err := s.countBy(column, dest); err != nil {
			return domain.QuestionStats{}, err
		}
	}
	return stats, nil
}

func (s *Store) countBy(column string, dest map[string]int) error {
	var rows []struct {
		Key   string
		Count int
	}
	err := s.db.Model(&QuestionModel{}).
		Select(column + " AS key, COUNT(*) AS count").
		Where(column + " <> ''").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return err
	}
	for _, row := range rows {
		dest[row.Key] = row.Count
	}
	return nil
}

// Topics returns the distinct non-empty topics in the cached bank.
func (s *Store) Topics() ([]string, error) {
	var topics []string
	err := s.db.Model(&QuestionModel{}).
		Distinct("topic").
		Where("topic <> ''").
		Order("topic ASC").
		Pluck("topic", &topics).Error
	return topics, err
}

// LastSyncedAt returns the time of the most recent sync, zero when empty.
func (s *Store) LastSyncedAt() (time.Time, error) {
	var model QuestionModel
	err := s.db.Order("synced_at DESC").Limit(1).Find(&model).Error
	if err != nil {
		return time.Time{}, err
	}
	return model.SyncedAt, nil
}

func questionToModel(q domain.ExtractedQuestion, syncedAt time.Time) QuestionModel {
	model := QuestionModel{
		ID:            q.ID,
		PaperID:       q.PaperID,
		QuestionText:  q.QuestionText,
		AnswerText:    q.AnswerText,
		QuestionType:  q.QuestionType,
		Difficulty:    q.Difficulty,
		Board:         q.Board,
		GradeLevel:    q.GradeLevel,
		Subject:       q.Subject,
		Topic:         q.Topic,
		Marks:         q.Marks,
		CorrectOption: q.CorrectOption,
		BloomLevel:    q.BloomLevel,
		OrderInPaper:  q.OrderInPaper,
		SyncedAt:      syncedAt,
	}
	if q.OptionsJSON != "" {
		model.Options = datatypes.JSON(q.OptionsJSON)
	}
	return model
}

func questionFromModel(m QuestionModel) domain.ExtractedQuestion {
	return domain.ExtractedQuestion{
		ID:            m.ID,
		PaperID:       m.PaperID,
		QuestionText:  m.QuestionText,
		AnswerText:    m.AnswerText,
		QuestionType:  m.QuestionType,
		Difficulty:    m.Difficulty,
		Board:         m.Board,
		GradeLevel:    m.GradeLevel,
		Subject:       m.Subject,
		Topic:         m.Topic,
		Marks:         m.Marks,
		OptionsJSON:   string(m.Options),
		CorrectOption: m.CorrectOption,
		BloomLevel:    m.BloomLevel,
		OrderInPaper:  m.OrderInPaper,
	}
}
