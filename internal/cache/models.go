package cache

import (
	"time"

	"gorm.io/datatypes"
)

// QuestionModel is the local mirror of an extracted question.
type QuestionModel struct {
	ID            int64  `gorm:"primaryKey"`
	PaperID       int64  `gorm:"index"`
	QuestionText  string `gorm:"not null"`
	AnswerText    string
	QuestionType  string `gorm:"index"`
	Difficulty    string `gorm:"index"`
	Board         string `gorm:"index"`
	GradeLevel    string `gorm:"index"`
	Subject       string `gorm:"index"`
	Topic         string `gorm:"index"`
	Marks         int
	Options       datatypes.JSON
	CorrectOption string
	BloomLevel    string
	OrderInPaper  int
	SyncedAt      time.Time `gorm:"not null"`
}

func (QuestionModel) TableName() string { return "questions" }
