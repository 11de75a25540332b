package db_models

import (
	"github.com/google/uuid"
)

type ProblemType string

const (
	ProblemMultipleChoice ProblemType = "MULTIPLE_CHOICE"
	ProblemFreeText       ProblemType = "FREE_TEXT"
)

type AttemptStatus string

const (
	AttemptSubmitted AttemptStatus = "SUBMITTED"
	AttemptGrading   AttemptStatus = "GRADING"
	AttemptGraded    AttemptStatus = "GRADED"
)

type LevelTestQuestion struct {
	BaseModel
	Number        int `gorm:"index"`
	ProblemType   ProblemType
	Body          string
	CorrectChoice *int
	Score         int
}

// LevelTestAttempt status moves SUBMITTED -> GRADING -> GRADED exactly
// once; the GRADING flip is the atomic grading claim.
type LevelTestAttempt struct {
	BaseModel
	CustomerID uuid.UUID `gorm:"index"`

	Status     AttemptStatus `gorm:"default:SUBMITTED;index"`
	TotalScore int           `gorm:"default:0"`

	Customer Customer `gorm:"foreignKey:CustomerID"`
}

type LevelTestResponse struct {
	BaseModel
	AttemptID  uuid.UUID `gorm:"index"`
	QuestionID uuid.UUID `gorm:"index"`

	ChoiceNumber *int
	AnswerText   string
	ScoreAwarded *int

	Attempt  LevelTestAttempt  `gorm:"foreignKey:AttemptID"`
	Question LevelTestQuestion `gorm:"foreignKey:QuestionID"`
}
