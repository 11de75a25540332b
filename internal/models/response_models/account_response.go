package response_models

type LoginResponse struct {
	Token string          `json:"token"`
	User  AccountResponse `json:"user"`
}

type AccountResponse struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	Role            string `json:"role"`
	MembershipLevel string `json:"membership_level"`
	LevelTestStatus string `json:"level_test_status"`
}

type LevelTestAttemptResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	TotalScore int    `json:"total_score"`
	CreatedAt  int64  `json:"created_at"`
}

type LevelTestResponseDetail struct {
	QuestionID   string `json:"question_id"`
	ChoiceNumber *int   `json:"choice_number,omitempty"`
	AnswerText   string `json:"answer_text,omitempty"`
	ScoreAwarded *int   `json:"score_awarded,omitempty"`
}

type LevelTestAttemptDetailResponse struct {
	LevelTestAttemptResponse
	Responses []LevelTestResponseDetail `json:"responses"`
}
