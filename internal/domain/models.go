package domain

import "time"

// Operator is one of the four arithmetic operators a task can use.
type Operator string

const (
	OpAdd      Operator = "+"
	OpSubtract Operator = "-"
	OpMultiply Operator = "×"
	OpDivide   Operator = "÷"
)

// Difficulty labels the grade tier of a task.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// TaskMetadata describes how a task was generated.
type TaskMetadata struct {
	Grade      int        `json:"grade"`
	Operators  []Operator `json:"operators"`
	Category   int        `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
}

// Task is a single generated arithmetic problem.
type Task struct {
	ID                string       `json:"id"`
	Question          string       `json:"question"`
	Choices           []string     `json:"choices"`
	CorrectAnswer     string       `json:"correctAnswer"`
	FreeAnswerAllowed bool         `json:"freeAnswerAllowed"`
	Metadata          TaskMetadata `json:"metadata"`
}

// SessionState is the serializable state of a test session.
type SessionState struct {
	ID             string          `json:"id"`
	Mode           string          `json:"mode"`
	TimerSeconds   int             `json:"timerSeconds"`
	Grade          int             `json:"grade"`
	Operators      []Operator      `json:"operators"`
	Tasks          []Task          `json:"tasks"`
	CurrentIndex   int             `json:"currentIndex"`
	Score          int             `json:"score"`
	Answered       int             `json:"answered"`
	Correct        int             `json:"correct"`
	ElapsedSeconds int             `json:"elapsedSeconds"`
	Awarded        map[string]bool `json:"awarded,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// SessionConfig carries the parameters of a start-session request.
type SessionConfig struct {
	Mode         string
	TimerSeconds int
	TaskCount    int
	Grade        int
	Operators    []Operator
}

// SessionSummary is the progress report of a session.
type SessionSummary struct {
	SessionID    string `json:"sessionId"`
	Mode         string `json:"mode"`
	TimerSeconds int    `json:"timerSeconds"`
	TaskCount    int    `json:"taskCount"`
	Tasks        []Task `json:"tasks"`
	CurrentIndex int    `json:"currentIndex"`
	Answered     int    `json:"answered"`
	Correct      int    `json:"correct"`
	Score        int    `json:"score"`
	Mark         int    `json:"mark"`
	MarkLabel    string `json:"markLabel"`
}

// AnswerSubmission models an answer sent by a client.
type AnswerSubmission struct {
	TaskID         string
	Answer         string
	ElapsedSeconds int
}

// AnswerResult summarizes the grading of one submission.
type AnswerResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation"`
	PointsDelta   int    `json:"pointsDelta"`
	TotalScore    int    `json:"totalScore"`
}

// ScoreRecord is the latest saved result of a player.
type ScoreRecord struct {
	Player      string    `json:"player"`
	DisplayName string    `json:"displayName"`
	Score       int       `json:"score"`
	Grade       int       `json:"grade"`
	Mode        string    `json:"mode"`
	Timestamp   time.Time `json:"timestamp"`
}

// RankedScore is a score record with its 1-based leaderboard position.
type RankedScore struct {
	Rank int `json:"rank"`
	ScoreRecord
}

// Leaderboard captures the ordered scoreboard at a point in time.
type Leaderboard struct {
	Entries   []RankedScore `json:"entries"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
