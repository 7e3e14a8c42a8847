package domain

import "time"

// Event names on the bidirectional channel. Inbound and outbound
// questionStarted deliberately share a name: the presenter's start command
// is echoed to everyone as the start notification.
const (
	EventJoinPoll        = "joinPoll"
	EventQuestionStarted = "questionStarted"
	EventSubmitAnswer    = "submitAnswer"
	EventEndPoll         = "endPoll"
	EventGetPollHistory  = "getPollHistory"
	EventGetStudents     = "getStudents"

	EventPollResults     = "pollResults"
	EventAnswerSubmitted = "answerSubmitted"
	EventTimeUpdate      = "timeUpdate"
	EventPollEnded       = "pollEnded"
	EventStudentUpdate   = "studentUpdate"
	EventPollHistory     = "pollHistory"
	EventError           = "error"
)

// QuestionStarted announces a new poll. The correct answer is withheld
// until the poll ends.
type QuestionStarted struct {
	ID        int64    `json:"id"`
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	TimeLimit int      `json:"timeLimit"`
}

// AnswerSubmitted acknowledges one submission to its sender only.
type AnswerSubmitted struct {
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// TimeUpdate is the once-per-second countdown tick.
type TimeUpdate struct {
	TimeLeft int `json:"timeLeft"`
}

// PollEnded carries the frozen results, with the correct answer revealed.
type PollEnded struct {
	PollID         int64          `json:"pollId"`
	Question       string         `json:"question"`
	Results        map[string]int `json:"results"`
	CorrectAnswer  string         `json:"correctAnswer,omitempty"`
	TotalResponses int            `json:"totalResponses"`
	TotalStudents  int            `json:"totalStudents"`
	AutoEnded      bool           `json:"autoEnded"`
}

// StudentUpdate reports the current roster.
type StudentUpdate struct {
	TotalStudents int      `json:"totalStudents"`
	Students      []string `json:"students"`
}

// ErrorMessage is sent to the originating connection for any rejected
// command.
type ErrorMessage struct {
	Message string `json:"message"`
}
