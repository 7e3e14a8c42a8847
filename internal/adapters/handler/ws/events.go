package ws

// Inbound payload schemas. Each command is validated at this boundary;
// malformed payloads get a single error event back.

type joinPollRequest struct {
	StudentName string `json:"studentName"`
}

type startPollRequest struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	TimeLimit     int      `json:"timeLimit"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
}

type submitAnswerRequest struct {
	StudentName string `json:"studentName"`
	Answer      string `json:"answer"`
}
