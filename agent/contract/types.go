package contract

type TurnRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
	Reset     bool   `json:"reset,omitempty"`
}

type TurnResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	// Rounds is the number of tool-dispatch rounds the turn needed.
	Rounds int `json:"rounds"`
	// Exhausted reports that the round limit cut the turn short.
	Exhausted bool `json:"exhausted,omitempty"`
}

type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
