package server

const (
	statusSuccess = "success"
	statusError   = "error"
)

type welcomeResponse struct {
	Message string `json:"message"`
}

type queryResponse struct {
	Status    string `json:"status"`
	Query     string `json:"query,omitempty"`
	Response  string `json:"response,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Rounds    int    `json:"rounds,omitempty"`
	Error     string `json:"error,omitempty"`
}

type healthResponse struct {
	Status string `json:"status"`
}
