package shared

// ErrorMessage is the body of every Postmark error response and of
// responses of endpoints reporting only a status (e.g. server deletion).
type ErrorMessage struct {
	ErrorCode int    `json:"ErrorCode"`
	Message   string `json:"Message"`
}
