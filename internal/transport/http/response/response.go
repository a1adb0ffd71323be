package response

// ErrorBody is the wire shape of every failure response.
type ErrorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// Message is the wire shape of confirmation-only responses.
type Message struct {
	Message string `json:"message"`
}
