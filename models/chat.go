package models

const ResponseTypeText = "text"

type ChatRequest struct {
	Message   *string `json:"message"`
	SessionID string  `json:"session_id"`
}

// ChatResponse is the single envelope returned for every handled message.
type ChatResponse struct {
	Response string `json:"response"`
	Type     string `json:"type"`
}

func TextResponse(text string) *ChatResponse {
	return &ChatResponse{Response: text, Type: ResponseTypeText}
}

type UserDataRequest struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	Standard  string `json:"standard"`
	Stream    string `json:"stream"`
}

type SessionRequest struct {
	SessionID string `json:"session_id"`
}

type HistoryResponse struct {
	History []Message `json:"history"`
}

type StatusResponse struct {
	Message string `json:"message"`
}
