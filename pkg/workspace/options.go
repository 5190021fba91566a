package workspace

// Attachment is a file sent along with a chat message.
type Attachment struct {
	Name          string `json:"name"`
	Mime          string `json:"mime"`
	ContentString string `json:"contentString"`
}

type chatRequest struct {
	Message     string       `json:"message"`
	Mode        ChatMode     `json:"mode"`
	SessionID   string       `json:"sessionId,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// ChatOption customizes a chat request.
type ChatOption func(*chatRequest)

// WithSessionID scopes the chat to a session so the service keeps a
// separate history for it. An empty id is ignored.
func WithSessionID(id string) ChatOption {
	return func(r *chatRequest) {
		r.SessionID = id
	}
}

// WithAttachments sends files along with the message.
func WithAttachments(attachments ...Attachment) ChatOption {
	return func(r *chatRequest) {
		r.Attachments = append(r.Attachments, attachments...)
	}
}

type searchRequest struct {
	Query          string   `json:"query"`
	TopN           *int     `json:"topN,omitempty"`
	ScoreThreshold *float64 `json:"scoreThreshold,omitempty"`
}

// SearchOption customizes a vector search.
type SearchOption func(*searchRequest)

// WithTopN overrides the number of results.
func WithTopN(n int) SearchOption {
	return func(r *searchRequest) {
		r.TopN = &n
	}
}

// WithScoreThreshold overrides the minimum similarity score.
func WithScoreThreshold(threshold float64) SearchOption {
	return func(r *searchRequest) {
		r.ScoreThreshold = &threshold
	}
}
