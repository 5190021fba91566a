package workspace

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ChatMode selects how the service answers chat messages.
type ChatMode string

const (
	// ChatModeChat answers from general knowledge plus workspace documents.
	ChatModeChat ChatMode = "chat"

	// ChatModeQuery answers only from workspace documents and refuses
	// otherwise.
	ChatModeQuery ChatMode = "query"
)

// Configuration defaults applied to fields a definition leaves out.
const (
	DefaultTemperature         = 0.7
	DefaultSimilarityThreshold = 0.7
	DefaultHistoryCount        = 20
	DefaultChatMode            = ChatModeChat
	DefaultTopN                = 4
	DefaultRefusalResponse     = "I'm sorry, I cannot answer that question based on the available information."
)

// Config is the locally held configuration of a workspace.
type Config struct {
	// Name of the workspace. Required.
	Name string

	// Prompt is the system prompt used for every chat. Required.
	Prompt string

	// Temperature for LLM responses.
	Temperature float64

	// SimilarityThreshold is the minimum score for a document chunk to be
	// used as context.
	SimilarityThreshold float64

	// HistoryCount is the number of previous chat messages sent as context.
	HistoryCount int

	// RefusalResponse is returned in query mode when no context matches.
	RefusalResponse string

	// ChatMode is either ChatModeChat or ChatModeQuery.
	ChatMode ChatMode

	// TopN is the number of document chunks used as context.
	TopN int
}

// NewConfig returns a validated Config with defaults for every optional
// field.
func NewConfig(name, prompt string) (Config, error) {
	cfg := Config{
		Name:                name,
		Prompt:              prompt,
		Temperature:         DefaultTemperature,
		SimilarityThreshold: DefaultSimilarityThreshold,
		HistoryCount:        DefaultHistoryCount,
		RefusalResponse:     DefaultRefusalResponse,
		ChatMode:            DefaultChatMode,
		TopN:                DefaultTopN,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, validationError("new config", err)
	}
	return cfg, nil
}

// Validate checks the required fields and the chat mode.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required.Error("workspace_name is required")),
		validation.Field(&c.Prompt, validation.Required.Error("custom_prompt is required")),
		validation.Field(&c.ChatMode, validation.In(ChatModeChat, ChatModeQuery).
			Error("chat_mode must be one of: chat, query")),
	)
}
