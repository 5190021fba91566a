package workspace

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// External is the user-facing JSON shape of a workspace definition, as read
// from and written to definition files.
type External struct {
	Name                string   `json:"workspace_name"`
	Prompt              string   `json:"custom_prompt"`
	Temperature         float64  `json:"temperature"`
	SimilarityThreshold float64  `json:"similarity_threshold"`
	HistoryCount        int      `json:"history_count"`
	RefusalResponse     string   `json:"query_refusal_response"`
	ChatMode            ChatMode `json:"chat_mode"`
	TopN                int      `json:"top_n"`
}

// Wire is the JSON shape the service API expects and returns.
type Wire struct {
	Name                 string  `json:"name"`
	OpenAIPrompt         string  `json:"openAiPrompt"`
	OpenAITemp           float64 `json:"openAiTemp"`
	SimilarityThreshold  float64 `json:"similarityThreshold"`
	OpenAIHistory        int     `json:"openAiHistory"`
	QueryRefusalResponse string  `json:"queryRefusalResponse"`
	ChatMode             string  `json:"chatMode"`
	TopN                 int     `json:"topN"`
}

// externalInput tells missing fields apart from explicit zero values.
type externalInput struct {
	Name                *string  `json:"workspace_name"`
	Prompt              *string  `json:"custom_prompt"`
	Temperature         *float64 `json:"temperature"`
	SimilarityThreshold *float64 `json:"similarity_threshold"`
	HistoryCount        *int     `json:"history_count"`
	RefusalResponse     *string  `json:"query_refusal_response"`
	ChatMode            *string  `json:"chat_mode"`
	TopN                *int     `json:"top_n"`
}

// FromExternal builds a Config from an external-shape JSON object. Missing
// or null optional fields get their defaults; explicit values, including
// zeros, are kept. It fails with ErrValidation when workspace_name or
// custom_prompt is missing or empty.
func FromExternal(data []byte) (Config, error) {
	var in externalInput
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&in); err != nil {
		return Config{}, validationError("from external", fmt.Errorf("invalid JSON: %w", err))
	}

	cfg := Config{
		Name:                deref(in.Name, ""),
		Prompt:              deref(in.Prompt, ""),
		Temperature:         deref(in.Temperature, DefaultTemperature),
		SimilarityThreshold: deref(in.SimilarityThreshold, DefaultSimilarityThreshold),
		HistoryCount:        deref(in.HistoryCount, DefaultHistoryCount),
		RefusalResponse:     deref(in.RefusalResponse, DefaultRefusalResponse),
		ChatMode:            ChatMode(deref(in.ChatMode, string(DefaultChatMode))),
		TopN:                deref(in.TopN, DefaultTopN),
	}
	if cfg.ChatMode == "" {
		cfg.ChatMode = DefaultChatMode
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, validationError("from external", err)
	}
	return cfg, nil
}

// FromExternalMap is FromExternal for an already decoded object.
func FromExternalMap(data map[string]any) (Config, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Config{}, validationError("from external", err)
	}
	return FromExternal(raw)
}

// ToWire renames a Config into the service API shape.
func ToWire(c Config) Wire {
	return Wire{
		Name:                 c.Name,
		OpenAIPrompt:         c.Prompt,
		OpenAITemp:           c.Temperature,
		SimilarityThreshold:  c.SimilarityThreshold,
		OpenAIHistory:        c.HistoryCount,
		QueryRefusalResponse: c.RefusalResponse,
		ChatMode:             string(c.ChatMode),
		TopN:                 c.TopN,
	}
}

// ToExternal renames a Config into the user-facing definition shape.
func ToExternal(c Config) External {
	return External{
		Name:                c.Name,
		Prompt:              c.Prompt,
		Temperature:         c.Temperature,
		SimilarityThreshold: c.SimilarityThreshold,
		HistoryCount:        c.HistoryCount,
		RefusalResponse:     c.RefusalResponse,
		ChatMode:            c.ChatMode,
		TopN:                c.TopN,
	}
}

// Config converts a wire payload back into a Config.
func (w Wire) Config() Config {
	return Config{
		Name:                w.Name,
		Prompt:              w.OpenAIPrompt,
		Temperature:         w.OpenAITemp,
		SimilarityThreshold: w.SimilarityThreshold,
		HistoryCount:        w.OpenAIHistory,
		RefusalResponse:     w.QueryRefusalResponse,
		ChatMode:            ChatMode(w.ChatMode),
		TopN:                w.TopN,
	}
}

// FromWire decodes a workspace record returned by the service. Fields the
// record leaves out or sets to null fall back to the load defaults: empty
// name, prompt and refusal response, and the numeric and chat mode
// defaults. Server records are not validated.
func FromWire(data map[string]any) (Config, error) {
	w := Wire{
		OpenAITemp:          DefaultTemperature,
		SimilarityThreshold: DefaultSimilarityThreshold,
		OpenAIHistory:       DefaultHistoryCount,
		ChatMode:            string(DefaultChatMode),
		TopN:                DefaultTopN,
	}
	if err := decodeLoose(data, &w); err != nil {
		return Config{}, fmt.Errorf("error decoding workspace record: %w", err)
	}
	if w.ChatMode == "" {
		w.ChatMode = string(DefaultChatMode)
	}
	return w.Config(), nil
}

// decodeIdentity extracts the id and slug from a workspace record.
func decodeIdentity(data any) (Identity, error) {
	var id Identity
	if err := decodeLoose(data, &id); err != nil {
		return Identity{}, fmt.Errorf("error decoding workspace identity: %w", err)
	}
	return id, nil
}

// decodeLoose decodes service JSON into out using its json tags. Numbers
// and strings are converted as needed and unknown keys are ignored.
func decodeLoose(data any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
