package openai

import (
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// ConceptOpenAIClient implements ai.ConceptAIClient against an
// OpenAI-compatible chat completion endpoint.
//
// A ConceptOpenAIClient should be created using NewConceptOpenAIClient.
type ConceptOpenAIClient struct {
	chatModel       string
	extractionModel string

	chatURL string
	chatKey string

	ChatClient *openai.Client
}

// NewConceptOpenAIClientParams defines the configuration parameters for
// creating a new ConceptOpenAIClient.
//
// ChatModel is used for free-text completions; ExtractionModel for
// schema-enforced structured output. ChatURL may point at any
// OpenAI-compatible server; leave it empty for the official API.
type NewConceptOpenAIClientParams struct {
	ChatModel       string
	ExtractionModel string

	ChatURL string
	ChatKey string
}

// NewConceptOpenAIClient creates and returns a new ConceptOpenAIClient
// configured with the provided parameters.
//
// Example:
//
//	client := openai.NewConceptOpenAIClient(openai.NewConceptOpenAIClientParams{
//		ChatModel:       "gpt-4o-mini",
//		ExtractionModel: "gpt-4o-mini",
//		ChatKey:         os.Getenv("OPENAI_API_KEY"),
//	})
func NewConceptOpenAIClient(params NewConceptOpenAIClientParams) *ConceptOpenAIClient {
	return &ConceptOpenAIClient{
		chatModel:       params.ChatModel,
		extractionModel: params.ExtractionModel,
		chatURL:         params.ChatURL,
		chatKey:         params.ChatKey,
		ChatClient:      newOpenaiClient(params.ChatURL, params.ChatKey),
	}
}

func newOpenaiClient(baseURL string, apiKey string) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}
