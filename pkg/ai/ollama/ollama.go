package ollama

import (
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/semaphore"
)

// ConceptOllamaClient implements ai.ConceptAIClient using Ollama as the
// backend, for running the extraction pipeline against locally-hosted models.
type ConceptOllamaClient struct {
	chatModel       string
	extractionModel string

	reqLock *semaphore.Weighted

	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client

	Client *api.Client
}

// NewConceptOllamaClientParams contains configuration options for creating
// a new ConceptOllamaClient.
type NewConceptOllamaClientParams struct {
	ChatModel       string
	ExtractionModel string

	BaseURL string
	ApiKey  string

	MaxConcurrentRequests int64
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewConceptOllamaClient creates a new Ollama-based oracle client. It
// connects to the Ollama server at the given BaseURL (or the default if
// empty) and caps in-flight requests at MaxConcurrentRequests.
func NewConceptOllamaClient(
	params NewConceptOllamaClientParams,
) (*ConceptOllamaClient, error) {
	var (
		u   *url.URL
		err error
	)

	if params.BaseURL != "" {
		u, err = url.Parse(params.BaseURL)
		if err != nil {
			return nil, err
		}
	}

	httpClient := &http.Client{
		Transport: &headerTransport{
			headers: map[string]string{
				"Authorization": "Bearer " + params.ApiKey,
			},
			rt: http.DefaultTransport,
		},
	}

	cli := api.NewClient(u, httpClient)

	maxReq := params.MaxConcurrentRequests
	if maxReq <= 0 {
		maxReq = 10
	}

	return &ConceptOllamaClient{
		chatModel:       params.ChatModel,
		extractionModel: params.ExtractionModel,

		reqLock: semaphore.NewWeighted(maxReq),

		baseURL:    u,
		apiKey:     params.ApiKey,
		httpClient: httpClient,

		Client: cli,
	}, nil
}
