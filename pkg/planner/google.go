package planner

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Google model constants.
const (
	GoogleGemini25Flash = "gemini-2.5-flash"
	GoogleGemini25Pro   = "gemini-2.5-pro"
)

// Google implements Planner with Gemini GenerateContent.
type Google struct {
	client      *genai.Client
	model       string
	temperature float32
	backend     genai.Backend
	project     string
	location    string
	baseURL     string
}

// GoogleOption is a functional option for configuring Google.
type GoogleOption func(*Google)

// WithGoogleModel sets the model to use.
func WithGoogleModel(model string) GoogleOption {
	return func(g *Google) {
		if model != "" {
			g.model = model
		}
	}
}

// WithGoogleTemperature sets the sampling temperature.
func WithGoogleTemperature(t float32) GoogleOption {
	return func(g *Google) {
		g.temperature = t
	}
}

// WithGoogleBackend sets the backend to use (Gemini API or Vertex AI).
func WithGoogleBackend(backend genai.Backend) GoogleOption {
	return func(g *Google) {
		g.backend = backend
	}
}

// WithGoogleProject sets the GCP project ID for Vertex AI.
func WithGoogleProject(project string) GoogleOption {
	return func(g *Google) {
		g.project = project
	}
}

// WithGoogleLocation sets the GCP location/region for Vertex AI.
func WithGoogleLocation(location string) GoogleOption {
	return func(g *Google) {
		g.location = location
	}
}

// WithGoogleBaseURL overrides the API endpoint.
func WithGoogleBaseURL(url string) GoogleOption {
	return func(g *Google) {
		g.baseURL = url
	}
}

// NewGoogle creates a Gemini planner with API key authentication.
func NewGoogle(ctx context.Context, apiKey string, opts ...GoogleOption) (*Google, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	g := &Google{
		model:   GoogleGemini25Flash,
		backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, g.connect(ctx, apiKey)
}

// NewGoogleVertexAI creates a planner on Vertex AI with project and location.
func NewGoogleVertexAI(ctx context.Context, project, location string, opts ...GoogleOption) (*Google, error) {
	if project == "" || location == "" {
		return nil, fmt.Errorf("%w: project and location are required for Vertex AI backend", ErrClientCreationFailed)
	}

	g := &Google{
		model:    GoogleGemini25Flash,
		backend:  genai.BackendVertexAI,
		project:  project,
		location: location,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, g.connect(ctx, "")
}

func (g *Google) connect(ctx context.Context, apiKey string) error {
	config := &genai.ClientConfig{
		APIKey:   apiKey,
		Backend:  g.backend,
		Project:  g.project,
		Location: g.location,
	}
	if g.baseURL != "" {
		config.HTTPOptions.BaseURL = g.baseURL
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrClientCreationFailed, err)
	}
	g.client = client
	return nil
}

// Plan asks the model for a JSON array of operations.
func (g *Google) Plan(ctx context.Context, instruction, summary string) ([]Operation, error) {
	if instruction == "" {
		return nil, ErrEmptyInstruction
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt(), genai.RoleUser),
		Temperature:       genai.Ptr(g.temperature),
		ResponseMIMEType:  "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(userPrompt(instruction, summary)), config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlanningFailed, err)
	}
	if resp == nil {
		return nil, ErrEmptyResponse
	}
	return ParseOperations(resp.Text())
}
