package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/ahmad-hanafi1/product-store-pern/internal/domain"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiGenerator generates recipes with Google's Gemini models in JSON mode
type GeminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

// NewGeminiGenerator creates a generator bound to modelName
func NewGeminiGenerator(ctx context.Context, apiKey, modelName string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = recipeSchema()

	return &GeminiGenerator{client: client, model: model, name: modelName}, nil
}

func recipeSchema() *genai.Schema {
	stringList := &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":        {Type: genai.TypeString},
			"description":  {Type: genai.TypeString},
			"ingredients":  stringList,
			"instructions": stringList,
			"prep_time_minutes": {
				Type:        genai.TypeInteger,
				Description: "Estimated preparation time in whole minutes.",
			},
			"servings": {
				Type:        genai.TypeInteger,
				Description: "Number of servings this recipe provides.",
			},
		},
		Required: []string{"title", "description", "ingredients", "instructions", "prep_time_minutes", "servings"},
	}
}

func (g *GeminiGenerator) Generate(ctx context.Context, ingredients []string) (*domain.Recipe, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(buildPrompt(ingredients)))
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return decodeRecipe(sb.String())
}

func (g *GeminiGenerator) Name() string {
	return "gemini:" + g.name
}

// Close releases the underlying client
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}
