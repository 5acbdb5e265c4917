package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"resale-office/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

type AgentService interface {
	SuggestListing(ctx context.Context, item *core.Item, comparables string) (*core.ListingSuggestion, error)
}

type Agent struct {
	client *openai.Client
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

// SuggestListing asks the model for a marketplace listing draft for the item.
// Comparables is free-form text (recent sold prices, condition notes) the
// operator pasted in; it may be empty.
func (a *Agent) SuggestListing(ctx context.Context, item *core.Item, comparables string) (*core.ListingSuggestion, error) {
	prompt := fmt.Sprintf(`You are an expert reseller who writes marketplace listings.
Your goal is to draft a listing for the item below and suggest a competitive price.
Rules:
1. The title must be at most 80 characters and front-load searchable terms.
2. The suggested price must be a plain decimal string (e.g. "24.99"), no currency symbol.
3. The price must cover the cost of goods; never suggest selling at a loss.
4. Keywords are lowercase search terms, most relevant first.
5. Provide a confidence score (0.0-1.0).
6. Explain your reasoning.

Item:
SKU: %s
Name: %s
Description: %s
Category: %s
Cost of goods: %s
Current list price: %s
Target platform: %s

Comparable sales:
%s`,
		item.SKU, item.Name, item.Description, item.Category,
		item.CostOfGoods.StringFixed(2), item.ListPrice.StringFixed(2),
		item.Platform, comparables)

	// Dynamically generate the JSON schema from the Go struct
	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "listing_suggestion",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A draft marketplace listing with a suggested price"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var suggestion core.ListingSuggestion
	if err := json.Unmarshal([]byte(content), &suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}

	suggestion.Normalize()
	if err := suggestion.Validate(); err != nil {
		return nil, fmt.Errorf("suggestion validation failed: %w", err)
	}

	return &suggestion, nil
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v core.ListingSuggestion
	return reflector.Reflect(v)
}
