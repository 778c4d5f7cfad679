package sentiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/responses"

	"github.com/spacesedan/sentiscope/internal/apperr"
	"github.com/spacesedan/sentiscope/internal/metrics"
)

const dependencyOpenAI = "openai"

// OpenAIGenerator asks the Responses API for schema-constrained JSON.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	schema map[string]any
}

func NewOpenAIGenerator(client *openai.Client, model string) (*OpenAIGenerator, error) {
	schema, err := Schema()
	if err != nil {
		return nil, err
	}
	return &OpenAIGenerator{client: client, model: model, schema: schema}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	params := responses.ResponseNewParams{
		Model:        g.model,
		Instructions: openai.String(promptInstructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(prompt, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        SchemaName,
					Schema:      g.schema,
					Strict:      openai.Bool(true),
					Description: openai.String(SchemaDescription),
					Type:        "json_schema",
				},
			},
		},
	}

	resp, err := g.client.Responses.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			metrics.ObserveOutbound(dependencyOpenAI, metrics.OutcomeUpstream)
			msg := apiErr.Message
			if msg == "" {
				msg = fmt.Sprintf("API request failed with status: %d", apiErr.StatusCode)
			}
			return "", apperr.Upstream(apiErr.StatusCode, msg)
		}
		metrics.ObserveOutbound(dependencyOpenAI, metrics.OutcomeTransport)
		return "", apperr.Transport("could not reach openai service", err)
	}

	metrics.ObserveOutbound(dependencyOpenAI, metrics.OutcomeSuccess)
	return resp.OutputText(), nil
}
