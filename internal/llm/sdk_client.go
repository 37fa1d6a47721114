package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"go.uber.org/zap"
)

// SDKClient implementa LLMClient con el SDK oficial (Responses API).
// Cuando la request trae Schema se pide salida json_schema estricta.
type SDKClient struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewSDKClient construye el cliente sin reintentos: un fallo va directo al fallback local.
func NewSDKClient(baseURL, apiKey, model string, logger *zap.Logger) *SDKClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}
	client := openai.NewClient(opts...)
	return &SDKClient{
		client: &client,
		model:  model,
		logger: logger,
	}
}

func (c *SDKClient) Generate(ctx context.Context, in CompletionRequest) (string, error) {
	params := responses.ResponseNewParams{
		Model:       c.model,
		Temperature: openai.Float(in.Temperature),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(in.Prompt, responses.EasyInputMessageRoleUser),
			},
		},
	}
	if s := strings.TrimSpace(in.System); s != "" {
		params.Instructions = openai.String(s)
	}
	if in.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(in.MaxTokens))
	}
	if in.Schema != nil {
		name := in.SchemaName
		if name == "" {
			name = "Response"
		}
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:   name,
					Schema: in.Schema,
					Strict: openai.Bool(true),
					Type:   "json_schema",
				},
			},
		}
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		c.logger.Warn("llm sdk request failed", zap.Error(err))
		return "", fmt.Errorf("responses new: %w", err)
	}

	out := resp.OutputText()
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("llm empty response")
	}
	return out, nil
}
