package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"gst-engine/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

type AgentService interface {
	InterpretDocumentEvent(ctx context.Context, naturalLanguage, partyList, productCatalog string) (*core.AssistantResponse, error)
}

type Agent struct {
	client *openai.Client
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

// InterpretDocumentEvent turns a natural-language description of a business
// document ("invoice Acme for 2 widgets at 100 each, 18% GST") into a
// structured draft, or a clarification request when the input is too vague.
// The draft is normalized and validated with the engine's own line rules
// before being returned; a draft that fails validation is an error, never a
// silently repaired document.
func (a *Agent) InterpretDocumentEvent(ctx context.Context, naturalLanguage, partyList, productCatalog string) (*core.AssistantResponse, error) {
	prompt := fmt.Sprintf(`You are an assistant for an Indian GST billing system.
Your goal is to interpret a business event described in natural language and propose a document draft (invoice, purchase, or purchase order).
Rules:
1. Use ONLY party names from the list below, exactly as written.
2. Amounts must be exact decimal strings (e.g. "100.00").
3. GST rates are percentages (e.g. "18" for 18%%).
4. The place-of-supply state code is the 2-digit GST state code.
5. If the event does not name a party, a clear set of line items, or a document kind, ask for clarification instead of guessing.
6. Provide a confidence score (0.0-1.0) and explain your reasoning.

Parties:
%s

Products:
%s

Event: %s`, partyList, productCatalog, naturalLanguage)

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
					Name:        "document_draft_response",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A draft GST document or a clarification request"),
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

	var response core.AssistantResponse
	if err := json.Unmarshal([]byte(content), &response); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}

	if response.IsClarificationRequest {
		if response.Clarification == nil || response.Clarification.Message == "" {
			return nil, fmt.Errorf("clarification requested without a message")
		}
		return &response, nil
	}

	if response.Draft == nil {
		return nil, fmt.Errorf("response contains neither a draft nor a clarification")
	}
	response.Draft.Normalize()
	if err := response.Draft.Validate(); err != nil {
		return nil, fmt.Errorf("draft validation failed: %w", err)
	}

	return &response, nil
}

// AnswerQuery answers a read-only question about the company's GST data
// ("how much IGST did we collect in July?"). The agent calls the registered
// read tools as needed; the loop is capped to keep a confused model from
// spinning.
func (a *Agent) AnswerQuery(ctx context.Context, question string, registry *ToolRegistry) (string, error) {
	const maxTurns = 8

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(fmt.Sprintf(`You are an assistant for an Indian GST billing system.
Answer the user's question using the provided tools. Amounts are INR.

Question: %s`, question)),
		},
		Tools: registry.ToOpenAITools(),
	}

	for turn := 0; turn < maxTurns; turn++ {
		resp, err := a.client.Responses.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("openai responses error: %w", err)
		}

		var calls []responses.ResponseFunctionToolCall
		for _, item := range resp.Output {
			if item.Type == "function_call" {
				calls = append(calls, item.AsFunctionCall())
			}
		}
		if len(calls) == 0 {
			if text := resp.OutputText(); text != "" {
				return text, nil
			}
			return "", fmt.Errorf("empty response content")
		}

		input := responses.ResponseNewParamsInputUnion{}
		for _, call := range calls {
			tool, ok := registry.Get(call.Name)
			if !ok {
				return "", fmt.Errorf("model called unknown tool %q", call.Name)
			}
			var args map[string]any
			if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
				return "", fmt.Errorf("invalid arguments for tool %q: %w", call.Name, err)
			}
			result, err := tool.Handler(ctx, args)
			if err != nil {
				result = fmt.Sprintf(`{"error": %q}`, err.Error())
			}
			input.OfInputItemList = append(input.OfInputItemList,
				responses.ResponseInputItemParamOfFunctionCallOutput(call.CallID, result))
		}
		params.Input = input
		params.PreviousResponseID = param.NewOpt(resp.ID)
	}

	return "", fmt.Errorf("tool loop exceeded %d turns without an answer", maxTurns)
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v core.AssistantResponse
	return reflector.Reflect(v)
}
