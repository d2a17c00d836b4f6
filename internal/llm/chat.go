package llm

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/fortyninthit/episodes/internal/output"
)

// completeChat uses the official SDK's chat completions endpoint. Retries are
// handled by Client.retry so every provider backs off the same way.
func (c *Client) completeChat(ctx context.Context, req Request) (*Response, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(c.apiKey),
		option.WithBaseURL(c.baseURL + "/"),
		option.WithMaxRetries(0),
	}
	if hc, ok := c.httpClient.(*http.Client); ok {
		opts = append(opts, option.WithHTTPClient(hc))
	}
	client := openai.NewClient(opts...)

	msgs := []openai.ChatCompletionMessageParamUnion{}
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	msgs = append(msgs, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: msgs,
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   req.Schema.Name,
					Schema: req.Schema.Definition,
					Strict: openai.Bool(true),
				},
			},
		}
	}

	var completion *openai.ChatCompletion
	err := c.retry(ctx, func() error {
		var callErr error
		completion, callErr = client.Chat.Completions.New(ctx, params)
		return wrapSDKError(callErr)
	})
	if err != nil {
		return &Response{Model: c.model}, err
	}

	resp := &Response{Model: c.model, Raw: []byte(completion.RawJSON())}
	if len(completion.Choices) == 0 {
		return resp, output.NewSystemError("empty response from API")
	}
	resp.Content = completion.Choices[0].Message.Content
	resp.FinishReason = string(completion.Choices[0].FinishReason)
	resp.Usage = &Usage{
		Input:  completion.Usage.PromptTokens,
		Output: completion.Usage.CompletionTokens,
		Total:  completion.Usage.TotalTokens,
	}
	if completion.Model != "" {
		resp.Model = completion.Model
	}
	return resp, nil
}

// wrapSDKError maps SDK status errors onto APIError so retry and logging
// treat every provider alike.
func wrapSDKError(err error) error {
	if err == nil {
		return nil
	}
	var sdkErr *openai.Error
	if errors.As(err, &sdkErr) {
		apiErr := &APIError{Status: sdkErr.StatusCode, Body: truncate(sdkErr.Error(), maxErrorBody)}
		return output.NewSystemErrorWithCause(apiErr.Error(), apiErr)
	}
	return output.NewSystemErrorWithCause("request failed", err)
}
