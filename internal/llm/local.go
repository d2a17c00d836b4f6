package llm

import (
	"context"
	"encoding/json"

	"github.com/fortyninthit/episodes/internal/output"
)

// Local LLM server API types (OpenAI-compatible chat completions).
// Works with LM Studio, Ollama, and other OpenAI-compatible servers.

type localRequest struct {
	Model          string          `json:"model"`
	Messages       []localMessage  `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type localMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string         `json:"type"`
	JSONSchema map[string]any `json:"json_schema"`
}

type localResponse struct {
	Choices []struct {
		FinishReason string `json:"finish_reason"`
		Message      struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
		TotalTokens      int64 `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) completeLocal(ctx context.Context, req Request) (*Response, error) {
	respBody, err := c.doRequest(ctx, c.baseURL+"/chat/completions", c.buildLocalRequest(req), c.bearer())
	if err != nil {
		return &Response{Model: c.model, Raw: respBody}, err
	}
	return parseLocalResponse(respBody, c.model)
}

func (c *Client) buildLocalRequest(req Request) localRequest {
	messages := []localMessage{}
	if req.System != "" {
		messages = append(messages, localMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, localMessage{Role: "user", Content: req.Prompt})

	// Use empty string to let the server use its loaded model
	model := c.model
	if model == "default" || model == "local" {
		model = ""
	}

	body := localRequest{Model: model, Messages: messages}
	if req.MaxTokens > 0 {
		body.MaxTokens = req.MaxTokens
	}
	if req.Temperature > 0 {
		body.Temperature = req.Temperature
	}
	if req.Schema != nil {
		body.ResponseFormat = &responseFormat{
			Type: "json_schema",
			JSONSchema: map[string]any{
				"name":   req.Schema.Name,
				"schema": req.Schema.Definition,
			},
		}
	}
	return body
}

func parseLocalResponse(respBody []byte, model string) (*Response, error) {
	var result localResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return &Response{Model: model, Raw: respBody}, output.NewSystemErrorWithCause("failed to parse response", err)
	}

	if result.Error != nil {
		return &Response{Model: model, Raw: respBody}, output.NewSystemError("API error: " + result.Error.Message)
	}

	if len(result.Choices) == 0 {
		return &Response{Model: model, Raw: respBody}, output.NewSystemError("empty response from API")
	}

	responseModel := model
	if responseModel == "" || responseModel == "default" {
		responseModel = "local"
	}

	resp := &Response{
		Content:      result.Choices[0].Message.Content,
		Model:        responseModel,
		FinishReason: result.Choices[0].FinishReason,
		Raw:          respBody,
	}
	if u := result.Usage; u != nil {
		resp.Usage = &Usage{Input: u.PromptTokens, Output: u.CompletionTokens, Total: u.TotalTokens}
	}
	return resp, nil
}
