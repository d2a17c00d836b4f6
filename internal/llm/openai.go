package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/fortyninthit/episodes/internal/output"
)

// OpenAI Responses API types.
type responsesRequest struct {
	Model           string            `json:"model"`
	Temperature     float64           `json:"temperature,omitempty"`
	MaxOutputTokens int               `json:"max_output_tokens,omitempty"`
	Text            *responsesText    `json:"text,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	Input           []responsesInput  `json:"input"`
}

type responsesText struct {
	Format responsesFormat `json:"format"`
}

type responsesFormat struct {
	Type   string         `json:"type"`
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
}

type responsesInput struct {
	Role    string             `json:"role"`
	Content []responsesContent `json:"content"`
}

type responsesContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type responsesResponse struct {
	Status string `json:"status"`
	Output []struct {
		Type         string `json:"type"`
		FinishReason string `json:"finish_reason"`
		Content      []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Usage *struct {
		InputTokens         int64 `json:"input_tokens"`
		OutputTokens        int64 `json:"output_tokens"`
		TotalTokens         int64 `json:"total_tokens"`
		OutputTokensDetails struct {
			ReasoningTokens int64 `json:"reasoning_tokens"`
		} `json:"output_tokens_details"`
	} `json:"usage"`
	IncompleteDetails *struct {
		Reason string `json:"reason"`
	} `json:"incomplete_details"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) buildResponsesRequest(req Request) responsesRequest {
	var input []responsesInput
	if req.System != "" {
		input = append(input, responsesInput{
			Role:    "system",
			Content: []responsesContent{{Type: "input_text", Text: req.System}},
		})
	}
	input = append(input, responsesInput{
		Role:    "user",
		Content: []responsesContent{{Type: "input_text", Text: req.Prompt}},
	})

	body := responsesRequest{Model: c.model, Input: input, Metadata: req.Metadata}
	if req.Temperature > 0 {
		body.Temperature = req.Temperature
	}
	if req.MaxTokens > 0 {
		body.MaxOutputTokens = req.MaxTokens
	}
	if req.Schema != nil {
		body.Text = &responsesText{Format: responsesFormat{
			Type:   "json_schema",
			Name:   req.Schema.Name,
			Schema: req.Schema.Definition,
		}}
	}
	return body
}

func (c *Client) completeResponses(ctx context.Context, req Request) (*Response, error) {
	respBody, err := c.doRequest(ctx, c.baseURL+"/responses", c.buildResponsesRequest(req), c.bearer())
	if err != nil {
		return &Response{Model: c.model, Raw: respBody}, err
	}
	return parseResponsesResponse(respBody, c.model)
}

func parseResponsesResponse(respBody []byte, model string) (*Response, error) {
	var result responsesResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return &Response{Model: model, Raw: respBody}, output.NewSystemErrorWithCause("failed to parse response", err)
	}
	if result.Error != nil {
		return &Response{Model: model, Raw: respBody}, output.NewSystemError("API error: " + result.Error.Message)
	}

	resp := &Response{Model: model, Raw: respBody, FinishReason: result.Status}
	if result.IncompleteDetails != nil && result.IncompleteDetails.Reason != "" {
		resp.FinishReason = result.IncompleteDetails.Reason
	}

	var parts []string
	for _, out := range result.Output {
		if out.FinishReason != "" {
			resp.FinishReason = out.FinishReason
		}
		for _, chunk := range out.Content {
			if chunk.Text != "" {
				parts = append(parts, chunk.Text)
			}
		}
	}
	resp.Content = strings.Join(parts, "\n\n")

	if u := result.Usage; u != nil {
		resp.Usage = &Usage{
			Input:     u.InputTokens,
			Output:    u.OutputTokens,
			Total:     u.TotalTokens,
			Reasoning: u.OutputTokensDetails.ReasoningTokens,
		}
	}
	return resp, nil
}
