// Package openai implements model.Client on top of the OpenAI Chat
// Completions API. Because the request shape is the de-facto standard for
// hosted inference, the same client serves OpenAI-compatible providers such
// as Groq by overriding the base URL.
package openai

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/swarmdeck/swarmdeck/model"
)

// GroqBaseURL is the OpenAI-compatible endpoint of the Groq inference API.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// Options configure the OpenAI-compatible client.
type Options struct {
	// Model is the completion model identifier.
	Model string
	// BaseURL overrides the API endpoint (e.g. GroqBaseURL). Empty means the
	// SDK default (api.openai.com).
	BaseURL string
}

// Client wraps the OpenAI Chat Completions API behind model.Client.
type Client struct {
	client *openai.Client
	opts   Options
}

var _ model.Client = (*Client)(nil)

// NewClient creates a client authenticated with the given API key. An empty
// key is rejected at call time with model.ErrUnavailable rather than here, so
// construction never fails.
func NewClient(apiKey string, optFns ...func(o *Options)) *Client {
	opts := Options{Model: openai.ChatModelGPT4oMini}
	for _, fn := range optFns {
		fn(&opts)
	}

	var reqOpts []option.RequestOption
	if apiKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(apiKey))
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	client := openai.NewClient(reqOpts...)
	return NewClientFromSDK(&client, apiKey != "", optFns...)
}

// NewGroqClient creates a client targeting the Groq API with its default
// production model.
func NewGroqClient(apiKey string, optFns ...func(o *Options)) *Client {
	return NewClient(apiKey, append([]func(o *Options){func(o *Options) {
		o.BaseURL = GroqBaseURL
		o.Model = "llama-3.3-70b-versatile"
	}}, optFns...)...)
}

// NewClientFromSDK wraps an existing SDK client. hasCredential reports
// whether the underlying client is authenticated; when false every call
// returns model.ErrUnavailable.
func NewClientFromSDK(client *openai.Client, hasCredential bool, optFns ...func(o *Options)) *Client {
	opts := Options{Model: openai.ChatModelGPT4oMini}
	for _, fn := range optFns {
		fn(&opts)
	}
	c := &Client{client: client, opts: opts}
	if !hasCredential {
		c.client = nil
	}
	return c
}

// Complete implements model.Client.
func (c *Client) Complete(ctx context.Context, req model.Request) (string, error) {
	if c.client == nil {
		return "", model.ErrUnavailable
	}

	params := openai.ChatCompletionNewParams{
		Model: c.opts.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserContent),
		},
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(req.MaxTokens)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", &model.TransportError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &model.MalformedError{Reason: "no choices returned"}
	}
	text := resp.Choices[0].Message.Content
	if text == "" {
		return "", &model.MalformedError{Reason: "empty completion content"}
	}
	return text, nil
}
