package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/genai"

	"vidsum/internal/summary"
	"vidsum/pkg/prompts"
)

const (
	defaultModel         = "gemini-1.5-pro"
	defaultVideoMIMEType = "video/mp4"
	responseMIMEType     = "application/json"
)

var (
	ErrUpstream           = errors.New("gemini request failed")
	ErrUnexpectedResponse = errors.New("unexpected gemini response")
)

var takeawaySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"heading": {Type: genai.TypeString, Description: "Short title of the takeaway"},
		"content": {Type: genai.TypeString, Description: "Short explanatory paragraph"},
	},
	Required: []string{"heading", "content"},
}

var summarySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"summary":      {Type: genai.TypeString, Description: "Detailed but concise summary of the video"},
		"keyTakeaways": {Type: genai.TypeArray, Items: takeawaySchema, Description: "Key takeaways from the video"},
	},
	Required: []string{"summary", "keyTakeaways"},
}

type Client struct {
	client        *genai.Client
	model         string
	videoMIMEType string
	prompt        string
}

type Options struct {
	APIKey        string
	Model         string
	BaseURL       string
	APIVersion    string
	VideoMIMEType string
	Timeout       time.Duration
	HTTPClient    *http.Client
	Prompts       *prompts.Prompts
}

func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.Prompts == nil {
		return nil, errors.New("prompts are required")
	}

	prompt, err := opts.Prompts.RenderVideo(prompts.VideoParams{TakeawayCount: summary.TakeawayCount})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	httpOptions := genai.HTTPOptions{
		BaseURL:    opts.BaseURL,
		APIVersion: opts.APIVersion,
	}
	if opts.Timeout > 0 {
		timeout := opts.Timeout
		httpOptions.Timeout = &timeout
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      opts.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  opts.HTTPClient,
		HTTPOptions: httpOptions,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = defaultModel
	}
	mimeType := opts.VideoMIMEType
	if mimeType == "" {
		mimeType = defaultVideoMIMEType
	}

	return &Client{
		client:        client,
		model:         model,
		videoMIMEType: mimeType,
		prompt:        prompt,
	}, nil
}

func (c *Client) Model() string {
	return c.model
}

// Summarize asks Gemini to watch the video at videoURL and returns the
// decoded summary. It makes exactly one request.
func (c *Client) Summarize(ctx context.Context, videoURL string) (*summary.Result, error) {
	if videoURL == "" {
		return nil, errors.New("video url is empty")
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromURI(videoURL, c.videoMIMEType),
			genai.NewPartFromText(c.prompt),
		}, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: responseMIMEType,
		ResponseSchema:   summarySchema,
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		slog.Error("Gemini API error", "model", c.model, "video_url", videoURL, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	slog.Debug("Gemini responded", "model", c.model, "duration", time.Since(start))

	text, err := firstPartText(resp)
	if err != nil {
		logRawResponse("Failed to read Gemini response", resp, err)
		return nil, err
	}

	result, err := summary.Decode(text)
	if err != nil {
		logRawResponse("Failed to parse Gemini JSON response", resp, err)
		return nil, fmt.Errorf("decode summary: %w", err)
	}

	return result, nil
}

func firstPartText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrUnexpectedResponse)
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return "", fmt.Errorf("%w: no content parts", ErrUnexpectedResponse)
	}
	if content.Parts[0].Text == "" {
		return "", fmt.Errorf("%w: empty text", ErrUnexpectedResponse)
	}
	return content.Parts[0].Text, nil
}

func logRawResponse(msg string, resp *genai.GenerateContentResponse, err error) {
	raw, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		slog.Error(msg, "error", err, "marshal_error", marshalErr)
		return
	}
	slog.Error(msg, "error", err, "raw_response", string(raw))
}
