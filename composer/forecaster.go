package composer

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"github.com/samgozman/fin-pulse/journalist"
	"github.com/samgozman/fin-pulse/pkg/errlvl"
	"github.com/samgozman/fin-pulse/scavenger/quotes"
	"github.com/sashabaranov/go-openai"
)

// Forecaster writes the outlook section from the current quotes and headlines.
type Forecaster interface {
	Outlook(ctx context.Context, q []quotes.Quote, alerts journalist.HeadlineList) (string, error)
}

// OpenAiClientInterface is an interface for OpenAI API client
type OpenAiClientInterface interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (response openai.ChatCompletionResponse, err error)
}

// OpenAIForecaster asks an OpenAI chat model for the outlook.
type OpenAIForecaster struct {
	Client OpenAiClientInterface
	Model  string
	Config *Config
}

// NewOpenAIForecaster creates a forecaster backed by the OpenAI API.
func NewOpenAIForecaster(token string) *OpenAIForecaster {
	return &OpenAIForecaster{
		Client: openai.NewClient(token),
		Model:  openai.GPT3Dot5Turbo1106,
		Config: DefaultConfig(),
	}
}

func (f *OpenAIForecaster) Outlook(ctx context.Context, q []quotes.Quote, alerts journalist.HeadlineList) (string, error) {
	resp, err := f.Client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: f.Model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: f.Config.OutlookPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: outlookInput(q, alerts),
				},
			},
			Temperature: 0.7,
			MaxTokens:   512,
			TopP:        1,
		},
	)
	if err != nil {
		return "", newError(err, errlvl.WARN, "OpenAIForecaster.Outlook", "CreateChatCompletion")
	}

	if len(resp.Choices) == 0 {
		return "", newError(errEmptyCompletion, errlvl.WARN, "OpenAIForecaster.Outlook", "resp.Choices")
	}

	return cleanOutlook(resp.Choices[0].Message.Content, f.Config.OutlookMaxSize)
}

// GeminiModelInterface is the part of genai.GenerativeModel used by GeminiForecaster.
type GeminiModelInterface interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiForecaster asks a Google Gemini model for the outlook.
type GeminiForecaster struct {
	Model  GeminiModelInterface
	Config *Config
}

// NewGeminiForecaster creates a forecaster from an initialised genai client.
func NewGeminiForecaster(client *genai.Client) *GeminiForecaster {
	return &GeminiForecaster{
		Model:  client.GenerativeModel("gemini-pro"),
		Config: DefaultConfig(),
	}
}

func (f *GeminiForecaster) Outlook(ctx context.Context, q []quotes.Quote, alerts journalist.HeadlineList) (string, error) {
	prompt := f.Config.OutlookPrompt + "\n\n" + outlookInput(q, alerts)

	resp, err := f.Model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", newError(err, errlvl.WARN, "GeminiForecaster.Outlook", "GenerateContent")
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", newError(errNoCandidates, errlvl.WARN, "GeminiForecaster.Outlook", "resp.Candidates")
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}

	return cleanOutlook(b.String(), f.Config.OutlookMaxSize)
}

// outlookInput renders the model input: one line per quote, one line per headline.
func outlookInput(q []quotes.Quote, alerts journalist.HeadlineList) string {
	var b strings.Builder
	b.WriteString("Котировки:\n")
	for _, quote := range q {
		fmt.Fprintf(&b, "%s: %s\n", quote.Name, quote.Text())
	}
	b.WriteString("Заголовки:\n")
	if len(alerts) == 0 {
		b.WriteString("нет\n")
	}
	for _, a := range alerts {
		fmt.Fprintf(&b, "%s (%s)\n", a.Title, a.SourceFeed)
	}
	return b.String()
}

// cleanOutlook strips code fences and markup the models add despite the prompt and caps the length.
func cleanOutlook(s string, maxRunes int) (string, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```markdown")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.NewReplacer("**", "", "__", "").Replace(s)
	s = strings.TrimSpace(s)

	if s == "" {
		return "", newError(errEmptyCompletion, errlvl.INFO, "cleanOutlook", "completion")
	}

	if maxRunes > 0 && utf8.RuneCountInString(s) > maxRunes {
		r := []rune(s)
		s = strings.TrimSpace(string(r[:maxRunes])) + "…"
	}

	return s, nil
}
