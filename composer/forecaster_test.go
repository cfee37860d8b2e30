package composer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/samgozman/fin-pulse/journalist"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOpenAiClient struct {
	mock.Mock
}

func (m *MockOpenAiClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

type MockGeminiModel struct {
	mock.Mock
}

func (m *MockGeminiModel) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, parts)
	return args.Get(0).(*genai.GenerateContentResponse), args.Error(1)
}

func TestOpenAIForecaster_Outlook(t *testing.T) {
	tests := []struct {
		name    string
		resp    openai.ChatCompletionResponse
		err     error
		want    string
		wantErr bool
	}{
		{
			name: "completion returned",
			resp: openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "```\n- Следим за **Ормузом**\n```"}},
			}},
			want: "- Следим за Ормузом",
		},
		{
			name:    "no choices",
			resp:    openai.ChatCompletionResponse{},
			wantErr: true,
		},
		{
			name:    "api error",
			resp:    openai.ChatCompletionResponse{},
			err:     errors.New("429 rate limit"),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockOpenAiClient)
			client.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
				return len(req.Messages) == 2 && strings.Contains(req.Messages[1].Content, "USD/PLN: 3,6000 PLN")
			})).Return(tt.resp, tt.err)

			f := &OpenAIForecaster{Client: client, Model: "test", Config: DefaultConfig()}
			got, err := f.Outlook(context.Background(), testQuotes(), journalist.HeadlineList{})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			client.AssertExpectations(t)
		})
	}
}

func TestGeminiForecaster_Outlook(t *testing.T) {
	model := new(MockGeminiModel)
	model.On("GenerateContent", mock.Anything, mock.Anything).Return(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("- Нефть "), genai.Text("стабильна")}}},
		},
	}, nil).Once()
	model.On("GenerateContent", mock.Anything, mock.Anything).Return(&genai.GenerateContentResponse{}, nil).Once()

	f := &GeminiForecaster{Model: model, Config: DefaultConfig()}
	alerts := journalist.HeadlineList{{Title: "Iran missile test", SourceFeed: "bbc"}}

	got, err := f.Outlook(context.Background(), testQuotes(), alerts)
	require.NoError(t, err)
	assert.Equal(t, "- Нефть стабильна", got)

	_, err = f.Outlook(context.Background(), testQuotes(), alerts)
	assert.ErrorIs(t, err, errNoCandidates)
	model.AssertExpectations(t)
}

func Test_cleanOutlook(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		maxRunes int
		want     string
		wantErr  bool
	}{
		{name: "plain", s: " - пункт ", maxRunes: 100, want: "- пункт"},
		{name: "fenced markdown", s: "```markdown\n- **пункт**\n```", maxRunes: 100, want: "- пункт"},
		{name: "truncated", s: "абвгдеж", maxRunes: 3, want: "абв…"},
		{name: "empty", s: "```\n```", maxRunes: 100, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cleanOutlook(tt.s, tt.maxRunes)
			if (err != nil) != tt.wantErr {
				t.Errorf("cleanOutlook() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("cleanOutlook() = %q, want %q", got, tt.want)
			}
		})
	}
}
