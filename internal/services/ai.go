package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/taskgraph/internal/models"
)

const MaxSuggestedSubtasks = 20

var (
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoSubtasksGenerated  = errors.New("AI did not suggest any subtasks")
)

// SuggestedSubtask is one child task proposed for a parent
type SuggestedSubtask struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// SubtaskSuggester proposes children for a task
type SubtaskSuggester interface {
	SuggestSubtasks(ctx context.Context, task models.Task) ([]SuggestedSubtask, error)
}

type AIService struct {
	client *openai.Client
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// SuggestSubtasks asks the model to split a task into smaller steps
func (s *AIService) SuggestSubtasks(ctx context.Context, task models.Task) ([]SuggestedSubtask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	body := ""
	if task.Body != nil {
		body = *task.Body
	}

	prompt := fmt.Sprintf(`You break work items down into concrete subtasks.

Task title: %s

Task description:
%s

Return a JSON array of subtasks in the order they should be done:
[
  {
    "title": "short imperative title (max %d characters)",
    "body": "one or two sentences of detail"
  }
]

Rules:
- Return at most %d subtasks
- Return [] if the task is already atomic
- Return only JSON, no commentary`, task.Title, body, models.MaxTitleLength, MaxSuggestedSubtasks)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimSuffix(strings.TrimPrefix(content, "```"), "```")

	var subtasks []SuggestedSubtask
	if err := json.Unmarshal([]byte(content), &subtasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return subtasks, nil
}
