package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"resty.dev/v3"

	"github.com/at-ishikawa/certprep/internal/inference"
)

type Client struct {
	httpClient       *resty.Client
	model            string
	maxRetryAttempts uint
}

func NewClient(apiKey, model string, retryAttempts uint) *Client {
	client := resty.New()
	client.SetBaseURL("https://api.openai.com/v1")
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:       client,
		model:            model,
		maxRetryAttempts: retryAttempts,
	}
}

func (client Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client Client) GetModel() string {
	return client.model
}

type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// GenerateStudyPlan implements the inference.Client interface
func (client *Client) GenerateStudyPlan(
	ctx context.Context,
	params inference.GenerateStudyPlanRequest,
) (inference.StudyPlan, error) {
	var result inference.StudyPlan
	if err := client.withRetry(ctx, func() error {
		response, err := client.generateStudyPlan(ctx, params)
		if err != nil {
			return err
		}
		result = response
		return nil
	}); err != nil {
		return inference.StudyPlan{}, err
	}
	return result, nil
}

// ExplainConcept implements the inference.Client interface
func (client *Client) ExplainConcept(
	ctx context.Context,
	params inference.ExplainConceptRequest,
) (string, error) {
	var result string
	if err := client.withRetry(ctx, func() error {
		response, err := client.explainConcept(ctx, params)
		if err != nil {
			return err
		}
		result = response
		return nil
	}); err != nil {
		return "", err
	}
	return result, nil
}

func (client *Client) getStudyPlanRequestBody(args inference.GenerateStudyPlanRequest) (ChatCompletionRequest, error) {
	systemPrompt := fmt.Sprintf(`You are an expert CFA Level 1 exam tutor. You build realistic multi-week study plans.

GOAL
Return ONLY a JSON object with this exact shape:
{
  "strategy": "<2-3 sentence overall strategy tailored to the candidate>",
  "weeklyBreakdown": [
    {"week": 1, "topic": "<topic name>", "focusArea": "<what to focus on>", "dailyTasks": ["<task 1>", "... %d tasks, one per day>"]}
  ],
  "tips": ["<tip 1>", "<tip 2>", "<tip 3>"]
}

RULES
- Produce exactly %d entries in weeklyBreakdown, weeks numbered 1 through %d.
- Each week has exactly %d daily tasks.
- Order topics so high exam weight and high difficulty get earlier, longer coverage.
- Reserve the final weeks for review and mock exams.
- Tasks must be concrete and sized for a single day at the stated weekly hours.
- No text outside the JSON. No markdown code fences.`,
		inference.PlanDailyTasks, inference.PlanWeeks, inference.PlanWeeks, inference.PlanDailyTasks)

	profile, err := json.Marshal(args)
	if err != nil {
		return ChatCompletionRequest{}, fmt.Errorf("json.Marshal(profile) > %w", err)
	}

	userPrompt := fmt.Sprintf(`Build my study plan. My profile, exam date, weekly hour budget and the topic list with exam weights, difficulty and estimated hours:

%s

My finance background: %s.`,
		string(profile), backgroundPhrase(args.HasBackground))

	return ChatCompletionRequest{
		Model:       client.model,
		Temperature: 0.3,
		Messages: []Message{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: userPrompt},
		},
	}, nil
}

func backgroundPhrase(hasBackground bool) string {
	if hasBackground {
		return "I have a finance background, so move faster through familiar material"
	}
	return "I am new to finance, so assume no prior knowledge"
}

func (client *Client) generateStudyPlan(
	ctx context.Context,
	args inference.GenerateStudyPlanRequest,
) (inference.StudyPlan, error) {
	requestBody, err := client.getStudyPlanRequestBody(args)
	if err != nil {
		return inference.StudyPlan{}, fmt.Errorf("getStudyPlanRequestBody > %w", err)
	}

	content, err := client.complete(ctx, requestBody)
	if err != nil {
		return inference.StudyPlan{}, err
	}

	var plan inference.StudyPlan
	if err := json.Unmarshal([]byte(trimJSONFence(content)), &plan); err != nil {
		slog.Default().Error("Failed to parse study plan response as JSON",
			"request", requestBody,
			"error", err)
		return inference.StudyPlan{}, fmt.Errorf("json.Unmarshal(%s) > %w", content, err)
	}
	if err := plan.Validate(); err != nil {
		return inference.StudyPlan{}, fmt.Errorf("plan.Validate() > %w", err)
	}
	return plan, nil
}

func (client *Client) explainConcept(
	ctx context.Context,
	args inference.ExplainConceptRequest,
) (string, error) {
	systemPrompt := `You are an expert CFA Level 1 tutor. Explain concepts clearly and concisely for an exam candidate. Use short paragraphs, concrete examples, and the formulas the exam expects. Keep the answer under 300 words.`

	userPrompt := fmt.Sprintf("Within the topic %q, explain: %s", args.TopicName, args.Query)

	requestBody := ChatCompletionRequest{
		Model:       client.model,
		Temperature: 0.2,
		Messages: []Message{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: userPrompt},
		},
	}

	content, err := client.complete(ctx, requestBody)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// complete posts one chat completion and returns the first choice's content.
func (client *Client) complete(ctx context.Context, requestBody ChatCompletionRequest) (string, error) {
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&ChatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return "", fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*ChatCompletionResponse)
	if responseBody == nil || len(responseBody.Choices) == 0 {
		return "", fmt.Errorf("empty response body or choices: %s", response.String())
	}

	content := responseBody.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty response content: %s", response.String())
	}
	slog.Default().Debug("openai response content",
		"request", requestBody,
		"response", responseBody,
	)
	return content, nil
}

// trimJSONFence strips a markdown code fence some models wrap JSON in
// despite instructions.
func trimJSONFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
