package quiz_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type Quiz struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Difficulty    string    `json:"difficulty"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type ChoiceInput struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionInput struct {
	Text      string        `json:"text"`
	TimeLimit float64       `json:"time_limit"`
	Choices   []ChoiceInput `json:"choices"`
}

type CreateQuizRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Questions   []QuestionInput `json:"questions"`
}

type GenerateQuizRequest struct {
	Topic           string  `json:"topic"`
	Count           int     `json:"count"`
	Description     string  `json:"description"`
	TimePerQuestion float64 `json:"time_per_question"`
	PlayerCount     int     `json:"player_count"`
}

func (c *QuizApiClient) ListQuizzes(ctx context.Context) ([]Quiz, error) {
	body, err := c.Get(ctx, QuizzesEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	var quizzes []Quiz
	if err := json.Unmarshal(body, &quizzes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	return quizzes, nil
}

func (c *QuizApiClient) GetQuiz(ctx context.Context, id int) (*Quiz, error) {
	body, err := c.Get(ctx, fmt.Sprintf("%s%d/", QuizzesEndpoint, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz %d: %w", id, err)
	}

	var quiz Quiz
	if err := json.Unmarshal(body, &quiz); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	return &quiz, nil
}

func (c *QuizApiClient) CreateQuiz(ctx context.Context, req CreateQuizRequest) (*Quiz, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := c.Post(ctx, QuizzesEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	var quiz Quiz
	if err := json.Unmarshal(body, &quiz); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	return &quiz, nil
}

// GenerateQuiz asks the server to build a quiz from a topic. Generation runs
// server-side and can take a while, so callers should pass a generous context.
func (c *QuizApiClient) GenerateQuiz(ctx context.Context, req GenerateQuizRequest) (*Quiz, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := c.Post(ctx, GenerateQuizEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to generate quiz: %w", err)
	}

	var quiz Quiz
	if err := json.Unmarshal(body, &quiz); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	return &quiz, nil
}
