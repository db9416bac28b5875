package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client scores answers and generates tasks by calling an OpenAI-compatible
// LLM endpoint (Ollama, LM Studio, vLLM, etc.).
type Client struct {
	url    string       // e.g. "http://localhost:11434"
	model  string       // e.g. "qwen3-8b"
	client *http.Client // reused across calls
}

// Compile-time checks: *Client satisfies both interfaces.
var (
	_ Scorer        = (*Client)(nil)
	_ TaskGenerator = (*Client)(nil)
)

// NewClient creates a scorer client for the given LLM endpoint
func NewClient(url, model string) *Client {
	return &Client{
		url:   url,
		model: model,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

const maxAttempts = 2

// ScoreAnswer grades a free-text answer on a 0-10 scale.
// It retries once on parse failure (small models sometimes need a second try).
func (c *Client) ScoreAnswer(ctx context.Context, question, answer string) (Score, error) {
	prompt := buildScorePrompt(question, answer)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		raw, err := c.callLLM(ctx, prompt)
		if err != nil {
			return Score{}, &RequestError{Op: "score", Wrapped: err}
		}

		jsonStr := extractJSON(raw)
		if jsonStr == "" {
			lastErr = fmt.Errorf("no JSON object found in response")
			continue
		}

		var score Score
		if err := json.Unmarshal([]byte(jsonStr), &score); err != nil {
			lastErr = fmt.Errorf("invalid JSON from scorer: %w", err)
			continue
		}

		// Clamp to the 0-10 scale the thresholds are defined on
		if score.Value < 0 {
			score.Value = 0
		}
		if score.Value > 10 {
			score.Value = 10
		}

		return score, nil
	}

	return Score{}, &RequestError{Op: "score", Wrapped: lastErr}
}

// ExplainAnswer returns feedback for a wrong multiple-choice answer
func (c *Client) ExplainAnswer(ctx context.Context, question, correctAnswer, givenAnswer string) (string, error) {
	prompt := buildExplainPrompt(question, correctAnswer, givenAnswer)

	raw, err := c.callLLM(ctx, prompt)
	if err != nil {
		return "", &RequestError{Op: "explain", Wrapped: err}
	}

	return strings.TrimSpace(raw), nil
}

// GenerateTasks produces count quiz tasks from the given chunk text
func (c *Client) GenerateTasks(ctx context.Context, chunkText string, count int) ([]GeneratedTask, error) {
	prompt := buildGeneratePrompt(chunkText, count)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		raw, err := c.callLLM(ctx, prompt)
		if err != nil {
			return nil, &RequestError{Op: "generate", Wrapped: err}
		}

		jsonStr := extractJSONArray(raw)
		if jsonStr == "" {
			lastErr = fmt.Errorf("no JSON array found in response")
			continue
		}

		var tasks []GeneratedTask
		if err := json.Unmarshal([]byte(jsonStr), &tasks); err != nil {
			lastErr = fmt.Errorf("invalid JSON from generator: %w", err)
			continue
		}

		valid := tasks[:0]
		for _, task := range tasks {
			if validGeneratedTask(task) {
				valid = append(valid, task)
			}
		}
		if len(valid) == 0 {
			lastErr = fmt.Errorf("generator returned no usable tasks")
			continue
		}

		return valid, nil
	}

	return nil, &RequestError{Op: "generate", Wrapped: lastErr}
}

// validGeneratedTask filters out malformed generator output: multiple-choice
// tasks need at least two options with exactly one flagged correct.
func validGeneratedTask(task GeneratedTask) bool {
	if strings.TrimSpace(task.Question) == "" {
		return false
	}
	switch task.Kind {
	case "free_text":
		return true
	case "multiple_choice":
		if len(task.Options) < 2 {
			return false
		}
		correct := 0
		for _, opt := range task.Options {
			if opt.Correct {
				correct++
			}
		}
		return correct == 1
	default:
		return false
	}
}

// ── LLM communication ───────────────────────────────────────────────────────

type llmRequest struct {
	Model       string       `json:"model"`
	Messages    []llmMessage `json:"messages"`
	Temperature float64      `json:"temperature"`
}

type llmMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type llmResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// callLLM sends a single request to the LLM and returns the raw text response
func (c *Client) callLLM(ctx context.Context, prompt string) (string, error) {
	reqBody := llmRequest{
		Model: c.model,
		Messages: []llmMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("LLM request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("LLM returned status %d", resp.StatusCode)
	}

	var llmResp llmResponse
	if err := json.NewDecoder(resp.Body).Decode(&llmResp); err != nil {
		return "", fmt.Errorf("failed to decode LLM response: %w", err)
	}

	if len(llmResp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}

	content := llmResp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("LLM returned empty content")
	}

	return content, nil
}

// ── Output parsing ──────────────────────────────────────────────────────────

// extractJSON pulls the first JSON object out of a response that may be
// wrapped in prose or markdown code fences.
func extractJSON(s string) string {
	return extractDelimited(s, '{', '}')
}

// extractJSONArray pulls the first JSON array out of a response
func extractJSONArray(s string) string {
	return extractDelimited(s, '[', ']')
}

func extractDelimited(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case !inString && ch == open:
			depth++
		case !inString && ch == close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}

// ── Prompts ─────────────────────────────────────────────────────────────────

func buildScorePrompt(question, answer string) string {
	return fmt.Sprintf(`You are grading a student's answer to a study question.

Question:
%s

Student's answer:
%s

Grade the answer on a 0-10 integer scale, where 10 is a complete correct answer,
8 or above means the answer is essentially correct, 4-7 means partially correct,
and below 4 means incorrect.

Respond with ONLY a JSON object, no other text:
{"score": <0-10>, "feedback": "<one or two sentences explaining what was right or missing>"}`, question, answer)
}

func buildExplainPrompt(question, correctAnswer, givenAnswer string) string {
	return fmt.Sprintf(`A student answered a multiple-choice study question incorrectly.

Question:
%s

Correct answer: %s
Student chose: %s

In one or two sentences, explain why the correct answer is right. Respond with
only the explanation, no preamble.`, question, correctAnswer, givenAnswer)
}

func buildGeneratePrompt(chunkText string, count int) string {
	return fmt.Sprintf(`Create %d quiz tasks from the following study material. Mix
multiple-choice and free-text questions. Every question must be answerable from
the material alone.

Material:
%s

Respond with ONLY a JSON array, no other text. Each element:
{"kind": "multiple_choice", "question": "...", "options": [{"text": "...", "correct": true}, {"text": "...", "correct": false}]}
or
{"kind": "free_text", "question": "..."}

Multiple-choice tasks must have 3-4 options with exactly one marked correct.`, count, chunkText)
}
