package scorer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare object",
			input:    `{"score": 8, "feedback": "good"}`,
			expected: `{"score": 8, "feedback": "good"}`,
		},
		{
			name:     "wrapped in prose",
			input:    "Here is my grade:\n{\"score\": 5, \"feedback\": \"partial\"}\nHope that helps!",
			expected: `{"score": 5, "feedback": "partial"}`,
		},
		{
			name:     "markdown code fence",
			input:    "```json\n{\"score\": 2, \"feedback\": \"wrong\"}\n```",
			expected: `{"score": 2, "feedback": "wrong"}`,
		},
		{
			name:     "nested object",
			input:    `{"a": {"b": 1}, "c": 2}`,
			expected: `{"a": {"b": 1}, "c": 2}`,
		},
		{
			name:     "brace inside string",
			input:    `{"feedback": "use {braces} carefully", "score": 7}`,
			expected: `{"feedback": "use {braces} carefully", "score": 7}`,
		},
		{
			name:     "escaped quote inside string",
			input:    `{"feedback": "she said \"no\"", "score": 3}`,
			expected: `{"feedback": "she said \"no\"", "score": 3}`,
		},
		{
			name:     "no object",
			input:    "sorry, I cannot grade this",
			expected: "",
		},
		{
			name:     "unterminated object",
			input:    `{"score": 8`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractJSON(tt.input)
			if result != tt.expected {
				t.Errorf("extractJSON() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare array",
			input:    `[{"kind": "free_text", "question": "Why?"}]`,
			expected: `[{"kind": "free_text", "question": "Why?"}]`,
		},
		{
			name:     "wrapped in prose and fences",
			input:    "Sure!\n```json\n[{\"kind\": \"free_text\", \"question\": \"Why?\"}]\n```",
			expected: `[{"kind": "free_text", "question": "Why?"}]`,
		},
		{
			name:     "bracket inside string",
			input:    `[{"question": "what is a[0]?", "kind": "free_text"}]`,
			expected: `[{"question": "what is a[0]?", "kind": "free_text"}]`,
		},
		{
			name:     "no array",
			input:    "no tasks here",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractJSONArray(tt.input)
			if result != tt.expected {
				t.Errorf("extractJSONArray() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestValidGeneratedTask(t *testing.T) {
	tests := []struct {
		name     string
		task     GeneratedTask
		expected bool
	}{
		{
			name:     "free text",
			task:     GeneratedTask{Kind: "free_text", Question: "Explain photosynthesis"},
			expected: true,
		},
		{
			name:     "empty question",
			task:     GeneratedTask{Kind: "free_text", Question: "  "},
			expected: false,
		},
		{
			name: "valid multiple choice",
			task: GeneratedTask{
				Kind:     "multiple_choice",
				Question: "Pick one",
				Options: []GeneratedOption{
					{Text: "a", Correct: true},
					{Text: "b", Correct: false},
				},
			},
			expected: true,
		},
		{
			name: "single option",
			task: GeneratedTask{
				Kind:     "multiple_choice",
				Question: "Pick one",
				Options:  []GeneratedOption{{Text: "a", Correct: true}},
			},
			expected: false,
		},
		{
			name: "no correct option",
			task: GeneratedTask{
				Kind:     "multiple_choice",
				Question: "Pick one",
				Options: []GeneratedOption{
					{Text: "a", Correct: false},
					{Text: "b", Correct: false},
				},
			},
			expected: false,
		},
		{
			name: "two correct options",
			task: GeneratedTask{
				Kind:     "multiple_choice",
				Question: "Pick one",
				Options: []GeneratedOption{
					{Text: "a", Correct: true},
					{Text: "b", Correct: true},
				},
			},
			expected: false,
		},
		{
			name:     "unknown kind",
			task:     GeneratedTask{Kind: "essay", Question: "Write"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validGeneratedTask(tt.task)
			if result != tt.expected {
				t.Errorf("validGeneratedTask() = %v, want %v", result, tt.expected)
			}
		})
	}
}

// chatCompletionServer returns an httptest server that replies to
// /v1/chat/completions with the given message content.
func chatCompletionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestScoreAnswer(t *testing.T) {
	server := chatCompletionServer(t, "Here you go:\n{\"score\": 8, \"feedback\": \"solid answer\"}")
	defer server.Close()

	client := NewClient(server.URL, "test-model")
	score, err := client.ScoreAnswer(context.Background(), "What is Go?", "A programming language")
	if err != nil {
		t.Fatalf("ScoreAnswer() error = %v", err)
	}
	if score.Value != 8 {
		t.Errorf("score = %d, want 8", score.Value)
	}
	if score.Feedback != "solid answer" {
		t.Errorf("feedback = %q, want %q", score.Feedback, "solid answer")
	}
}

func TestScoreAnswerClampsRange(t *testing.T) {
	server := chatCompletionServer(t, `{"score": 15, "feedback": "over-enthusiastic"}`)
	defer server.Close()

	client := NewClient(server.URL, "test-model")
	score, err := client.ScoreAnswer(context.Background(), "Q", "A")
	if err != nil {
		t.Fatalf("ScoreAnswer() error = %v", err)
	}
	if score.Value != 10 {
		t.Errorf("score = %d, want 10 after clamping", score.Value)
	}
}

func TestScoreAnswerServerDown(t *testing.T) {
	server := chatCompletionServer(t, "")
	server.Close()

	client := NewClient(server.URL, "test-model")
	_, err := client.ScoreAnswer(context.Background(), "Q", "A")
	if err == nil {
		t.Fatal("expected error from unreachable server")
	}
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Errorf("expected *RequestError, got %T", err)
	}
}

func TestScoreAnswerUnparseableResponse(t *testing.T) {
	server := chatCompletionServer(t, "I refuse to answer in JSON")
	defer server.Close()

	client := NewClient(server.URL, "test-model")
	_, err := client.ScoreAnswer(context.Background(), "Q", "A")
	if err == nil {
		t.Fatal("expected error for unparseable response")
	}
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Errorf("expected *RequestError, got %T", err)
	}
}

func TestGenerateTasksFiltersInvalid(t *testing.T) {
	content := `[
		{"kind": "free_text", "question": "Explain X"},
		{"kind": "multiple_choice", "question": "Pick", "options": [{"text": "a", "correct": true}, {"text": "b", "correct": false}]},
		{"kind": "multiple_choice", "question": "Broken", "options": [{"text": "only one", "correct": true}]},
		{"kind": "essay", "question": "Unknown kind"}
	]`
	server := chatCompletionServer(t, content)
	defer server.Close()

	client := NewClient(server.URL, "test-model")
	tasks, err := client.GenerateTasks(context.Background(), "some material", 4)
	if err != nil {
		t.Fatalf("GenerateTasks() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 usable tasks, got %d", len(tasks))
	}
	if tasks[0].Kind != "free_text" || tasks[1].Kind != "multiple_choice" {
		t.Errorf("unexpected kinds: %s, %s", tasks[0].Kind, tasks[1].Kind)
	}
}

func TestExplainAnswer(t *testing.T) {
	server := chatCompletionServer(t, "  The capital of France is Paris, not Lyon.\n")
	defer server.Close()

	client := NewClient(server.URL, "test-model")
	feedback, err := client.ExplainAnswer(context.Background(), "Capital of France?", "Paris", "Lyon")
	if err != nil {
		t.Fatalf("ExplainAnswer() error = %v", err)
	}
	expected := "The capital of France is Paris, not Lyon."
	if feedback != expected {
		t.Errorf("feedback = %q, want %q", feedback, expected)
	}
}
