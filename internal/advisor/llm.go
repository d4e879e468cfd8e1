package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// LLMAdvisor asks an OpenAI-compatible chat endpoint (Ollama, LM Studio,
// vLLM, etc.) for study advice.
type LLMAdvisor struct {
	url    string
	model  string
	client *http.Client
}

var _ Advisor = (*LLMAdvisor)(nil)

// AdviceError reports a model reply that could not be turned into advice.
// Callers fall back to LocalAdvisor.
type AdviceError struct {
	Reason  string
	Wrapped error
}

func (e *AdviceError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("advice failed: %s: %v", e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("advice failed: %s", e.Reason)
}

func (e *AdviceError) Unwrap() error {
	return e.Wrapped
}

func NewLLMAdvisor(url, model string) *LLMAdvisor {
	return &LLMAdvisor{
		url:   strings.TrimRight(url, "/"),
		model: model,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// adviceAttempts covers small models that only produce valid JSON on a
// second try.
const adviceAttempts = 2

// llmAdvice is the JSON shape the prompt asks for.
type llmAdvice struct {
	Summary string   `json:"summary"`
	Focus   []string `json:"focus"`
	Tips    []string `json:"tips"`
}

func (a *LLMAdvisor) Recommend(ctx context.Context, s Summary) (Recommendation, error) {
	prompt := buildAdvicePrompt(s)

	var lastErr error
	for attempt := 1; attempt <= adviceAttempts; attempt++ {
		raw, err := a.chat(ctx, prompt)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		advice, err := parseAdvice(raw)
		if err != nil {
			lastErr = err
			continue
		}
		return Recommendation{
			Text:        composeText(advice),
			FocusTopics: knownTopics(advice.Focus, s),
			Source:      SourceLLM,
		}, nil
	}

	return Recommendation{}, &AdviceError{
		Reason:  fmt.Sprintf("no usable advice after %d attempts", adviceAttempts),
		Wrapped: lastErr,
	}
}

func parseAdvice(raw string) (llmAdvice, error) {
	var advice llmAdvice
	obj := firstJSONObject(raw)
	if obj == "" {
		return advice, &AdviceError{Reason: "reply holds no JSON object"}
	}
	if err := json.Unmarshal([]byte(obj), &advice); err != nil {
		return advice, &AdviceError{Reason: "reply JSON does not match the advice shape", Wrapped: err}
	}
	if strings.TrimSpace(advice.Summary) == "" {
		return advice, &AdviceError{Reason: "advice summary is empty"}
	}
	return advice, nil
}

// firstJSONObject returns the first well-formed JSON object embedded in a
// model reply, skipping any chatter or broken fragments before it.
func firstJSONObject(s string) string {
	for i := strings.IndexByte(s, '{'); i >= 0; {
		var obj json.RawMessage
		if err := json.NewDecoder(strings.NewReader(s[i:])).Decode(&obj); err == nil && len(obj) > 0 && obj[0] == '{' {
			return string(obj)
		}
		next := strings.IndexByte(s[i+1:], '{')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return ""
}

// ── OpenAI-compatible chat call ─────────────────────────────────────────────

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// chat sends one advice prompt and returns the model's reply text.
func (a *LLMAdvisor) chat(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    a.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("encode advice request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build advice request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("advice request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("advice endpoint returned status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode advice reply: %w", err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", errors.New("advice reply is empty")
	}
	return out.Choices[0].Message.Content, nil
}

// ── Prompt ──────────────────────────────────────────────────────────────────

// buildAdvicePrompt hands the model the finished analysis; it only writes
// prose and picks focus topics from the weak list.
func buildAdvicePrompt(s Summary) string {
	var topics strings.Builder
	for _, t := range s.Topics {
		fmt.Fprintf(&topics, "- %s: %d/%d correct\n", t.Topic, t.Correct, t.Attempted)
	}
	if topics.Len() == 0 {
		topics.WriteString("- (no topic data)\n")
	}

	return fmt.Sprintf(`/no_think
You are a study coach for %s exam preparation. Write short, encouraging advice for the next study session.

RULES:
- Only use topic names from the TOPICS list.
- "focus" lists at most 3 topics from WEAK TOPICS, most urgent first.
- Keep "summary" under 60 words.

RESULT: %d/%d correct (%.0f%%)
WEAK TOPICS: %s
STRONG TOPICS: %s

TOPICS:
%s
Respond with ONLY this JSON, no markdown:
{"summary": "...", "focus": ["topic", ...], "tips": ["...", ...]}`,
		s.ExamType, s.Correct, s.Attempted, s.Accuracy*100,
		listOrNone(s.WeakTopics), listOrNone(s.StrongTopics), topics.String())
}

func composeText(a llmAdvice) string {
	text := strings.TrimSpace(a.Summary)
	for _, tip := range a.Tips {
		if tip = strings.TrimSpace(tip); tip != "" {
			text += "\n- " + tip
		}
	}
	return text
}

// knownTopics drops any focus topic the session never saw.
func knownTopics(focus []string, s Summary) []string {
	seen := make(map[string]bool, len(s.Topics))
	for _, t := range s.Topics {
		seen[t.Topic] = true
	}
	out := []string{}
	for _, f := range focus {
		if seen[f] {
			out = append(out, f)
		}
	}
	return out
}

func listOrNone(xs []string) string {
	if len(xs) == 0 {
		return "none"
	}
	return strings.Join(xs, ", ")
}
