// Package llmjudge scores a finished conversation by asking a chat
// completions model for a structured verdict. The response is constrained to
// the Scorecard schema so parsing can't wander.
package llmjudge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/jinzhu/copier"
	"github.com/vela-voice/vela-core/core/scoring"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultCompletionsURL = "https://api.groq.com/openai/v1/chat/completions"
	defaultModel          = "llama-3.3-70b-versatile"

	systemPrompt = `You are grading a practice conversation between a language
learner (User) and a voice agent (Agent). Score the learner's performance only.
Be encouraging but honest in the commentary.`
)

// Judge grades transcripts through a chat completions endpoint.
type Judge struct {
	apiKey string
	model  string
	url    string

	httpClient *http.Client

	// requestTemplate carries settings shared by every request. It is deep
	// copied per call so concurrent Analyze calls can't race on it.
	requestTemplate requestBody
}

type JudgeOption func(*Judge)

func WithModel(model string) JudgeOption {
	return func(j *Judge) { j.model = model }
}

func WithCompletionsURL(url string) JudgeOption {
	return func(j *Judge) { j.url = url }
}

// NewJudge builds a judge reading its api key from the environment.
func NewJudge(opts ...JudgeOption) (*Judge, error) {
	apiKey, ok := os.LookupEnv("GROQ_API_KEY")
	if !ok {
		return nil, fmt.Errorf("groq api key not found")
	}

	judge := &Judge{
		apiKey:     apiKey,
		model:      defaultModel,
		url:        defaultCompletionsURL,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(judge)
	}

	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(scoring.Scorecard{})
	judge.requestTemplate = requestBody{
		Model: judge.model,
		Messages: []message{{
			Role:    messageRoleSystem,
			Content: systemPrompt,
		}},
		ResponseFormat: &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchemaFormat{
				Name:   "Scorecard",
				Schema: *schema,
				Strict: true,
			},
		},
	}

	return judge, nil
}

// Analyze grades the rendered transcript and returns the parsed scorecard.
func (j *Judge) Analyze(ctx context.Context, transcript string) (*scoring.Scorecard, error) {
	ctx, span := tracer.Start(ctx, "score transcript")
	defer span.End()

	if strings.TrimSpace(transcript) == "" {
		err := fmt.Errorf("transcript is empty")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	reqBody := requestBody{}
	if err := copier.Copy(&reqBody, j.requestTemplate); err != nil {
		return nil, fmt.Errorf("error copying request template: %w", err)
	}
	reqBody.Messages = append(reqBody.Messages, message{
		Role:    messageRoleUser,
		Content: "Grade this conversation:\n\n" + transcript,
	})

	span.SetAttributes(attribute.String("request.model", reqBody.Model))

	requestBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		err = fmt.Errorf("error marshalling JSON: %w", err)
		span.RecordError(err)
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", j.url, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		err = fmt.Errorf("error creating HTTP request: %w", err)
		span.RecordError(err)
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+j.apiKey)

	resp, err := j.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("error sending request: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		if errorBody, readErr := io.ReadAll(resp.Body); readErr == nil {
			span.SetAttributes(attribute.String("response.error", string(errorBody)))
		}
		err := fmt.Errorf("non-OK HTTP status: %s", resp.Status)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("error reading response body: %w", err)
		span.RecordError(err)
		return nil, err
	}

	var respBody responseBody
	if err := json.Unmarshal(respBodyBytes, &respBody); err != nil {
		err = fmt.Errorf("error unmarshalling response: %w", err)
		span.RecordError(err)
		return nil, err
	}
	if len(respBody.Choices) == 0 {
		err := fmt.Errorf("response contained no choices")
		span.RecordError(err)
		return nil, err
	}

	content := respBody.Choices[0].Message.Content
	if split := strings.Split(content, "```"); len(split) > 1 {
		content = split[1]
	}

	scorecard := scoring.Scorecard{}
	if err := json.Unmarshal([]byte(content), &scorecard); err != nil {
		err = fmt.Errorf("error unmarshalling scorecard: %w", err)
		span.RecordError(err)
		return nil, err
	}

	return &scorecard, nil
}
