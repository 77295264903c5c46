package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/shared"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// Writer drafts a short description for a catalog entry.
type Writer interface {
	WriteDescription(ctx context.Context, contentType, name string) (string, error)
}

// WriterOptions configures the chat-completion-backed description writer.
type WriterOptions struct {
	Client       *Client
	Model        string
	Temperature  float64
	SystemPrompt string
}

type completionWriter struct {
	client       *Client
	logger       *logrus.Logger
	model        string
	temperature  float64
	systemPrompt string
}

const (
	defaultWriterSystemPrompt = "You are a copywriter for a gaming portal. Write vivid, concise descriptions in two or three sentences of plain text. Never use markdown or HTML."
	defaultWriterTemperature  = 0.7
)

var subjectLabels = map[string]string{
	"games":    "video game",
	"blogs":    "blog post",
	"products": "gaming product",
}

// NewWriter constructs a Writer backed by the chat completion client.
func NewWriter(opts WriterOptions) (Writer, error) {
	if opts.Client == nil {
		return nil, eris.New("llm client is required")
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		return nil, eris.New("writer model is required")
	}

	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = defaultWriterTemperature
	}

	systemPrompt := strings.TrimSpace(opts.SystemPrompt)
	if systemPrompt == "" {
		systemPrompt = defaultWriterSystemPrompt
	}

	return &completionWriter{
		client:       opts.Client,
		logger:       opts.Client.logger,
		model:        model,
		temperature:  temperature,
		systemPrompt: systemPrompt,
	}, nil
}

func (w *completionWriter) WriteDescription(ctx context.Context, contentType, name string) (string, error) {
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		return "", eris.New("name is required")
	}

	subject := subjectLabels[contentType]
	if subject == "" {
		subject = "catalog entry"
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(w.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(w.systemPrompt),
			openai.UserMessage(fmt.Sprintf("Write a description for the %s titled '%s'.", subject, trimmedName)),
		},
		Temperature: openai.Float(w.temperature),
	}

	completion, err := w.client.chat.New(ctx, params)
	if err != nil {
		w.logError(logrus.Fields{"name": trimmedName}, err, "requesting chat completion")
		return "", eris.Wrap(err, "requesting chat completion")
	}

	if len(completion.Choices) == 0 {
		err := eris.New("llm completion returned no choices")
		w.logError(logrus.Fields{"name": trimmedName}, err, "processing chat completion")
		return "", err
	}

	choice := completion.Choices[0]
	if reason := strings.TrimSpace(choice.FinishReason); strings.EqualFold(reason, "content_filter") {
		err := eris.New("llm blocked the request via content filter")
		w.logError(logrus.Fields{"name": trimmedName}, err, "writer blocked")
		return "", err
	}

	if refusal := strings.TrimSpace(choice.Message.Refusal); refusal != "" {
		err := eris.Errorf("llm refused to write the description: %s", refusal)
		w.logError(logrus.Fields{"name": trimmedName}, err, "writer refused")
		return "", err
	}

	description := strings.TrimSpace(choice.Message.Content)
	if description == "" {
		err := eris.New("llm response content is empty")
		w.logError(logrus.Fields{"name": trimmedName}, err, "processing chat completion")
		return "", err
	}

	return description, nil
}

func (w *completionWriter) logError(fields logrus.Fields, err error, message string) {
	if w.logger == nil || err == nil {
		return
	}

	entry := w.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
