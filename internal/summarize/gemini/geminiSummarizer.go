package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/rkondaveeti/IngestAPI/internal/summarize"
	"github.com/rkondaveeti/IngestAPI/pkg/logger_i"
)

const systemInstruction = "You summarize documents. Be factual and concise. " +
	"Do not add information that is not present in the provided text."

const initialPrompt = "Write a concise summary of the following text:\n\n%s"

const refinePrompt = "Here is the summary so far:\n%s\n\n" +
	"Refine it with the additional text below. Keep it concise and only " +
	"change the summary if the new text adds something:\n\n%s"

type engine struct {
	client    *genai.Client
	modelName string
	logger    *logger_i.Logger
}

// NewEngine builds a summarization engine over the Gemini API. Summaries
// are produced refine-style: the first chunk seeds the summary and every
// following chunk folds into it.
func NewEngine(ctx context.Context, apikey string, modelName string) (summarize.Engine, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &engine{
		client:    c,
		modelName: modelName,
		logger:    logger_i.NewLogger("gemini_summarizer"),
	}, nil
}

func (e *engine) Summarize(ctx context.Context, chunkTexts []string) (string, error) {
	if len(chunkTexts) == 0 {
		return "", errors.New("no chunk texts to summarize")
	}
	log := e.logger.WithTrace(ctx)
	log.Debug("summarizing document", "chunks", len(chunkTexts))

	summary, err := e.generate(ctx, fmt.Sprintf(initialPrompt, chunkTexts[0]))
	if err != nil {
		return "", err
	}

	for _, chunk := range chunkTexts[1:] {
		summary, err = e.generate(ctx, fmt.Sprintf(refinePrompt, summary, chunk))
		if err != nil {
			return "", err
		}
	}
	return summary, nil
}

func (e *engine) generate(ctx context.Context, prompt string) (string, error) {
	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
	}

	result, err := e.client.Models.GenerateContent(ctx, e.modelName, genai.Text(prompt), contentConfig)
	if err != nil {
		return "", err
	}
	return result.Text(), nil
}
