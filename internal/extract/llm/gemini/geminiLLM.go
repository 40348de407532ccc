package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/akolanti/InvoiceAPI/internal/config"
	"github.com/akolanti/InvoiceAPI/internal/customHttpClient"
	"github.com/akolanti/InvoiceAPI/internal/extract/llm"
	"github.com/akolanti/InvoiceAPI/pkg/logger_i"
	"google.golang.org/genai"
)

// The don't-know instruction is part of the extraction contract: with thin
// context the model must decline with "unknown", and callers treat that as a
// valid answer.
const promptTemplate = `You are an assistant for question-answering tasks.
Use the following pieces of retrieved context to answer
the question. If you don't know the answer, say "unknown". DON'T MAKE UP ANYTHING.

%s

---

Answer the question based on the above context: %s`

type llmClient struct {
	client    *genai.Client
	modelName string
}

var logger *logger_i.Logger
var geminiClient *llmClient
var once sync.Once

var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"invoice_items": {Type: genai.TypeString, Description: "Extract invoice items"},
		"invoice_date":  {Type: genai.TypeString, Description: "Extract invoice date"},
		"business_name": {Type: genai.TypeString, Description: "Extract business name"},
		"total_amount":  {Type: genai.TypeString, Description: "Extract total amount"},
	},
	Required: []string{"invoice_items", "invoice_date", "business_name", "total_amount"},
}

func GetGeminiClient(ctx context.Context, apikey string, modelName string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, apikey, modelName)
	})

	if geminiClient == nil {
		return nil
	}
	return &llmClient{client: geminiClient.client, modelName: geminiClient.modelName}
}

func newGeminiClient(ctx context.Context, apikey string, modelName string) {

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apikey,
		HTTPClient: customHttpClient.Pooled(),
	})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
	}
	if c != nil {
		geminiClient = &llmClient{client: c, modelName: modelName}
		logger.Info("Gemini client created", "model", modelName)
		go closeClient(ctx, geminiClient)
	}

}

func (c *llmClient) Extract(ctx context.Context, query string, contextText string) (llm.ExtractedFields, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	userPrompt := BuildPrompt(query, contextText)

	temperature := config.ModelTemperature
	contentConfig := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	}

	result, err := c.client.Models.GenerateContent(
		ctx,
		c.modelName,
		genai.Text(userPrompt),
		contentConfig,
	)
	if err != nil {
		log.Error("Gemini generation failed", "error", err)
		return llm.ExtractedFields{}, err
	}

	fields, err := DecodeFields(result.Text())
	if err != nil {
		log.Error("Gemini returned output violating the schema", "error", err)
		return llm.ExtractedFields{}, err
	}
	return fields, nil
}

// BuildPrompt embeds retrieved context and the literal query into the fixed
// instruction template.
func BuildPrompt(query string, contextText string) string {
	return fmt.Sprintf(promptTemplate, contextText, query)
}

// DecodeFields parses the model's JSON into the fixed schema. Exported so the
// schema handling stays testable without a live model.
func DecodeFields(raw string) (llm.ExtractedFields, error) {
	var fields llm.ExtractedFields
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return llm.ExtractedFields{}, fmt.Errorf("structured output is not valid JSON: %w", err)
	}
	//every field is required, a model that can't find one must answer with
	//the decline token, an absent or empty field is a contract violation
	if fields.InvoiceItems == "" || fields.InvoiceDate == "" || fields.BusinessName == "" || fields.TotalAmount == "" {
		return llm.ExtractedFields{}, fmt.Errorf("structured output left required fields empty: %q", raw)
	}
	return fields, nil
}

func closeClient(ctx context.Context, l *llmClient) {
	<-ctx.Done()
	logger.Info("Closing Gemini client")
	l.client = nil
	l.modelName = ""
}
