package llm

import "context"

// ExtractedFields is the fixed output schema. Every field is a string, a
// field the model could not find in context carries the decline token
// ("unknown") rather than an empty string or a guess.
type ExtractedFields struct {
	InvoiceItems string `json:"invoice_items"`
	InvoiceDate  string `json:"invoice_date"`
	BusinessName string `json:"business_name"`
	TotalAmount  string `json:"total_amount"`
}

// Provider turns retrieved context plus the extraction query into the fixed
// schema. Output that violates the schema is an error, never a partial value.
type Provider interface {
	Extract(ctx context.Context, query string, contextText string) (ExtractedFields, error)
}
