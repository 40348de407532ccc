package gemini

import (
	"strings"
	"testing"
)

func TestDecodeFields(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantTotal string
		wantErr   bool
	}{
		{
			name:      "Valid_Schema",
			raw:       `{"invoice_items":"2x Coffee","invoice_date":"2024-01-31","business_name":"unknown","total_amount":"$42.00"}`,
			wantTotal: "$42.00",
		},
		{
			name:    "Not_JSON",
			raw:     "Sure! Here are the extracted fields:",
			wantErr: true,
		},
		{
			name:    "Truncated_JSON",
			raw:     `{"invoice_items":"2x Coffee",`,
			wantErr: true,
		},
		{
			name:    "Empty_Object",
			raw:     `{}`,
			wantErr: true,
		},
		{
			name:    "Empty_Required_Field",
			raw:     `{"invoice_items":"2x Coffee","invoice_date":"","business_name":"unknown","total_amount":"$42.00"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := DecodeFields(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected a schema violation error")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeFields failed: %v", err)
			}
			if fields.TotalAmount != tt.wantTotal {
				t.Errorf("total got %q, want %q", fields.TotalAmount, tt.wantTotal)
			}
		})
	}
}

func TestBuildPrompt_EmbedsContextAndQuery(t *testing.T) {
	prompt := BuildPrompt("Extract relevant details from this business invoice.", "Total: $42.00")

	if !strings.Contains(prompt, "Total: $42.00") {
		t.Error("prompt is missing the retrieved context")
	}
	if !strings.Contains(prompt, "Extract relevant details from this business invoice.") {
		t.Error("prompt is missing the literal query text")
	}
	if !strings.Contains(prompt, "DON'T MAKE UP ANYTHING") {
		t.Error("prompt is missing the anti-fabrication instruction")
	}
}
