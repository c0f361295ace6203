package summary

import (
	"errors"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		wantErr       bool
		wantSummary   string
		wantTakeaways int
	}{
		{
			name:          "validSummary",
			text:          `{"summary":"S","keyTakeaways":[{"heading":"H1","content":"C1"},{"heading":"H2","content":"C2"}]}`,
			wantSummary:   "S",
			wantTakeaways: 2,
		},
		{
			name:          "extraFieldsIgnored",
			text:          `{"summary":"S","keyTakeaways":[{"heading":"H","content":"C","score":3}],"lang":"en"}`,
			wantSummary:   "S",
			wantTakeaways: 1,
		},
		{
			name:    "notJSON",
			text:    "Here is your summary: ...",
			wantErr: true,
		},
		{
			name:    "emptyText",
			text:    "",
			wantErr: true,
		},
		{
			name:    "missingSummary",
			text:    `{"keyTakeaways":[{"heading":"H","content":"C"}]}`,
			wantErr: true,
		},
		{
			name:    "blankSummary",
			text:    `{"summary":"   ","keyTakeaways":[{"heading":"H","content":"C"}]}`,
			wantErr: true,
		},
		{
			name:    "missingTakeaways",
			text:    `{"summary":"S"}`,
			wantErr: true,
		},
		{
			name:    "takeawaysWrongType",
			text:    `{"summary":"S","keyTakeaways":"Takeaways..."}`,
			wantErr: true,
		},
		{
			name:    "takeawayMissingHeading",
			text:    `{"summary":"S","keyTakeaways":[{"content":"C"}]}`,
			wantErr: true,
		},
		{
			name:    "takeawayMissingContent",
			text:    `{"summary":"S","keyTakeaways":[{"heading":"H"}]}`,
			wantErr: true,
		},
		{
			name:    "summaryWrongType",
			text:    `{"summary":42,"keyTakeaways":[{"heading":"H","content":"C"}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrMalformed) {
					t.Errorf("Decode() error = %v, want ErrMalformed", err)
				}
				return
			}
			if got.Summary != tt.wantSummary {
				t.Errorf("Summary = %q, want %q", got.Summary, tt.wantSummary)
			}
			if len(got.KeyTakeaways) != tt.wantTakeaways {
				t.Errorf("len(KeyTakeaways) = %d, want %d", len(got.KeyTakeaways), tt.wantTakeaways)
			}
		})
	}
}
