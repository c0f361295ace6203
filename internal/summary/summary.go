package summary

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// TakeawayCount is how many key takeaways the prompt asks the model for.
const TakeawayCount = 5

var ErrMalformed = errors.New("malformed summary")

type Takeaway struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

type Result struct {
	Summary      string     `json:"summary"`
	KeyTakeaways []Takeaway `json:"keyTakeaways"`
}

// Decode parses the JSON text the model returned and checks it has the
// summary shape. Every failure wraps ErrMalformed.
func Decode(text string) (*Result, error) {
	var result Result
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *Result) Validate() error {
	if strings.TrimSpace(r.Summary) == "" {
		return fmt.Errorf("%w: missing summary", ErrMalformed)
	}
	if len(r.KeyTakeaways) == 0 {
		return fmt.Errorf("%w: missing keyTakeaways", ErrMalformed)
	}
	for i, t := range r.KeyTakeaways {
		if strings.TrimSpace(t.Heading) == "" {
			return fmt.Errorf("%w: takeaway %d has no heading", ErrMalformed, i)
		}
		if strings.TrimSpace(t.Content) == "" {
			return fmt.Errorf("%w: takeaway %d has no content", ErrMalformed, i)
		}
	}
	return nil
}
