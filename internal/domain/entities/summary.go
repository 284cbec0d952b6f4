package entities

import (
	"encoding/json"
	"fmt"
)

// SummaryResult is the structured summary of one meeting transcript.
// It is immutable once created; accessors hand out copies.
type SummaryResult struct {
	summary      string
	keyDecisions []string
	actionItems  []string
}

// NewSummaryResult builds a SummaryResult, copying the input slices
func NewSummaryResult(summary string, keyDecisions, actionItems []string) *SummaryResult {
	return &SummaryResult{
		summary:      summary,
		keyDecisions: cloneStrings(keyDecisions),
		actionItems:  cloneStrings(actionItems),
	}
}

func (r *SummaryResult) Summary() string { return r.summary }

func (r *SummaryResult) KeyDecisions() []string { return cloneStrings(r.keyDecisions) }

func (r *SummaryResult) ActionItems() []string { return cloneStrings(r.actionItems) }

// summaryWire is the JSON shape exchanged with providers and clients.
// Pointers distinguish a missing key from an empty value.
type summaryWire struct {
	Summary      *string   `json:"summary"`
	KeyDecisions *[]string `json:"keyDecisions"`
	ActionItems  *[]string `json:"actionItems"`
}

// MarshalJSON implements json.Marshaler
func (r *SummaryResult) MarshalJSON() ([]byte, error) {
	decisions := cloneStrings(r.keyDecisions)
	actions := cloneStrings(r.actionItems)
	return json.Marshal(summaryWire{
		Summary:      &r.summary,
		KeyDecisions: &decisions,
		ActionItems:  &actions,
	})
}

// ParseSummaryResult decodes a summary object and rejects any payload that
// is not JSON or lacks one of the three keys.
func ParseSummaryResult(data []byte) (*SummaryResult, error) {
	var wire summaryWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: summary is not valid JSON: %v", ErrUpstreamShape, err)
	}
	switch {
	case wire.Summary == nil:
		return nil, fmt.Errorf("%w: missing summary", ErrUpstreamShape)
	case wire.KeyDecisions == nil:
		return nil, fmt.Errorf("%w: missing keyDecisions", ErrUpstreamShape)
	case wire.ActionItems == nil:
		return nil, fmt.Errorf("%w: missing actionItems", ErrUpstreamShape)
	}
	return NewSummaryResult(*wire.Summary, *wire.KeyDecisions, *wire.ActionItems), nil
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
