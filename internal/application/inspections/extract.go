package inspections

import (
	"encoding/json"
	"fmt"
	"strings"

	domai "github.com/bryanwahyu/salvage-vision/internal/domain/ai"
)

// ExtractedAnalysis is the model reply reduced to the pieces downstream code
// consumes. Analysis keeps whatever shape the model produced; the assembler
// is responsible for defaulting it into the canonical part list.
type ExtractedAnalysis struct {
	Analysis       json.RawMessage
	VehicleSummary string
}

// ExtractAnalysis pulls a JSON object out of a free-form model reply. Models
// wrap their JSON in prose or code fences, so the substring between the first
// '{' and the last '}' is parsed. The per-part list is looked up under
// "parts", then "analysis"; if neither key exists the whole object stands in
// as the result. Absent or malformed JSON is fatal, with no repair attempt.
func ExtractAnalysis(reply string) (*ExtractedAnalysis, error) {
	first := strings.Index(reply, "{")
	last := strings.LastIndex(reply, "}")
	if first == -1 || last == -1 || last < first {
		return nil, fmt.Errorf("%w: no JSON object in reply", domai.ErrUnparsableReply)
	}

	jsonStr := reply[first : last+1]
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", domai.ErrUnparsableReply, err)
	}

	out := &ExtractedAnalysis{}
	if raw, ok := obj["parts"]; ok {
		out.Analysis = raw
	} else if raw, ok := obj["analysis"]; ok {
		out.Analysis = raw
	} else {
		out.Analysis = json.RawMessage(jsonStr)
	}

	if raw, ok := obj["vehicle_summary"]; ok {
		var summary string
		if err := json.Unmarshal(raw, &summary); err == nil {
			out.VehicleSummary = strings.TrimSpace(summary)
		}
	}
	return out, nil
}
