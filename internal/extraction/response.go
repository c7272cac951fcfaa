package extraction

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/Fender1992/RemoteFlow/internal/entities"
)

// ModelResponse is the JSON object extraction prompts ask the model for.
type ModelResponse struct {
	Jobs     []entities.RawJob `json:"jobs"`
	Error    string            `json:"error,omitempty"`
	Metadata map[string]any    `json:"metadata,omitempty"`
}

var fencedJSONPattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// ParseModelResponse extracts the result object from free-form model output.
// It tries a fenced json code block first, then the outermost brace-delimited
// substring. Malformed output degrades to an empty result with an explicit
// error marker; this function never fails.
func ParseModelResponse(text string) ModelResponse {

	if match := fencedJSONPattern.FindStringSubmatch(text); match != nil {
		if response, ok := tryDecode(match[1]); ok {
			return response
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		if response, ok := tryDecode(text[start : end+1]); ok {
			return response
		}
	}

	return ModelResponse{Jobs: []entities.RawJob{}, Error: "Failed to parse response"}
}

func tryDecode(candidate string) (ModelResponse, bool) {
	var response ModelResponse
	if err := json.Unmarshal([]byte(candidate), &response); err != nil {
		return ModelResponse{}, false
	}
	return response, true
}
