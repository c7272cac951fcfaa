package anthropic

type Model string

const (
	//ModelSonnet4 is the default model for vision and computer-use extraction
	ModelSonnet4 Model = "claude-sonnet-4-20250514"
	//ModelHaiku35 is a cheaper model for text-only generation
	ModelHaiku35 Model = "claude-3-5-haiku-20241022"
)

// ContentBlock is one block of a message turn. The same shape covers text,
// image, tool_use and tool_result blocks; unused fields stay empty.
type ContentBlock struct {
	Type      string         `json:"type"`
	Text      string         `json:"text,omitempty"`
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name,omitempty"`
	Input     map[string]any `json:"input,omitempty"`
	Source    *ImageSource   `json:"source,omitempty"`
	ToolUseID string         `json:"tool_use_id,omitempty"`
	Content   []ContentBlock `json:"content,omitempty"`
}

type ImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: "text", Text: text}
}

func ImageBlock(base64PNG string) ContentBlock {
	return ContentBlock{
		Type: "image",
		Source: &ImageSource{
			Type:      "base64",
			MediaType: "image/png",
			Data:      base64PNG,
		},
	}
}

func ToolResultBlock(toolUseID string, content []ContentBlock) ContentBlock {
	return ContentBlock{
		Type:      "tool_result",
		ToolUseID: toolUseID,
		Content:   content,
	}
}

type Message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

func UserMessage(content ...ContentBlock) Message {
	return Message{Role: "user", Content: content}
}

func AssistantMessage(content []ContentBlock) Message {
	return Message{Role: "assistant", Content: content}
}

// Tool describes a built-in tool offered to the model. The worker only ever
// offers the computer (pointer/keyboard) tool.
type Tool struct {
	Type            string `json:"type"`
	Name            string `json:"name"`
	DisplayWidthPx  int    `json:"display_width_px"`
	DisplayHeightPx int    `json:"display_height_px"`
}

func ComputerTool(widthPx, heightPx int) Tool {
	return Tool{
		Type:            "computer_20241022",
		Name:            "computer",
		DisplayWidthPx:  widthPx,
		DisplayHeightPx: heightPx,
	}
}

type MessagesRequest struct {
	Model     Model     `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Tools     []Tool    `json:"tools,omitempty"`
	Messages  []Message `json:"messages"`
}

type MessagesResponse struct {
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

// JoinedText concatenates the text blocks of a response.
func (r *MessagesResponse) JoinedText() string {
	var text string
	for _, block := range r.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text
}

// FirstToolUse returns the first tool_use block, or nil when the model
// answered without requesting an action.
func (r *MessagesResponse) FirstToolUse() *ContentBlock {
	for i := range r.Content {
		if r.Content[i].Type == "tool_use" {
			return &r.Content[i]
		}
	}
	return nil
}
