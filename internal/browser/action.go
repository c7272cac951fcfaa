package browser

import "fmt"

type ActionType string

const (
	Screenshot    ActionType = "screenshot"
	MouseMove     ActionType = "mouse_move"
	LeftClick     ActionType = "left_click"
	LeftClickDrag ActionType = "left_click_drag"
	RightClick    ActionType = "right_click"
	DoubleClick   ActionType = "double_click"
	Scroll        ActionType = "scroll"
	TypeText      ActionType = "type"
	PressKey      ActionType = "key"
)

// Action is one pointer/keyboard instruction decoded from model tool input.
type Action struct {
	Type      ActionType
	X, Y      int
	StartX    int
	StartY    int
	Direction string
	Amount    int
	Text      string
	Key       string
}

// keyNames maps the key names the model emits to the names playwright expects.
var keyNames = map[string]string{
	"Return":    "Enter",
	"space":     "Space",
	"BackSpace": "Backspace",
}

// ParseAction decodes a raw tool input map. An unrecognized action type is an
// error whose message is fed back to the model verbatim.
func ParseAction(input map[string]any) (Action, error) {

	actionType := ActionType(stringValue(input, "action"))

	switch actionType {
	case Screenshot:
		return Action{Type: Screenshot}, nil

	case MouseMove, LeftClick, RightClick, DoubleClick:
		x, y := coordinate(input, "coordinate", 0, 0)
		return Action{Type: actionType, X: x, Y: y}, nil

	case LeftClickDrag:
		startX, startY := coordinate(input, "start_coordinate", 0, 0)
		x, y := coordinate(input, "coordinate", 0, 0)
		return Action{Type: LeftClickDrag, StartX: startX, StartY: startY, X: x, Y: y}, nil

	case Scroll:
		x, y := coordinate(input, "coordinate", 640, 400)
		direction := stringValue(input, "direction")
		if direction == "" {
			direction = "down"
		}
		amount := intValue(input, "amount", 3)
		return Action{Type: Scroll, X: x, Y: y, Direction: direction, Amount: amount}, nil

	case TypeText:
		return Action{Type: TypeText, Text: stringValue(input, "text")}, nil

	case PressKey:
		key := stringValue(input, "key")
		if mapped, ok := keyNames[key]; ok {
			key = mapped
		}
		return Action{Type: PressKey, Key: key}, nil

	default:
		return Action{}, fmt.Errorf("Unknown action type: %v", actionType)
	}
}

func stringValue(input map[string]any, key string) string {
	if value, ok := input[key].(string); ok {
		return value
	}
	return ""
}

func intValue(input map[string]any, key string, fallback int) int {
	switch value := input[key].(type) {
	case float64:
		return int(value)
	case int:
		return value
	default:
		return fallback
	}
}

func coordinate(input map[string]any, key string, defaultX, defaultY int) (int, int) {
	pair, ok := input[key].([]any)
	if !ok || len(pair) < 2 {
		return defaultX, defaultY
	}

	toInt := func(v any, fallback int) int {
		switch value := v.(type) {
		case float64:
			return int(value)
		case int:
			return value
		default:
			return fallback
		}
	}
	return toInt(pair[0], defaultX), toInt(pair[1], defaultY)
}
