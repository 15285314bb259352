package entity

type Action string

const (
	ActionGoto       Action = "goto"
	ActionClick      Action = "click"
	ActionType       Action = "type"
	ActionPress      Action = "press"
	ActionScreenshot Action = "screenshot"
	ActionContent    Action = "content"
	ActionURL        Action = "url"
	ActionBack       Action = "back"
	ActionForward    Action = "forward"
	ActionReload     Action = "reload"
	ActionScroll     Action = "scroll"
)

// Actions lists every action in the order the tool schema declares them.
var Actions = []Action{
	ActionGoto,
	ActionClick,
	ActionType,
	ActionPress,
	ActionScreenshot,
	ActionContent,
	ActionURL,
	ActionBack,
	ActionForward,
	ActionReload,
	ActionScroll,
}

func (a Action) String() string {
	return string(a)
}

func (a Action) Valid() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

const (
	ScrollUp   = "up"
	ScrollDown = "down"

	DefaultScrollDirection = ScrollDown
	DefaultScrollAmount    = 500
)

// Params is the open parameter bag of a browser action. A nil field means the
// caller did not pass it; which fields are required depends on the action.
type Params struct {
	URL       *string
	Selector  *string
	Text      *string
	Key       *string
	FullPage  *bool
	Clean     *bool
	Direction *string
	Amount    *int
}

func (p Params) StringOr(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}

func (p Params) BoolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func (p Params) IntOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func Str(v string) *string { return &v }
func Bool(v bool) *bool    { return &v }
