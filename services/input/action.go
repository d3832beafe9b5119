package input

import "envpanel-go/errcode"

// Action is what a button does when its press is consumed. Resolved with a
// switch by the control loop; there is no per-button callback table.
type Action uint8

const (
	ActionNone Action = iota
	ActionNextView
	ActionToggleUnit
	ActionToggleLEDs
)

var actionNames = [...]string{
	ActionNone:       "none",
	ActionNextView:   "next_view",
	ActionToggleUnit: "toggle_unit",
	ActionToggleLEDs: "toggle_leds",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// ParseAction maps a configuration name to an Action.
func ParseAction(s string) (Action, error) {
	for i, n := range actionNames {
		if n == s {
			return Action(i), nil
		}
	}
	return ActionNone, errcode.Wrap(errcode.InvalidConfig, "input.ParseAction", s, nil)
}
