package report

// Action tags a button affordance. The transport layer decodes callback data
// into one of these exactly once; handlers never inspect raw payload strings.
type Action string

const (
	ActionSelectType   Action = "report_type"
	ActionSelectReason Action = "report_reason"
	ActionConfirm      Action = "report_confirm"
	ActionCancel       Action = "report_cancel"
	ActionResolve      Action = "report_resolve"
	ActionReject       Action = "report_reject"
)

// Button is a single selectable affordance attached to a prompt.
type Button struct {
	Label   string
	Action  Action
	Payload string
}

// Prompt is the reply produced by a flow transition: Markdown text plus an
// optional inline keyboard. Rendering and delivery belong to the transport.
type Prompt struct {
	Text     string
	Keyboard [][]Button
}

func cancelRow() []Button {
	return []Button{{Label: "❌ Cancel", Action: ActionCancel}}
}

func typeKeyboard() [][]Button {
	rows := make([][]Button, 0, len(Types)+1)
	for _, t := range Types {
		rows = append(rows, []Button{{Label: t.Label(), Action: ActionSelectType, Payload: string(t)}})
	}
	return append(rows, cancelRow())
}

func reasonKeyboard() [][]Button {
	rows := make([][]Button, 0, len(Reasons)+1)
	for _, r := range Reasons {
		rows = append(rows, []Button{{Label: r.Label(), Action: ActionSelectReason, Payload: string(r)}})
	}
	return append(rows, cancelRow())
}

func confirmKeyboard() [][]Button {
	return [][]Button{{
		{Label: "✅ Confirm", Action: ActionConfirm},
		{Label: "❌ Cancel", Action: ActionCancel},
	}}
}
