package entity

// Action определяет, что делать с входящим событием относительно текущего состояния
type Action int

const (
	ActionApply Action = iota
	ActionIgnore
	ActionConflict
)

func (a Action) String() string {
	switch a {
	case ActionApply:
		return "apply"
	case ActionIgnore:
		return "ignore"
	case ActionConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Decision — результат разрешения конфликта между снимком и событием
type Decision struct {
	Action Action
	Reason string
}

var (
	DecisionApply  = Decision{Action: ActionApply}
	DecisionIgnore = Decision{Action: ActionIgnore}
)

// DecisionConflict строит решение-конфликт с причиной
func DecisionConflict(reason string) Decision {
	return Decision{Action: ActionConflict, Reason: reason}
}

// Outcome — итог обработки события движком upsert
type Outcome int

const (
	OutcomeApplied Outcome = iota
	OutcomeIgnored
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Result — итог обработки события вместе с причиной отклонения
type Result struct {
	Outcome Outcome
	Reason  string
}
