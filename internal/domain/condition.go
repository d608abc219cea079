package domain

type LogicOperator string

const (
	LogicAnd LogicOperator = "and"
	LogicOr  LogicOperator = "or"
)

type ConditionOperator string

const (
	OpEquals         ConditionOperator = "equals"
	OpNotEquals      ConditionOperator = "notEquals"
	OpContains       ConditionOperator = "contains"
	OpNotContains    ConditionOperator = "notContains"
	OpStartsWith     ConditionOperator = "startsWith"
	OpEndsWith       ConditionOperator = "endsWith"
	OpGreaterThan    ConditionOperator = "greaterThan"
	OpLessThan       ConditionOperator = "lessThan"
	OpGreaterOrEqual ConditionOperator = "greaterOrEqual"
	OpLessOrEqual    ConditionOperator = "lessOrEqual"
	OpMatches        ConditionOperator = "matches"
	OpIsEmpty        ConditionOperator = "isEmpty"
	OpIsNotEmpty     ConditionOperator = "isNotEmpty"
	OpIsTrue         ConditionOperator = "isTrue"
	OpIsFalse        ConditionOperator = "isFalse"
)

// RequiresValue reports whether the operator compares against an
// operand. The four unary operators test the field alone.
func (op ConditionOperator) RequiresValue() bool {
	switch op {
	case OpIsEmpty, OpIsNotEmpty, OpIsTrue, OpIsFalse:
		return false
	}
	return true
}

// Condition is a single field test. Value may be nil for the unary
// operators, and may be absent even for binary ones; the compiler
// must stay total either way.
type Condition struct {
	Field    string            `json:"field"`
	Operator ConditionOperator `json:"operator"`
	Value    interface{}       `json:"value,omitempty"`
}

// ConditionGroup combines conditions (and optionally nested groups)
// under a single logic operator.
type ConditionGroup struct {
	Logic      LogicOperator    `json:"logic"`
	Conditions []Condition      `json:"conditions"`
	Groups     []ConditionGroup `json:"groups,omitempty"`
}

func (g *ConditionGroup) IsEmpty() bool {
	return len(g.Conditions) == 0 && len(g.Groups) == 0
}

// NewConditionGroup returns a fresh empty AND group, the editor's
// starting point for the visual builder.
func NewConditionGroup() ConditionGroup {
	return ConditionGroup{Logic: LogicAnd, Conditions: []Condition{}}
}
