// Package condition transforms the visual condition builder's
// field/operator/value tree into evaluable boolean expressions and
// evaluates them against runtime-shaped data.
//
// Compiled expressions use expr dialect (==, &&, ||, contains,
// startsWith, endsWith, matches), the language the execution runtime
// evaluates edge gates with.
package condition

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/loomhq/loom/internal/domain"
)

// Compile renders a condition group as a boolean expression string.
// Total over the operator set: an empty group compiles to the literal
// "true", and malformed field/value combinations degrade to a valid
// but permissive expression. It never panics.
func Compile(group domain.ConditionGroup) string {
	parts := make([]string, 0, len(group.Conditions)+len(group.Groups))
	for _, c := range group.Conditions {
		parts = append(parts, compileCondition(c))
	}
	for _, sub := range group.Groups {
		if sub.IsEmpty() {
			continue
		}
		parts = append(parts, "("+Compile(sub)+")")
	}
	if len(parts) == 0 {
		return "true"
	}

	joiner := " && "
	if group.Logic == domain.LogicOr {
		joiner = " || "
	}
	return strings.Join(parts, joiner)
}

// Decompile is the reverse direction. Parsing arbitrary boolean
// expressions is deliberately not attempted: the visual builder is
// the source of truth and hand-edited expressions are a one-way
// escape hatch, so any expression comes back as a fresh empty AND
// group. Callers surfacing this to users should warn that the
// expression text will be discarded.
func Decompile(_ string) domain.ConditionGroup {
	return domain.NewConditionGroup()
}

func compileCondition(c domain.Condition) string {
	f := c.Field
	if f == "" {
		// No field to test; permissive rather than crashing.
		return "true"
	}

	switch c.Operator {
	case domain.OpEquals:
		return fmt.Sprintf("%s == %s", f, literal(c.Value, "nil"))
	case domain.OpNotEquals:
		return fmt.Sprintf("%s != %s", f, literal(c.Value, "nil"))
	case domain.OpContains:
		return fmt.Sprintf("(%s != nil && %s contains %s)", f, f, literal(c.Value, `""`))
	case domain.OpNotContains:
		return fmt.Sprintf("(%s == nil || !(%s contains %s))", f, f, literal(c.Value, `""`))
	case domain.OpStartsWith:
		return fmt.Sprintf("(%s != nil && %s startsWith %s)", f, f, literal(c.Value, `""`))
	case domain.OpEndsWith:
		return fmt.Sprintf("(%s != nil && %s endsWith %s)", f, f, literal(c.Value, `""`))
	case domain.OpGreaterThan:
		return fmt.Sprintf("(%s != nil && %s > %s)", f, f, literal(c.Value, "0"))
	case domain.OpLessThan:
		return fmt.Sprintf("(%s != nil && %s < %s)", f, f, literal(c.Value, "0"))
	case domain.OpGreaterOrEqual:
		return fmt.Sprintf("(%s != nil && %s >= %s)", f, f, literal(c.Value, "0"))
	case domain.OpLessOrEqual:
		return fmt.Sprintf("(%s != nil && %s <= %s)", f, f, literal(c.Value, "0"))
	case domain.OpMatches:
		return fmt.Sprintf("(%s != nil && %s matches %s)", f, f, literal(c.Value, `""`))
	case domain.OpIsEmpty:
		return emptinessTest(f)
	case domain.OpIsNotEmpty:
		return "!" + emptinessTest(f)
	case domain.OpIsTrue:
		return fmt.Sprintf("%s == true", f)
	case domain.OpIsFalse:
		return fmt.Sprintf("%s == false", f)
	}
	// Unknown operator: permissive, never an error.
	return "true"
}

// emptinessTest covers every falsy or zero-length shape a runtime
// value can take: nil, blank string, zero, false, and empty
// collections. Must stay in sync with isEmpty in eval.go.
func emptinessTest(f string) string {
	return fmt.Sprintf("(%s == nil || %s == \"\" || %s == 0 || %s == false || %s == [] || %s == {})", f, f, f, f, f, f)
}

// literal renders an operand. Strings are quoted, numbers and bools
// are emitted as-is, anything else falls back to its quoted string
// form so the output always parses.
func literal(v interface{}, missing string) string {
	switch val := v.(type) {
	case nil:
		return missing
	case string:
		return strconv.Quote(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return strconv.Quote(fmt.Sprint(val))
	}
}
