package condition

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/loomhq/loom/internal/domain"
)

// EvaluateGroup evaluates a condition group directly against a data
// context, without going through the compiled string. Total: missing
// fields, type mismatches, and bad regexes make the individual
// condition false, never an error.
func EvaluateGroup(group domain.ConditionGroup, data map[string]interface{}) bool {
	if group.IsEmpty() {
		return true
	}

	results := make([]bool, 0, len(group.Conditions)+len(group.Groups))
	for _, c := range group.Conditions {
		results = append(results, evaluateCondition(c, data))
	}
	for _, sub := range group.Groups {
		if sub.IsEmpty() {
			continue
		}
		results = append(results, EvaluateGroup(sub, data))
	}
	if len(results) == 0 {
		return true
	}

	if group.Logic == domain.LogicOr {
		for _, r := range results {
			if r {
				return true
			}
		}
		return false
	}
	for _, r := range results {
		if !r {
			return false
		}
	}
	return true
}

func evaluateCondition(c domain.Condition, data map[string]interface{}) bool {
	value, found := Lookup(data, c.Field)

	switch c.Operator {
	case domain.OpEquals:
		return looseEqual(value, c.Value)
	case domain.OpNotEquals:
		return !looseEqual(value, c.Value)
	case domain.OpContains:
		return found && strings.Contains(toString(value), toString(c.Value))
	case domain.OpNotContains:
		return !found || !strings.Contains(toString(value), toString(c.Value))
	case domain.OpStartsWith:
		return found && strings.HasPrefix(toString(value), toString(c.Value))
	case domain.OpEndsWith:
		return found && strings.HasSuffix(toString(value), toString(c.Value))
	case domain.OpGreaterThan, domain.OpLessThan, domain.OpGreaterOrEqual, domain.OpLessOrEqual:
		return compareNumeric(c.Operator, value, c.Value)
	case domain.OpMatches:
		if !found {
			return false
		}
		re, err := regexp.Compile(toString(c.Value))
		if err != nil {
			return false
		}
		return re.MatchString(toString(value))
	case domain.OpIsEmpty:
		return isEmpty(value)
	case domain.OpIsNotEmpty:
		return !isEmpty(value)
	case domain.OpIsTrue:
		return value == true
	case domain.OpIsFalse:
		return value == false
	}
	return true
}

// Lookup resolves a dotted path inside nested maps. The second result
// reports whether the full path existed.
func Lookup(data map[string]interface{}, path string) (interface{}, bool) {
	if path == "" {
		return nil, false
	}
	var current interface{} = data
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func isEmpty(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case []interface{}:
		return len(val) == 0
	case map[string]interface{}:
		return len(val) == 0
	default:
		f, ok := toFloat(v)
		return ok && f == 0
	}
}

// looseEqual matches the way the runtime compares switch-case and
// equality operands: numerics compare by value across int/float
// representations, everything else by string form.
func looseEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af == bf
		}
	}
	return toString(a) == toString(b)
}

func compareNumeric(op domain.ConditionOperator, a, b interface{}) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return false
	}
	switch op {
	case domain.OpGreaterThan:
		return af > bf
	case domain.OpLessThan:
		return af < bf
	case domain.OpGreaterOrEqual:
		return af >= bf
	case domain.OpLessOrEqual:
		return af <= bf
	}
	return false
}

func toFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
