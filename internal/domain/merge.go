package domain

import (
	"dario.cat/mergo"
)

// MergeConfig merges a partial configuration patch into the current
// node configuration. Patch keys win; untouched keys survive. The
// input maps are not mutated.
func MergeConfig(current, patch map[string]interface{}) (map[string]interface{}, error) {
	merged := cloneMap(current)
	if merged == nil {
		merged = make(map[string]interface{})
	}
	if err := mergo.Merge(&merged, patch, mergo.WithOverride); err != nil {
		return nil, err
	}
	return merged, nil
}

// MergeSettings fills zero-valued settings fields from the defaults
// table, leaving explicit values alone.
func MergeSettings(s WorkflowSettings) WorkflowSettings {
	defaults := DefaultSettings()
	if err := mergo.Merge(&s, defaults); err != nil {
		return defaults
	}
	return s
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]interface{}); ok {
			out[k] = cloneMap(nested)
			continue
		}
		if list, ok := v.([]interface{}); ok {
			out[k] = append([]interface{}(nil), list...)
			continue
		}
		out[k] = v
	}
	return out
}
