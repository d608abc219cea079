package condition

// Case is one branch of a switch node: the literal to compare the
// evaluated field value against, and the output handle taken on a
// match.
type Case struct {
	Value  interface{} `json:"value"`
	Handle string      `json:"handle"`
}

// MatchCase returns the handle of the first case whose value equals
// the evaluated field value; declaration order breaks ties. With no
// match it falls through to the default handle.
func MatchCase(cases []Case, value interface{}, defaultHandle string) string {
	for _, c := range cases {
		if looseEqual(value, c.Value) {
			return c.Handle
		}
	}
	return defaultHandle
}
