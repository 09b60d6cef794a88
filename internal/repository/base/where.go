package base

import (
	"fmt"
	"strings"
)

// Where собирает условия WHERE с позиционными параметрами
type Where struct {
	conds []string
	args  []interface{}
}

// Add appends a condition; every "?" is replaced by the next $n placeholder
func (w *Where) Add(cond string, arg interface{}) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1))
}

// SQL returns the clause including the WHERE keyword, or an empty string
func (w *Where) SQL() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// Args returns the collected arguments
func (w *Where) Args() []interface{} {
	return w.args
}
