package engine

import (
	"veridata-hq/tabular/pkg/dataset"
	"veridata-hq/tabular/pkg/rules"
)

// rowContext addresses one data row during evaluation. Column lookups go
// through the run's shared resolver so resolution stays cached.
type rowContext struct {
	ds       *dataset.Dataset
	resolver *dataset.Resolver
	row      int
}

// cell returns the cell for a column reference. An unresolvable
// reference yields an empty cell, which makes the referencing condition
// fail open toward "rule does not trigger".
func (rc rowContext) cell(ref dataset.ColumnRef) dataset.Cell {
	idx, err := rc.resolver.Resolve(ref)
	if err != nil {
		return dataset.Cell{}
	}
	return rc.ds.Cell(rc.row, idx)
}

// evaluateConditions evaluates a condition list against a row.
//
// AND requires all conditions true, OR requires at least one. An empty
// condition list evaluates to true, so a conditional rule without
// conditions always triggers.
func evaluateConditions(conds []rules.Condition, combinator rules.Combinator, rc rowContext) bool {
	if len(conds) == 0 {
		return true
	}

	if combinator == rules.CombinatorOr {
		for i := range conds {
			if evaluateCondition(&conds[i], rc) {
				return true
			}
		}
		return false
	}

	for i := range conds {
		if !evaluateCondition(&conds[i], rc) {
			return false
		}
	}
	return true
}

// evaluateCondition evaluates a single condition against a row.
func evaluateCondition(cond *rules.Condition, rc rowContext) bool {
	return evaluateOperator(cond.Operator, rc.cell(cond.Column), cond.Value)
}
