package pipeline

import (
	"covid-warehouse/internal/model"
	"covid-warehouse/pkg/utils"
)

// SemiJoin keeps the fact rows whose value in column exists anywhere in the
// dimension's same-named column. Rows that fail the membership test are
// dropped silently, matching inner-join semantics.
//
// The referential check is a single-column membership test. Callers that
// need both date and country integrity apply SemiJoin once per dimension,
// so a row survives when its date exists in the calendar AND its country
// exists in the country dimension, even if that exact pair never co-occurs
// in either dimension. There is no compound (date, country) key.
func SemiJoin(fact model.Table, dim model.Table, column string) model.Table {
	allowed := make(map[string]struct{}, len(dim.Rows))
	for _, row := range dim.Rows {
		if v, ok := row[column]; ok {
			allowed[utils.AsString(v)] = struct{}{}
		}
	}

	out := model.Table{Columns: append([]string(nil), fact.Columns...)}
	for _, row := range fact.Rows {
		v, ok := row[column]
		if !ok {
			continue
		}
		if _, member := allowed[utils.AsString(v)]; member {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
