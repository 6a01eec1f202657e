package sqlxrepos

import (
	"strings"

	"github.com/trezcool/mazoezi/core"
)

// orderBy renders an ORDER BY clause from the given orderings.
// An empty call renders nothing.
func orderBy(orderings ...core.DBOrdering) string {
	if len(orderings) == 0 {
		return ""
	}
	strs := make([]string, 0, len(orderings))
	for _, ord := range orderings {
		strs = append(strs, ord.String())
	}
	return " ORDER BY " + strings.Join(strs, ", ")
}
