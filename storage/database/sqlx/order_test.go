package sqlxrepos

import (
	"testing"

	"github.com/trezcool/mazoezi/core"
)

func Test_orderBy(t *testing.T) {
	tests := []struct {
		name      string
		orderings []core.DBOrdering
		want      string
	}{
		{name: "no orderings render nothing", want: ""},
		{
			name:      "descending is the default direction",
			orderings: []core.DBOrdering{{Field: "start_time"}},
			want:      " ORDER BY start_time DESC",
		},
		{
			name:      "ascending",
			orderings: []core.DBOrdering{{Field: "created_at", Ascending: true}},
			want:      " ORDER BY created_at ASC",
		},
		{
			name:      "experiment listing order",
			orderings: expOrdering,
			want:      " ORDER BY created_at ASC, id ASC",
		},
		{
			name:      "submission listing order",
			orderings: subOrdering,
			want:      " ORDER BY start_time ASC, id ASC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := orderBy(tt.orderings...); got != tt.want {
				t.Errorf("orderBy() = %q; want %q", got, tt.want)
			}
		})
	}
}
