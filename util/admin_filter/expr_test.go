package admin_filter_test

import (
	"testing"

	af "AdminFilter/util/admin_filter"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		expr af.Expr
		want string
	}{
		{"nil", nil, ""},
		{"raw", af.Raw("o.id = 1"), "o.id = 1"},
		{"in", af.In{Left: "s_tags", Param: "tags_0"}, "s_tags IN (:tags_0)"},
		{"not in", af.NotIn{Left: "s_tags", Param: "tags_0"}, "s_tags NOT IN (:tags_0)"},
		{"is null identity", af.IsNull{Operand: af.Identity{Alias: "o", Field: "author"}}, "IDENTITY(o.author) IS NULL"},
		{"is empty", af.IsEmpty{Alias: "o", Field: "tags"}, "o.tags IS EMPTY"},
		{"single part composite", af.And{af.Raw("a OR b")}, "a OR b"},
		{"nested composite", af.And{af.Raw("a = 1"), af.Or{af.Raw("b = 2"), af.Raw("c = 3")}}, "a = 1 AND (b = 2 OR c = 3)"},
		{"raw containing or", af.And{af.Raw("a = 1"), af.Raw("b < 2 or b > 3")}, "a = 1 AND (b < 2 or b > 3)"},
		{"single part nested composite", af.Or{af.And{af.Raw("a = 1")}, af.Raw("b = 2")}, "a = 1 OR b = 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, af.Render(tt.expr, nil))
		})
	}
}
