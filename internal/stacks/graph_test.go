package stacks

import (
	"testing"

	"github.com/sourceplane/deploypipe/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stackNames(specs []model.StackSpec) []string {
	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.Name)
	}
	return names
}

func TestOrder(t *testing.T) {
	tests := []struct {
		name  string
		specs []model.StackSpec
		want  []string
	}{
		{
			name:  "no dependencies keeps declaration order",
			specs: []model.StackSpec{{Name: "b"}, {Name: "a"}, {Name: "c"}},
			want:  []string{"b", "a", "c"},
		},
		{
			name: "dependency declared later",
			specs: []model.StackSpec{
				{Name: "api", DependsOn: []string{"network"}},
				{Name: "network"},
			},
			want: []string{"network", "api"},
		},
		{
			name: "diamond",
			specs: []model.StackSpec{
				{Name: "app", DependsOn: []string{"queue", "db"}},
				{Name: "queue", DependsOn: []string{"vpc"}},
				{Name: "db", DependsOn: []string{"vpc"}},
				{Name: "vpc"},
			},
			want: []string{"vpc", "queue", "db", "app"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ordered, err := Order(tc.specs)
			require.NoError(t, err)
			assert.Equal(t, tc.want, stackNames(ordered))
		})
	}
}

func TestOrder_Errors(t *testing.T) {
	_, err := Order([]model.StackSpec{{Name: "api", DependsOn: []string{"db"}}})
	assert.ErrorContains(t, err, "undeclared stack db")

	_, err = Order([]model.StackSpec{{Name: "api", DependsOn: []string{"api"}}})
	assert.ErrorContains(t, err, "depends on itself")

	_, err = Order([]model.StackSpec{
		{Name: "a", DependsOn: []string{"b"}},
		{Name: "b", DependsOn: []string{"c"}},
		{Name: "c", DependsOn: []string{"a"}},
	})
	assert.ErrorContains(t, err, "stack dependency cycle: a -> b -> c -> a")
}
