package stacks

import (
	"fmt"
	"strings"

	"github.com/sourceplane/deploypipe/internal/model"
)

// Graph is the dependency DAG between declared stacks
type Graph struct {
	specs []model.StackSpec
	index map[string]int
}

// NewGraph builds the graph, rejecting dependencies on undeclared stacks
func NewGraph(specs []model.StackSpec) (*Graph, error) {
	g := &Graph{specs: specs, index: make(map[string]int, len(specs))}
	for i, spec := range specs {
		g.index[spec.Name] = i
	}
	for _, spec := range specs {
		for _, dep := range spec.DependsOn {
			if _, ok := g.index[dep]; !ok {
				return nil, fmt.Errorf("stack %s depends on undeclared stack %s", spec.Name, dep)
			}
			if dep == spec.Name {
				return nil, fmt.Errorf("stack %s depends on itself", spec.Name)
			}
		}
	}
	return g, nil
}

// DetectCycles reports the first dependency cycle found, in declaration order
func (g *Graph) DetectCycles() error {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	for _, spec := range g.specs {
		if visited[spec.Name] {
			continue
		}
		if path := g.cycleFrom(spec.Name, visited, recStack, nil); path != nil {
			return fmt.Errorf("stack dependency cycle: %s", strings.Join(path, " -> "))
		}
	}
	return nil
}

// cycleFrom runs a DFS from node and returns the cycle path when one is found
func (g *Graph) cycleFrom(node string, visited, recStack map[string]bool, path []string) []string {
	visited[node] = true
	recStack[node] = true
	path = append(path, node)

	for _, dep := range g.specs[g.index[node]].DependsOn {
		if !visited[dep] {
			if cycle := g.cycleFrom(dep, visited, recStack, path); cycle != nil {
				return cycle
			}
		} else if recStack[dep] {
			return append(path, dep)
		}
	}

	recStack[node] = false
	return nil
}

// TopologicalSort orders stacks so that every stack follows its
// dependencies. Ties keep declaration order.
func (g *Graph) TopologicalSort() ([]model.StackSpec, error) {
	dependents := make(map[string][]string, len(g.specs))
	inDegree := make(map[string]int, len(g.specs))
	for _, spec := range g.specs {
		inDegree[spec.Name] = len(spec.DependsOn)
		for _, dep := range spec.DependsOn {
			dependents[dep] = append(dependents[dep], spec.Name)
		}
	}

	ready := make([]bool, len(g.specs))
	for i, spec := range g.specs {
		ready[i] = inDegree[spec.Name] == 0
	}

	sorted := make([]model.StackSpec, 0, len(g.specs))
	done := make([]bool, len(g.specs))
	for len(sorted) < len(g.specs) {
		next := -1
		for i := range g.specs {
			if ready[i] && !done[i] {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, fmt.Errorf("failed to order stacks: dependency cycle detected")
		}

		done[next] = true
		sorted = append(sorted, g.specs[next])
		for _, dependent := range dependents[g.specs[next].Name] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready[g.index[dependent]] = true
			}
		}
	}

	return sorted, nil
}

// Order validates the stack dependencies and returns the stacks in deployment order
func Order(specs []model.StackSpec) ([]model.StackSpec, error) {
	g, err := NewGraph(specs)
	if err != nil {
		return nil, err
	}
	if err := g.DetectCycles(); err != nil {
		return nil, err
	}
	return g.TopologicalSort()
}
