package pipeline

import (
	"errors"
	"fmt"
)

// Validate checks the structural contract the execution engine relies on:
// a wired head, unique stage names and strictly increasing run-orders
// within every stage.
func (p *Pipeline) Validate() error {
	if p == nil {
		return errors.New("pipeline cannot be nil")
	}
	if p.Source.Output.ID == "" {
		return errors.New("source action has no output artifact")
	}
	if p.Synth.Input.ID != p.Source.Output.ID {
		return fmt.Errorf("synth input %q does not consume source output %q", p.Synth.Input.Name, p.Source.Output.Name)
	}
	if p.Synth.Output.ID == "" || p.Synth.Output.ID == p.Source.Output.ID {
		return errors.New("synth action must produce its own output artifact")
	}

	seen := make(map[string]bool, len(p.Stages))
	for i, stage := range p.Stages {
		if stage == nil {
			return fmt.Errorf("stage %d is nil", i)
		}
		if seen[stage.Name] {
			return fmt.Errorf("duplicate stage name: %s", stage.Name)
		}
		seen[stage.Name] = true

		if err := stage.validateRunOrders(); err != nil {
			return fmt.Errorf("stage %s: %w", stage.Name, err)
		}
	}

	return nil
}

func (s *Stage) validateRunOrders() error {
	last := 0
	for _, action := range s.OrderedActions() {
		if action.RunOrder < 1 {
			return fmt.Errorf("action %s has invalid run-order %d", action.Name, action.RunOrder)
		}
		if action.RunOrder == last {
			return fmt.Errorf("run-order %d is used more than once", action.RunOrder)
		}
		last = action.RunOrder
	}
	for i := 1; i < len(s.Actions); i++ {
		if s.Actions[i].RunOrder < s.Actions[i-1].RunOrder {
			return fmt.Errorf("action %s decreases run-order after %s", s.Actions[i].Name, s.Actions[i-1].Name)
		}
	}
	return nil
}
