package pipeline

import "sort"

// Stage is one deployment target carrying actions ordered by run-order
type Stage struct {
	Name    string           `json:"name" yaml:"name"`
	Account string           `json:"account" yaml:"account"`
	Region  string           `json:"region" yaml:"region"`
	Bundles []ResourceBundle `json:"bundles,omitempty" yaml:"bundles,omitempty"`
	Actions []Action         `json:"actions" yaml:"actions"`

	nextRunOrder int
}

// NewStage creates an empty stage whose first run-order is 1
func NewStage(name, account, region string) *Stage {
	return &Stage{
		Name:         name,
		Account:      account,
		Region:       region,
		Actions:      make([]Action, 0),
		nextRunOrder: 1,
	}
}

// NextSequentialRunOrder reserves and returns the next free run-order
func (s *Stage) NextSequentialRunOrder() int {
	if s.nextRunOrder < 1 {
		s.nextRunOrder = s.highestRunOrder() + 1
	}
	order := s.nextRunOrder
	s.nextRunOrder++
	return order
}

// AddActions appends actions to the stage. Run-orders past the reserved
// range advance the counter so later reservations never collide.
func (s *Stage) AddActions(actions ...Action) {
	for _, action := range actions {
		s.Actions = append(s.Actions, action)
		if action.RunOrder >= s.nextRunOrder {
			s.nextRunOrder = action.RunOrder + 1
		}
	}
}

// Action returns the first action with the given name, or nil
func (s *Stage) Action(name string) *Action {
	for i := range s.Actions {
		if s.Actions[i].Name == name {
			return &s.Actions[i]
		}
	}
	return nil
}

// OrderedActions returns a copy of the actions sorted by run-order
func (s *Stage) OrderedActions() []Action {
	ordered := make([]Action, len(s.Actions))
	copy(ordered, s.Actions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RunOrder < ordered[j].RunOrder
	})
	return ordered
}

// highestRunOrder restores the counter for stages decoded from a plan file
func (s *Stage) highestRunOrder() int {
	highest := 0
	for _, action := range s.Actions {
		if action.RunOrder > highest {
			highest = action.RunOrder
		}
	}
	return highest
}
