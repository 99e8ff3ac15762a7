package petri

import (
	"fmt"

	"github.com/flowlattice/workflowcore/internal/model"
	werrors "github.com/flowlattice/workflowcore/pkg/errors"
)

// StartPlaceID is the shared source place for steps with no declared
// dependencies.
const StartPlaceID = "p_start"

// DonePlaceID is the shared terminal place every step with no dependents
// feeds into.
const DonePlaceID = "p_done"

// BuildFromIntent constructs a Net from an IntentSpec: one transition per
// step, place-per-dependency-edge wiring so that a step only fires once
// every dependency step has completed, and a shared start/done place pair
// bracketing the whole net. Step.Type is recorded in the transition's
// metadata (intentStepType) but does not change the wiring rule: fan-in and fan-out are
// entirely driven by Dependencies, which is what gives choice/parallel/sync
// steps their fork/join shape once projected.
func BuildFromIntent(spec model.IntentSpec) (*model.Net, error) {
	if len(spec.Steps) == 0 {
		return nil, werrors.NewConstructionError("builder", "intent spec has no steps", "", nil)
	}

	net := model.NewNet(spec.Name, spec.Name)
	if err := net.AddPlace(model.Place{ID: StartPlaceID, Name: "start", Capacity: model.Unbounded}); err != nil {
		return nil, err
	}
	if err := net.AddPlace(model.Place{ID: DonePlaceID, Name: "done", Capacity: model.Unbounded}); err != nil {
		return nil, err
	}

	stepByID := make(map[string]model.IntentStep, len(spec.Steps))
	hasDependent := make(map[string]bool, len(spec.Steps))
	for _, s := range spec.Steps {
		stepByID[s.ID] = s
		for _, dep := range s.Dependencies {
			hasDependent[dep] = true
		}
	}

	for _, s := range spec.Steps {
		if _, ok := net.Transition(s.ID); ok {
			return nil, werrors.NewValidationError("steps", fmt.Sprintf("duplicate step id %q", s.ID), "", nil)
		}
		guard := ""
		if s.Conditions != nil {
			guard = fmt.Sprintf("%v", s.Conditions)
		}
		if err := net.AddTransition(model.Transition{
			ID:       s.ID,
			Name:     s.Description,
			Action:   s.ID,
			Guard:    guard,
			Metadata: map[string]any{"intentStepType": string(s.Type)},
		}); err != nil {
			return nil, err
		}
	}

	for _, s := range spec.Steps {
		if len(s.Dependencies) == 0 {
			if err := net.AddArc(model.Arc{FromID: StartPlaceID, ToID: s.ID, Weight: 1, Kind: model.ArcPlaceToTransition}); err != nil {
				return nil, err
			}
		}
		for _, dep := range s.Dependencies {
			if _, ok := stepByID[dep]; !ok {
				return nil, werrors.NewValidationError("steps", fmt.Sprintf("step %q depends on unknown step %q", s.ID, dep), "", nil)
			}
			placeID := "p_after_" + dep
			if _, exists := net.Place(placeID); !exists {
				if err := net.AddPlace(model.Place{ID: placeID, Name: placeID, Capacity: model.Unbounded}); err != nil {
					return nil, err
				}
				if err := net.AddArc(model.Arc{FromID: dep, ToID: placeID, Weight: 1, Kind: model.ArcTransitionToPlace}); err != nil {
					return nil, err
				}
			}
			if err := net.AddArc(model.Arc{FromID: placeID, ToID: s.ID, Weight: 1, Kind: model.ArcPlaceToTransition}); err != nil {
				return nil, err
			}
		}
		if !hasDependent[s.ID] {
			if err := net.AddArc(model.Arc{FromID: s.ID, ToID: DonePlaceID, Weight: 1, Kind: model.ArcTransitionToPlace}); err != nil {
				return nil, err
			}
		}
	}

	net.InitialMarking = model.NewMarking(map[string]int{StartPlaceID: 1})
	return net, nil
}
