package wire

import (
	"encoding/json"

	"github.com/flowlattice/workflowcore/internal/model"
)

type checkDoc struct {
	Status          model.ReportStatus `json:"status"`
	Message         string             `json:"message"`
	Details         []string           `json:"details,omitempty"`
	ExecutionTimeMs int64              `json:"executionTimeMs"`
}

type counterExampleDoc struct {
	FailingMarking     map[string]int `json:"failingMarking"`
	EnabledTransitions []string       `json:"enabledTransitions"`
	PathToFailure      []string       `json:"pathToFailure"`
	Description        string         `json:"description"`
}

type configDoc struct {
	KBound        int                `json:"kBound"`
	MaxTimeMs     int64              `json:"maxTimeMs"`
	EnabledChecks []model.CheckType  `json:"enabledChecks"`
}

type reportDoc struct {
	Status         model.ReportStatus           `json:"status"`
	Checks         map[model.CheckType]checkDoc `json:"checks"`
	CounterExample *counterExampleDoc           `json:"counterExample,omitempty"`
	Hints          []string                     `json:"hints"`
	Config         configDoc                    `json:"config"`
	StatesExplored int                          `json:"statesExplored"`
	PetriNetID     string                       `json:"petriNetId"`
}

// MarshalReport renders a ValidationReport as the §6 ValidationReport JSON
// contract.
func MarshalReport(r model.ValidationReport) ([]byte, error) {
	doc := reportDoc{
		Status:         r.Status,
		Checks:         make(map[model.CheckType]checkDoc, len(r.Checks)),
		Hints:          r.Hints,
		Config:         configDoc{KBound: r.Config.KBound, MaxTimeMs: r.Config.MaxTimeMs, EnabledChecks: r.Config.EnabledChecks},
		StatesExplored: r.StatesExplored,
		PetriNetID:     r.PetriNetID,
	}
	for k, v := range r.Checks {
		doc.Checks[k] = checkDoc{Status: v.Status, Message: v.Message, Details: v.Details, ExecutionTimeMs: v.ExecutionTimeMs}
	}
	if r.Counterexample != nil {
		doc.CounterExample = &counterExampleDoc{
			FailingMarking:     r.Counterexample.FailingMarking,
			EnabledTransitions: r.Counterexample.EnabledTransitions,
			PathToFailure:      r.Counterexample.PathToFailure,
			Description:        r.Counterexample.Description,
		}
	}
	return json.Marshal(doc)
}

// UnmarshalReport parses the §6 ValidationReport JSON contract.
func UnmarshalReport(data []byte) (model.ValidationReport, error) {
	var doc reportDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.ValidationReport{}, err
	}
	report := model.ValidationReport{
		PetriNetID:     doc.PetriNetID,
		Status:         doc.Status,
		Checks:         make(map[model.CheckType]model.CheckResult, len(doc.Checks)),
		Hints:          doc.Hints,
		Config:         model.ValidationConfig{KBound: doc.Config.KBound, MaxTimeMs: doc.Config.MaxTimeMs, EnabledChecks: doc.Config.EnabledChecks},
		StatesExplored: doc.StatesExplored,
	}
	for k, v := range doc.Checks {
		report.Checks[k] = model.CheckResult{Status: v.Status, Message: v.Message, Details: v.Details, ExecutionTimeMs: v.ExecutionTimeMs}
	}
	if doc.CounterExample != nil {
		report.Counterexample = &model.Counterexample{
			FailingMarking:     doc.CounterExample.FailingMarking,
			EnabledTransitions: doc.CounterExample.EnabledTransitions,
			PathToFailure:      doc.CounterExample.PathToFailure,
			Description:        doc.CounterExample.Description,
		}
	}
	return report, nil
}
