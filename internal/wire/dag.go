package wire

import (
	"encoding/json"

	"github.com/flowlattice/workflowcore/internal/model"
	werrors "github.com/flowlattice/workflowcore/pkg/errors"
)

type retryDoc struct {
	MaxRetries        int     `json:"maxRetries"`
	RetryDelayMs      int64   `json:"retryDelayMs"`
	BackoffMultiplier float64 `json:"backoffMultiplier"`
}

type taskNodeDoc struct {
	ID               string         `json:"id"`
	Action           string         `json:"action"`
	InputParams      map[string]any `json:"inputParams,omitempty"`
	BeforeHook       string         `json:"beforeHook,omitempty"`
	AfterHook        string         `json:"afterHook,omitempty"`
	Retry            retryDoc       `json:"retry"`
	FallbackPluginID string         `json:"fallbackPluginId,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	DependencyIDs    []string       `json:"dependencyIds"`
}

type dagDoc struct {
	SchemaVersion         string         `json:"schemaVersion"`
	ID                    string         `json:"id"`
	RootNodeID            string         `json:"rootNode,omitempty"`
	DerivedFromPetriNetID string         `json:"derivedFromPetriNetId,omitempty"`
	Metadata              map[string]any `json:"metadata,omitempty"`
	Warnings              []string       `json:"warnings,omitempty"`
	Nodes                 []taskNodeDoc  `json:"nodes"`
}

// MarshalDAG renders a DAG as the JSON shape the `project`/`run` CLI
// commands read and write; every TaskNode's dependencyIds is the
// serialized form of the persistent truth described in §3 (resolved
// cross-references are never serialized, only rebuilt on load).
func MarshalDAG(d *model.DAG) ([]byte, error) {
	doc := dagDoc{
		SchemaVersion:         schemaVersion,
		ID:                    d.ID,
		RootNodeID:            d.RootNodeID,
		DerivedFromPetriNetID: d.DerivedFromPetriNetID,
		Metadata:              d.Metadata,
		Warnings:              d.Warnings,
	}
	for _, n := range d.Nodes() {
		doc.Nodes = append(doc.Nodes, taskNodeDoc{
			ID:               n.ID,
			Action:           n.Action,
			InputParams:      n.InputParams,
			BeforeHook:       n.BeforeHook,
			AfterHook:        n.AfterHook,
			Retry:            retryDoc{MaxRetries: n.Retry.MaxRetries, RetryDelayMs: n.Retry.RetryDelayMs, BackoffMultiplier: n.Retry.BackoffMultiplier},
			FallbackPluginID: n.FallbackPluginID,
			Metadata:         n.Metadata,
			DependencyIDs:    n.DependencyIDsCopy(),
		})
	}
	return json.Marshal(doc)
}

// UnmarshalDAG parses the DAG JSON shape and rebuilds resolved
// dependency/dependent cross-references via DAG.Rebuild before returning.
func UnmarshalDAG(data []byte) (*model.DAG, error) {
	var doc dagDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, werrors.NewValidationError("dag", "invalid dag json: "+err.Error(), "", err)
	}

	dag := model.NewDAG(doc.ID)
	dag.RootNodeID = doc.RootNodeID
	dag.DerivedFromPetriNetID = doc.DerivedFromPetriNetID
	dag.Metadata = doc.Metadata
	dag.Warnings = doc.Warnings

	for _, nd := range doc.Nodes {
		node := &model.TaskNode{
			ID:               nd.ID,
			Action:           nd.Action,
			InputParams:      nd.InputParams,
			BeforeHook:       nd.BeforeHook,
			AfterHook:        nd.AfterHook,
			Retry:            model.RetryConfig{MaxRetries: nd.Retry.MaxRetries, RetryDelayMs: nd.Retry.RetryDelayMs, BackoffMultiplier: nd.Retry.BackoffMultiplier},
			FallbackPluginID: nd.FallbackPluginID,
			Metadata:         nd.Metadata,
			DependencyIDs:    nd.DependencyIDs,
		}
		if err := dag.AddNode(node); err != nil {
			return nil, err
		}
	}
	if err := dag.Rebuild(); err != nil {
		return nil, err
	}
	return dag, nil
}
