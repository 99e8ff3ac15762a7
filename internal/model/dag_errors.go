package model

import "fmt"

var errEmptyNodeID = fmt.Errorf("task node id must not be empty")

func errDuplicateNodeID(id string) error {
	return fmt.Errorf("duplicate task node id %q", id)
}

func errDanglingDependency(nodeID, depID string) error {
	return fmt.Errorf("node %q depends on unknown node %q", nodeID, depID)
}
