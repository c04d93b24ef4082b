package scene

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SnapshotNode is one node in a captured scene tree. The snapshot
// exclusively owns its nodes; nothing is shared with the live scene graph.
type SnapshotNode struct {
	UUID     string         `yaml:"uuid"             json:"uuid"`
	TestID   string         `yaml:"testId,omitempty" json:"testId,omitempty"`
	Name     string         `yaml:"name,omitempty"   json:"name,omitempty"`
	Type     string         `yaml:"type"             json:"type"`
	Visible  bool           `yaml:"visible"          json:"visible"`
	Position Vec3           `yaml:"position"         json:"position"`
	Rotation Vec3           `yaml:"rotation"         json:"rotation"`
	Scale    Vec3           `yaml:"scale"            json:"scale"`
	Children []SnapshotNode `yaml:"children,omitempty" json:"children,omitempty"`
}

// SceneSnapshot is an immutable point-in-time capture of a scene tree.
type SceneSnapshot struct {
	Timestamp   int64         `yaml:"ts"          json:"ts"`
	ObjectCount int           `yaml:"objectCount" json:"objectCount"`
	Tree        *SnapshotNode `yaml:"tree"        json:"tree"`
}

// Walk visits every node of the snapshot in pre-order. Returning false
// from visit stops the walk.
func (s *SceneSnapshot) Walk(visit func(n *SnapshotNode) bool) {
	if s == nil || s.Tree == nil {
		return
	}
	walkNode(s.Tree, visit)
}

func walkNode(n *SnapshotNode, visit func(n *SnapshotNode) bool) bool {
	if !visit(n) {
		return false
	}
	for i := range n.Children {
		if !walkNode(&n.Children[i], visit) {
			return false
		}
	}
	return true
}

// Index builds a uuid → node map over the whole tree.
func (s *SceneSnapshot) Index() map[string]*SnapshotNode {
	index := make(map[string]*SnapshotNode)
	s.Walk(func(n *SnapshotNode) bool {
		index[n.UUID] = n
		return true
	})
	return index
}

// UUIDSet returns the set of every uuid in the tree, used as the baseline
// for new-object detection.
func (s *SceneSnapshot) UUIDSet() map[string]bool {
	set := make(map[string]bool)
	s.Walk(func(n *SnapshotNode) bool {
		set[n.UUID] = true
		return true
	})
	return set
}

// NodeCount returns the number of nodes actually present in the tree.
func (s *SceneSnapshot) NodeCount() int {
	count := 0
	s.Walk(func(*SnapshotNode) bool {
		count++
		return true
	})
	return count
}

// Serialize renders the tree to a deterministic, order-preserving string.
// Idle detection compares consecutive frames byte-for-byte, so the output
// must be identical for identical trees. The timestamp is deliberately
// excluded.
func (s *SceneSnapshot) Serialize() string {
	if s == nil || s.Tree == nil {
		return ""
	}
	var b strings.Builder
	serializeNode(&b, s.Tree)
	return b.String()
}

func serializeNode(b *strings.Builder, n *SnapshotNode) {
	fmt.Fprintf(b, "%s|%s|%s|%s|%t|%v|%v|%v[", n.UUID, n.TestID, n.Name, n.Type, n.Visible, n.Position, n.Rotation, n.Scale)
	for i := range n.Children {
		serializeNode(b, &n.Children[i])
	}
	b.WriteByte(']')
}

// MarshalSnapshot encodes a snapshot as compact JSON for persistence.
func MarshalSnapshot(s *SceneSnapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalSnapshot decodes a snapshot previously written by
// MarshalSnapshot, rejecting payloads without a tree.
func UnmarshalSnapshot(data []byte) (*SceneSnapshot, error) {
	var s SceneSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if s.Tree == nil {
		return nil, fmt.Errorf("unmarshal snapshot: missing tree")
	}
	return &s, nil
}
