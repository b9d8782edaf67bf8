package services

import (
	"fmt"
	"sort"

	"github.com/ghuser/shelfaware/services/inventory/domain"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
)

// ItemTypeNode is one node of the item type tree.
type ItemTypeNode struct {
	Type     *models.ItemType
	Children []*ItemTypeNode
}

// BuildItemTypeTree arranges types into a forest in two passes: an id→node
// map, then children attached by parent id. Types whose parent is unknown
// become roots. Children are sorted by name.
//
// Nodes that are not reachable from any root sit on a parent cycle; they are
// reported with ErrItemTypeCycle.
func BuildItemTypeTree(types []*models.ItemType) ([]*ItemTypeNode, error) {
	nodes := make(map[int64]*ItemTypeNode, len(types))
	for _, t := range types {
		nodes[t.ID] = &ItemTypeNode{Type: t}
	}

	var roots []*ItemTypeNode
	for _, t := range types {
		n := nodes[t.ID]
		if t.ParentID == nil {
			roots = append(roots, n)
			continue
		}
		parent, ok := nodes[*t.ParentID]
		if !ok {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}

	seen := make(map[int64]bool, len(nodes))
	var walk func(n *ItemTypeNode)
	walk = func(n *ItemTypeNode) {
		seen[n.Type.ID] = true
		sortNodes(n.Children)
		for _, c := range n.Children {
			walk(c)
		}
	}
	sortNodes(roots)
	for _, r := range roots {
		walk(r)
	}

	if len(seen) != len(nodes) {
		var cyclic []int64
		for id := range nodes {
			if !seen[id] {
				cyclic = append(cyclic, id)
			}
		}
		sort.Slice(cyclic, func(i, j int) bool { return cyclic[i] < cyclic[j] })
		return roots, fmt.Errorf("%w: types %v", domain.ErrItemTypeCycle, cyclic)
	}
	return roots, nil
}

// WouldCreateCycle reports whether setting id's parent to parentID closes a
// loop, walking parentID's ancestor chain. A chain that already loops
// without passing through id also counts.
func WouldCreateCycle(types []*models.ItemType, id, parentID int64) bool {
	parents := make(map[int64]*int64, len(types))
	for _, t := range types {
		parents[t.ID] = t.ParentID
	}

	visited := make(map[int64]bool)
	for cur := parentID; ; {
		if cur == id || visited[cur] {
			return true
		}
		visited[cur] = true
		next, ok := parents[cur]
		if !ok || next == nil {
			return false
		}
		cur = *next
	}
}

func sortNodes(ns []*ItemTypeNode) {
	sort.Slice(ns, func(i, j int) bool {
		if ns[i].Type.Name != ns[j].Type.Name {
			return ns[i].Type.Name < ns[j].Type.Name
		}
		return ns[i].Type.ID < ns[j].Type.ID
	})
}
