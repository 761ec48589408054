package ast

// NodeID addresses a node inside a Tree. A node keeps its ID for the whole
// lifetime of the tree, including across Replace.
type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }
