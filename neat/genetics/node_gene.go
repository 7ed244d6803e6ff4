package genetics

// NodeGene is a single node in a genome's graph. Ids are dense, assigned at
// genome construction for the bias/input/output nodes and by add-node
// mutation thereafter; they are unique within a genome.
type NodeGene struct {
	// Id is the node's identity within its owning genome.
	Id int
}
