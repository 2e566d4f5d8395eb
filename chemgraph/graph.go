/*
 * graph.go, part of psfgen.
 *
 * Copyright 2024 The psfgen authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package chemgraph gives a gonum graph view of the bond graph of a structure,
//so gonum's graph algorithms can be used on it.
package chemgraph

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

//Topology is an undirected graph where nodes are atom indexes
//and edges are bonds.
type Topology struct {
	*simple.UndirectedGraph
}

//New builds a Topology with natoms nodes (0 to natoms-1) and the given bonds.
//Bonds to atoms out of range, and self-bonds, are ignored.
func New(natoms int, bonds [][2]int) *Topology {
	T := &Topology{UndirectedGraph: simple.NewUndirectedGraph()}
	for i := 0; i < natoms; i++ {
		T.AddNode(simple.Node(i))
	}
	for _, b := range bonds {
		if b[0] == b[1] || b[0] < 0 || b[1] < 0 || b[0] >= natoms || b[1] >= natoms {
			continue
		}
		T.SetEdge(T.NewEdge(simple.Node(b[0]), simple.Node(b[1])))
	}
	return T
}

//Fragments returns the connected components of the graph, each as a sorted slice
//of atom indexes. Fragments are sorted by their first atom.
func (T *Topology) Fragments() [][]int {
	cc := topo.ConnectedComponents(T.UndirectedGraph)
	ret := make([][]int, 0, len(cc))
	for _, c := range cc {
		ret = append(ret, ids(c))
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i][0] < ret[j][0] })
	return ret
}

func ids(nodes []graph.Node) []int {
	ret := make([]int, 0, len(nodes))
	for _, n := range nodes {
		ret = append(ret, int(n.ID()))
	}
	sort.Ints(ret)
	return ret
}
