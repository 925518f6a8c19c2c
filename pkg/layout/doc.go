// Package layout computes top-to-bottom layered coordinates for document
// graphs.
//
// # Algorithm
//
// [Compute] follows the usual layered drawing steps, specialized for trees:
//
//  1. Rank assignment: longest path from the sources (transform.AssignLayers).
//     For a document this is the nesting depth.
//  2. Ordering: siblings keep document order. Subtrees stay contiguous, so a
//     tree layout has no crossings.
//  3. Coordinates: leaves take consecutive slots of NodeWidth+NodeSep in
//     depth-first order, parents are centered over their first and last
//     child, and rank r sits at r*(NodeHeight+RankSep).
//
// Positions are the top-left corner of each node box. The defaults (200x40
// boxes, 30px between siblings, 60px between ranks) match the explorer's
// node card.
//
// # Usage
//
//	g := graph.Build(doc)
//	l, err := layout.FromGraph(g, layout.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	pos := l.Positions["root.users.0"]
package layout
