package fsm

import (
	"bytes"
	"fmt"
	"sort"
)

// Visualize renders the transition table in graphviz DOT format. Edges
// leaving the current state come first.
func Visualize(fsm *FSM) string {
	var buf bytes.Buffer

	type edge struct {
		source, dst State
		event       Event
		internal    bool
	}

	current := fsm.State()
	edges := make([]edge, 0, len(fsm.transitions))
	for k, v := range fsm.transitions {
		edges = append(edges, edge{k.source, v.dstState, k.event, v.isInternal})
	}
	sort.Slice(edges, func(i, j int) bool {
		ci, cj := edges[i].source == current, edges[j].source == current
		if ci != cj {
			return ci
		}
		if edges[i].source != edges[j].source {
			return edges[i].source < edges[j].source
		}
		return edges[i].event < edges[j].event
	})

	buf.WriteString(fmt.Sprintf("digraph %s {\n", fsm.name))

	states := make(map[State]bool)
	for _, e := range edges {
		states[e.source] = true
		states[e.dst] = true
		style := ""
		if e.internal {
			style = `, style = "dashed"`
		}
		buf.WriteString(fmt.Sprintf("    \"%s\" -> \"%s\" [ label = \"%s\"%s ];\n", e.source, e.dst, e.event, style))
	}

	buf.WriteString("\n")

	names := make([]string, 0, len(states))
	for s := range states {
		names = append(names, string(s))
	}
	sort.Strings(names)
	for _, s := range names {
		if State(s) == current {
			buf.WriteString(fmt.Sprintf("    \"%s\" [ shape = \"doublecircle\" ];\n", s))
			continue
		}
		buf.WriteString(fmt.Sprintf("    \"%s\";\n", s))
	}
	buf.WriteString("}\n")

	return buf.String()
}
