package cli

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/ddddddO/gtree"
)

// printTree renders entries (as returned by emsbuild.Listing) below root.
func printTree(w io.Writer, root string, entries []string) error {
	top := gtree.NewRoot(filepath.Base(root))
	nodes := map[string]*gtree.Node{"": top}
	for _, entry := range entries {
		parent := ""
		for _, name := range strings.Split(strings.TrimSuffix(entry, "/"), "/") {
			key := parent + "/" + name
			if _, ok := nodes[key]; !ok {
				nodes[key] = nodes[parent].Add(name)
			}
			parent = key
		}
	}
	return gtree.OutputProgrammably(w, top)
}
