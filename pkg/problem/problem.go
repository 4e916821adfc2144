// Package problem defines the Problem value that crosses the boundary
// between the external loader and the search core: a loader produces a
// Problem value, and the core returns a search result and statistics. It
// has no behavior of its own — just the data a fully loaded, collapsed,
// determinized FOND-HTN problem is made of.
package problem

import (
	"github.com/koalaplan/fondhtn/pkg/catalog"
	"github.com/koalaplan/fondhtn/pkg/facts"
	"github.com/koalaplan/fondhtn/pkg/htn"
)

// Problem is an immutable, fully resolved FOND-HTN problem: the fact
// table and task catalog it was built against, the initial state, and the
// initial task network.
type Problem struct {
	Facts          *facts.Table
	Catalog        *catalog.Catalog
	InitialState   facts.Set
	InitialNetwork *htn.Network
}
