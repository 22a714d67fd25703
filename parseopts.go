package symcalc

import (
	"github.com/rs/zerolog"
)

// DefaultMaxDepth is the nesting limit used when no MaxDepth option is given.
const DefaultMaxDepth = 512

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	nofoldopt struct{}
	depthopt  int
	logopt    struct{ log zerolog.Logger }
)

// parsectx holds general data for parsing.
type parsectx struct {
	// names is the set of variable names that have been seen this parse.
	names map[string]bool
	// nofold disables constant folding.
	nofold bool
	// maxdepth is the nesting limit, or 0 for none.
	maxdepth int
	// depth is the current nesting depth.
	depth int
	log   zerolog.Logger
}

func defaultParsectx() parsectx {
	return parsectx{
		names:    make(map[string]bool),
		maxdepth: DefaultMaxDepth,
		log:      zerolog.Nop(),
	}
}

// NoFold disables constant folding. Constant subexpressions are kept as
// operator nodes so that the expression evaluates exactly as written.
func NoFold() ParseOption {
	return nofoldopt{}
}

func (nofoldopt) parseOption(p parsectx) parsectx {
	p.nofold = true
	return p
}

// MaxDepth limits how deeply subexpressions may nest. Parsing input nested
// more deeply returns a *DepthError. A limit of zero or less disables the
// check.
func MaxDepth(n int) ParseOption {
	if n < 0 {
		n = 0
	}
	return depthopt(n)
}

func (o depthopt) parseOption(p parsectx) parsectx {
	p.maxdepth = int(o)
	return p
}

// Logger sets a logger to trace constant folding at debug level.
func Logger(log zerolog.Logger) ParseOption {
	return logopt{log}
}

func (o logopt) parseOption(p parsectx) parsectx {
	p.log = o.log
	return p
}
