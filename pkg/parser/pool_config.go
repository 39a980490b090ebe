package parser

import (
	"github.com/gnana997/uxc/pkg/util"
)

// getPoolSize returns the per-language pool size.
//
// A positive override wins; otherwise the size comes from
// util.GetOptimalPoolSize() so the parser pools and the compiler's worker
// limit stay in step. With fewer parsers than workers, workers block
// waiting for a parser to be released.
func getPoolSize(override int) int {
	return util.GetOptimalPoolSizeWithOverride(override)
}
