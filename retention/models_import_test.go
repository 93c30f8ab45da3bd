package retention_test

// Blank import triggers retention/models' init(), which registers the
// compiled-in ensembles. This lets package retention's internal test files
// call Lookup without importing retention/models directly (which would
// create an import cycle).
import _ "github.com/msoos/cryptominisat-sub002/retention/models"
