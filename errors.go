package verma_net_radiation

import "fmt"

// MissingInputError reports a required meteorological variable that was
// neither supplied nor derivable from spatial and temporal context. It is
// the only domain error this package produces; failures from collaborators
// propagate unmodified.
type MissingInputError struct {
	// Variable is the long name, e.g. "incoming shortwave radiation".
	Variable string
	// Symbol is the short name, e.g. "SWin".
	Symbol string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%s (%s) not given", e.Variable, e.Symbol)
}
