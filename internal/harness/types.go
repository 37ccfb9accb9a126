package harness

import "github.com/fluidtypo3/fluxactions/internal/ir"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if the expected items and every assertion matched.
	Pass bool `json:"pass"`

	// Items are the resolved items in output order.
	Items []ir.ResolvedItem `json:"items"`

	// Errors contains expectation and assertion failures.
	Errors []string `json:"errors,omitempty"`

	// RunID is the ID the resolution was recorded under.
	RunID string `json:"run_id"`

	// ConfigHash is the content hash of the resolved field.
	ConfigHash string `json:"config_hash"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Items:  []ir.ResolvedItem{},
		Errors: []string{},
	}
}

// AddError adds a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
