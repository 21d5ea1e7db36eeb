package domain

// Domain contains core models shared by the sync runtime.

// BranchParameter describes the tuning values of a single branch.
type BranchParameter struct {
	ID       string  `json:"_id" yaml:"_id"`
	Number   int     `json:"number" yaml:"number"`
	AdminCap int     `json:"adminCap" yaml:"adminCap"`
	Cost     float64 `json:"cost" yaml:"cost"`
	Time     float64 `json:"time" yaml:"time"`
}
