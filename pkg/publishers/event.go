package publishers

import (
	"time"

	"github.com/samvad-hq/branch-sync/internal/domain"
)

// Event represents the payload published downstream for one delivered branch.
type Event struct {
	Resource   string                 `json:"resource"`
	StatusCode int                    `json:"status_code"`
	Branch     domain.BranchParameter `json:"branch"`
	FetchedAt  time.Time              `json:"fetched_at"`
}

// NewEvent constructs an Event for the given resource + branch.
func NewEvent(resource string, statusCode int, branch domain.BranchParameter) Event {
	return Event{
		Resource:   resource,
		StatusCode: statusCode,
		Branch:     branch,
		FetchedAt:  time.Now().UTC(),
	}
}
