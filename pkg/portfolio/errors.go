package portfolio

import "errors"

var (
	// ErrInvalidHolding indicates a provider produced a malformed holding
	// (empty asset, empty container or negative quantity).
	ErrInvalidHolding = errors.New("portfolio: invalid holding")

	// ErrAllSourcesFailed indicates every configured source failed; no
	// partial snapshot is meaningful in that case.
	ErrAllSourcesFailed = errors.New("portfolio: all sources failed")

	// ErrContainerNotFound indicates the requested container is not part of
	// the current snapshot.
	ErrContainerNotFound = errors.New("portfolio: container not found")

	// ErrUnknownSource indicates no provider is registered for the
	// requested source name.
	ErrUnknownSource = errors.New("portfolio: unknown source")
)

// SourceWarning records a non-fatal per-source failure surfaced alongside a
// partial snapshot.
type SourceWarning struct {
	Source      string `json:"source"`
	ContainerID string `json:"container_id,omitempty"`
	Reason      string `json:"reason"`
}
