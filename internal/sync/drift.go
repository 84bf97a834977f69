package sync

// Drift classifies what the three-way comparison of the published
// branch's local head, its remote head, and the last recorded revision
// observed. An explicit enum rather than nested booleans keeps the
// loop-avoidance invariant auditable: the only value that permits a
// sync is a non-NoDrift classification, and a pass that commits leaves
// local equal to recorded, so the very next invocation classifies
// NoDrift and does nothing.
type Drift int

const (
	// NoDrift means the published branch holds nothing unprocessed.
	NoDrift Drift = iota

	// RemoteAhead means the remote has commits the local branch lacks.
	RemoteAhead

	// NeverSynced means no prior sync has been recorded.
	NeverSynced

	// LocalAdvanced means the local published branch moved since the
	// recorded revision, e.g. someone committed to it directly.
	LocalAdvanced
)

// String returns a human-readable classification.
func (d Drift) String() string {
	switch d {
	case NoDrift:
		return "no drift"
	case RemoteAhead:
		return "remote ahead"
	case NeverSynced:
		return "never synced"
	case LocalAdvanced:
		return "local advanced since sync"
	default:
		return "unknown"
	}
}

// Detected returns true if a sync pass is needed.
func (d Drift) Detected() bool {
	return d != NoDrift
}

// Classify performs the three-way state check. recorded is nil when no
// prior sync state exists. The checks are ordered: an unseen remote
// commit wins over a missing baseline, which wins over local movement.
func Classify(localHead, remoteHead string, recorded *string) Drift {
	if localHead != remoteHead {
		return RemoteAhead
	}
	if recorded == nil {
		return NeverSynced
	}
	if localHead != *recorded {
		return LocalAdvanced
	}
	return NoDrift
}
