package commander

// SyncCommand requests products synchronization.
type SyncCommand struct {
	// Category limits synchronization to single category. Products outside of it are never removed.
	Category string `json:"category,omitempty"`
	// DryRun counts changes without writing them.
	DryRun bool `json:"dryRun"`
	// ForceUpdate updates products regardless of their update times.
	ForceUpdate bool `json:"forceUpdate"`
}
