package mcp

// ResolveProfileParams are the inputs for the resolve_profile tool.
type ResolveProfileParams struct {
	// Path is the file or directory to resolve a profile for.
	Path string `json:"path"`
}

// ResolveProfileResult reports the resolution outcome.
type ResolveProfileResult struct {
	// Kind is one of workspace, directory, rule, or none.
	Kind string `json:"kind"`
	// Profile is the resolved profile name, empty for none.
	Profile string `json:"profile,omitempty"`
	// MatchedPath is the normalized mapping key for directory matches.
	MatchedPath string `json:"matchedPath,omitempty"`
	// MatchedRule is the rule expression for rule matches.
	MatchedRule string `json:"matchedRule,omitempty"`
}

// ApplyProfileParams are the inputs for the apply_profile tool.
type ApplyProfileParams struct {
	// Path is the file or directory to resolve and apply a profile for.
	// Ignored when Profile is set.
	Path string `json:"path,omitempty"`
	// Profile switches to this profile directly, skipping resolution.
	Profile string `json:"profile,omitempty"`
}

// ApplyProfileResult reports the application outcome.
type ApplyProfileResult struct {
	// Status is switched, failed, or skipped when nothing applied.
	Status string `json:"status"`
	// Profile is the profile that was applied or attempted.
	Profile string `json:"profile,omitempty"`
	// Kind is the resolution kind when resolution ran.
	Kind string `json:"kind,omitempty"`
	// Errors lists per-attempt failures for a failed outcome.
	Errors []string `json:"errors,omitempty"`
}

// ListProfilesParams are the inputs for the list_profiles tool.
type ListProfilesParams struct{}

// ListProfilesResult lists the switchable profile names.
type ListProfilesResult struct {
	Profiles []string `json:"profiles"`
}
