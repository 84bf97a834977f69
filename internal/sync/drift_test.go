package sync

import "testing"

func strPtr(s string) *string { return &s }

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		local    string
		remote   string
		recorded *string
		expected Drift
	}{
		{
			name:     "all equal means no drift",
			local:    "aaa",
			remote:   "aaa",
			recorded: strPtr("aaa"),
			expected: NoDrift,
		},
		{
			name:     "remote has unseen commits",
			local:    "aaa",
			remote:   "bbb",
			recorded: strPtr("aaa"),
			expected: RemoteAhead,
		},
		{
			name:     "no prior sync record",
			local:    "aaa",
			remote:   "aaa",
			recorded: nil,
			expected: NeverSynced,
		},
		{
			name:     "local moved since last sync",
			local:    "bbb",
			remote:   "bbb",
			recorded: strPtr("aaa"),
			expected: LocalAdvanced,
		},
		{
			name:     "remote ahead wins over missing baseline",
			local:    "aaa",
			remote:   "bbb",
			recorded: nil,
			expected: RemoteAhead,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.local, tt.remote, tt.recorded)
			if result != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestDriftDetected(t *testing.T) {
	if NoDrift.Detected() {
		t.Error("NoDrift must not report detected")
	}
	for _, d := range []Drift{RemoteAhead, NeverSynced, LocalAdvanced} {
		if !d.Detected() {
			t.Errorf("%v must report detected", d)
		}
	}
}

func TestDriftString(t *testing.T) {
	tests := []struct {
		drift    Drift
		expected string
	}{
		{NoDrift, "no drift"},
		{RemoteAhead, "remote ahead"},
		{NeverSynced, "never synced"},
		{LocalAdvanced, "local advanced since sync"},
		{Drift(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.drift.String(); got != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, got)
		}
	}
}
