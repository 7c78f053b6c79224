package health

import (
	"strings"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrCheckPanicked", ErrCheckPanicked},
		{"ErrNoCheckers", ErrNoCheckers},
		{"ErrUnexpectedStatus", ErrUnexpectedStatus},
		{"ErrNotDirectory", ErrNotDirectory},
		{"ErrIntegrity", ErrIntegrity},
		{"ErrLockTimeout", ErrLockTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Fatalf("%s is nil", tt.name)
			}
			if !strings.HasPrefix(tt.err.Error(), "health: ") {
				t.Errorf("%s message = %q, want health: prefix", tt.name, tt.err.Error())
			}
		})
	}
}
