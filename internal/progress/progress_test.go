package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectSymbols(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		caps      TerminalCapabilities
		checkmark string
		failure   string
	}{
		"unicode terminal": {
			caps:      TerminalCapabilities{SupportsUnicode: true},
			checkmark: "✓",
			failure:   "✗",
		},
		"ascii fallback": {
			caps:      TerminalCapabilities{SupportsUnicode: false},
			checkmark: "[OK]",
			failure:   "[FAIL]",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			symbols := SelectSymbols(tt.caps)
			assert.Equal(t, tt.checkmark, symbols.Checkmark)
			assert.Equal(t, tt.failure, symbols.Failure)
		})
	}
}

func TestDisabledIndicatorIsNoOp(t *testing.T) {
	t.Parallel()

	i := NewIndicator(TerminalCapabilities{}, false)
	i.Start("scanning")
	i.Done("scanned")
	i.Fail("failed")
	i.Stop()
	assert.Nil(t, i.spinner)
}

func TestNonTTYIndicatorNeverSpins(t *testing.T) {
	t.Parallel()

	i := NewIndicator(TerminalCapabilities{IsTTY: false}, true)
	i.Start("scanning")
	assert.Nil(t, i.spinner)
	i.Done("scanned")
}
