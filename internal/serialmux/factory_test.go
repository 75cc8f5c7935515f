package serialmux

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRealSerialMux_Errors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "ttyACM9")

	tests := []struct {
		name    string
		opts    PortOptions
		wantMsg string
	}{
		{"bad options", PortOptions{DataBits: 9}, "invalid options for " + missing},
		{"missing device", PortOptions{}, "failed to open sensor hub at " + missing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, err := NewRealSerialMux(missing, tt.opts)
			if err == nil {
				mux.Close()
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}
