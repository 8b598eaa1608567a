package cli

import (
	"reflect"
	"testing"
	"time"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"APIURL", flags.APIURL, "https://api.unsplash.com"},
		{"PerPage", flags.PerPage, 9},
		{"Debounce", flags.Debounce, 500 * time.Millisecond},
		{"ThumbCacheSize", flags.ThumbCacheSize, 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Everything else starts empty
	if flags.CfgFile != "" || flags.AccessKey != "" || flags.Query != "" {
		t.Error("Expected empty string defaults")
	}
	if flags.Debug || flags.AlwaysShowOverlay {
		t.Error("Expected false boolean defaults")
	}
}
