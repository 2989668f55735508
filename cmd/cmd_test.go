package cmd

import (
	"strings"
	"testing"

	"github.com/s0up4200/filmdesk/view"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "7", want: 7},
		{input: " 12 ", want: 12},
		{input: "0", wantErr: true},
		{input: "-3", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseID("film", tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseID(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseID(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseID(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		input   string
		want    view.SortState
		wantErr bool
	}{
		{input: "", want: view.SortState{}},
		{input: "name", want: view.SortState{Key: view.SortByName, Direction: view.SortAsc}},
		{input: "email:asc", want: view.SortState{Key: view.SortByEmail, Direction: view.SortAsc}},
		{input: "status:DESC", want: view.SortState{Key: view.SortByStatus, Direction: view.SortDesc}},
		{input: "phone", wantErr: true},
		{input: "id:sideways", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseSort(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseSort(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSort(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseSort(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestVersionString(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{version: "v1.2.3", want: "filmdesk v1.2.3, built"},
		{version: "1.0.0-rc.1", want: "(pre-release)"},
		{version: "dev", want: "development build (dev)"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			got := versionString(tt.version, "today")
			if !strings.Contains(got, tt.want) {
				t.Errorf("versionString(%q) = %q, want it to contain %q", tt.version, got, tt.want)
			}
		})
	}
}
