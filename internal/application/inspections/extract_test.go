package inspections

import (
	"errors"
	"testing"

	domai "github.com/bryanwahyu/salvage-vision/internal/domain/ai"
)

func TestExtractAnalysis(t *testing.T) {
	tests := []struct {
		name        string
		reply       string
		wantErr     bool
		wantRaw     string
		wantSummary string
	}{
		{
			name:    "parts key",
			reply:   `{"parts":[{"code":"HOD"}],"vehicle_summary":"front collision"}`,
			wantRaw: `[{"code":"HOD"}]`, wantSummary: "front collision",
		},
		{
			name:    "analysis key fallback",
			reply:   `{"analysis":[{"code":"FBR"}]}`,
			wantRaw: `[{"code":"FBR"}]`,
		},
		{
			name:  "parts preferred over analysis",
			reply: `{"analysis":[{"code":"FBR"}],"parts":[{"code":"HOD"}]}`,
			wantRaw: `[{"code":"HOD"}]`,
		},
		{
			name:    "code fence and prose",
			reply:   "Here is the result:\n```json\n{\"parts\":[]}\n```\nLet me know!",
			wantRaw: `[]`,
		},
		{
			name:    "whole object when no known key",
			reply:   `{"HOD":{"status":"GOOD"}}`,
			wantRaw: `{"HOD":{"status":"GOOD"}}`,
		},
		{
			name:        "summary trimmed",
			reply:       `{"parts":[],"vehicle_summary":"  rear damage  "}`,
			wantRaw:     `[]`,
			wantSummary: "rear damage",
		},
		{name: "no braces", reply: "I cannot analyze these images.", wantErr: true},
		{name: "empty reply", reply: "", wantErr: true},
		{name: "malformed object", reply: `{"parts": [unterminated}`, wantErr: true},
		{name: "brace order reversed", reply: "} nothing {", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractAnalysis(tt.reply)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.Is(err, domai.ErrUnparsableReply) {
					t.Errorf("error = %v, want ErrUnparsableReply", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got.Analysis) != tt.wantRaw {
				t.Errorf("Analysis = %s, want %s", got.Analysis, tt.wantRaw)
			}
			if got.VehicleSummary != tt.wantSummary {
				t.Errorf("VehicleSummary = %q, want %q", got.VehicleSummary, tt.wantSummary)
			}
		})
	}
}

func TestVehicleNameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.iaai.com/VehicleDetail/2021~Toyota~Camry~SE", "2021 Toyota Camry SE"},
		{"https://example.com/lots/abc123", "abc123"},
		{"https://example.com/", "Unknown Vehicle"},
		{"https://example.com", "Unknown Vehicle"},
		{"://bad", "Unknown Vehicle"},
	}
	for _, tt := range tests {
		if got := VehicleNameFromURL(tt.url); got != tt.want {
			t.Errorf("VehicleNameFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
