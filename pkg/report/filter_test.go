package report

import (
	"testing"

	"github.com/rich-armb/IAM-Reporting-Script/pkg/config"
	"github.com/rich-armb/IAM-Reporting-Script/pkg/model"
)

func TestIsNoise(t *testing.T) {
	tests := []struct {
		name     string
		rules    []config.NoiseRule
		resource model.ResolvedResource
		want     bool
	}{
		{
			name:     "System Project ID",
			rules:    []config.NoiseRule{{ID: ":"}},
			resource: model.ResolvedResource{Ref: proj("sys:1234"), Name: "sys:1234"},
			want:     true,
		},
		{
			name:     "Ordinary Project",
			rules:    []config.NoiseRule{{ID: ":"}},
			resource: model.ResolvedResource{Ref: proj("my-project"), Name: "My Project"},
			want:     false,
		},
		{
			name:     "Name Prefix",
			rules:    []config.NoiseRule{{Name: "^Service Managed"}},
			resource: model.ResolvedResource{Ref: proj("svc-123"), Name: "Service Managed 123"},
			want:     true,
		},
		{
			name:     "Both Patterns Must Match",
			rules:    []config.NoiseRule{{ID: "^svc-", Name: "^Service Managed"}},
			resource: model.ResolvedResource{Ref: proj("svc-123"), Name: "Ordinary Name"},
			want:     false,
		},
		{
			name:     "Second Rule Matches",
			rules:    []config.NoiseRule{{ID: "nomatch"}, {Name: "^Reserved"}},
			resource: model.ResolvedResource{Ref: folder("fld-1"), Name: "Reserved Folder"},
			want:     true,
		},
		{
			name:     "Empty Rule Matches Nothing",
			rules:    []config.NoiseRule{{}},
			resource: model.ResolvedResource{Ref: proj("anything"), Name: "Anything"},
			want:     false,
		},
		{
			name:     "No Rules",
			rules:    nil,
			resource: model.ResolvedResource{Ref: proj("sys:1234"), Name: "sys:1234"},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := NewNoiseFilter(tt.rules)
			if err != nil {
				t.Fatalf("NewNoiseFilter() error = %v", err)
			}
			if got := filter.IsNoise(tt.resource); got != tt.want {
				t.Errorf("IsNoise() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewNoiseFilterInvalidPattern(t *testing.T) {
	if _, err := NewNoiseFilter([]config.NoiseRule{{ID: "("}}); err == nil {
		t.Error("NewNoiseFilter() error = nil, want error for invalid regexp")
	}
	if _, err := NewNoiseFilter([]config.NoiseRule{{Name: "["}}); err == nil {
		t.Error("NewNoiseFilter() error = nil, want error for invalid regexp")
	}
}
