package tracing

import (
	"testing"
)

// TestCreateSampler tests sampler creation
func TestCreateSampler(t *testing.T) {
	tests := []struct {
		name    string
		ratio   float64
		wantErr bool
	}{
		{
			name:    "ratio sampler - 0%",
			ratio:   0.0,
			wantErr: false,
		},
		{
			name:    "ratio sampler - 50%",
			ratio:   0.5,
			wantErr: false,
		},
		{
			name:    "ratio sampler - 100%",
			ratio:   1.0,
			wantErr: false,
		},
		{
			name:    "ratio sampler - invalid negative",
			ratio:   -0.1,
			wantErr: true,
		},
		{
			name:    "ratio sampler - invalid > 1",
			ratio:   1.5,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sampler, err := createSampler(tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Errorf("createSampler() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && sampler == nil {
				t.Error("createSampler() returned nil sampler without error")
			}
		})
	}
}

// TestValidateSampleRatio tests sample ratio validation
func TestValidateSampleRatio(t *testing.T) {
	tests := []struct {
		name    string
		ratio   float64
		wantErr bool
	}{
		{name: "zero", ratio: 0.0, wantErr: false},
		{name: "one", ratio: 1.0, wantErr: false},
		{name: "mid", ratio: 0.1, wantErr: false},
		{name: "negative", ratio: -0.1, wantErr: true},
		{name: "too high", ratio: 1.5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSampleRatio(tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSampleRatio() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
