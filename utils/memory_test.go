package utils

import "testing"

func TestMemorySizeString(t *testing.T) {
	tests := []struct {
		in  MemorySize
		out string
	}{
		{0, "0B"},
		{-5, "0B"},
		{512, "512B"},
		{KB, "1K"},
		{1536, "1.50K"},
		{MB, "1M"},
		{5 * GB, "5G"},
		{2 * TB, "2T"},
	}

	for _, tt := range tests {
		t.Run(tt.out, func(t *testing.T) {
			if got := tt.in.String(); got != tt.out {
				t.Errorf("MemorySize(%d).String() = %q, want %q", int64(tt.in), got, tt.out)
			}
		})
	}
}
