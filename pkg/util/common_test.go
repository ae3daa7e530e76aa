package util

import (
	"strings"
	"testing"
)

func TestWriteBuildInfo(t *testing.T) {
	tests := []struct {
		name    string
		version string
		date    string
		commit  string
		want    string
	}{
		{
			name:    "all set",
			version: "v1.2.3",
			date:    "2025-06-01",
			commit:  "abc1234",
			want:    "Build version: v1.2.3\nBuild date: 2025-06-01\nBuild commit: abc1234\n",
		},
		{
			name: "empty fields fall back to N/A",
			want: "Build version: N/A\nBuild date: N/A\nBuild commit: N/A\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			WriteBuildInfo(&sb, tt.version, tt.date, tt.commit)
			if sb.String() != tt.want {
				t.Fatalf("output = %q, want %q", sb.String(), tt.want)
			}
		})
	}
}
