package probe

import (
	"strings"
	"testing"
)

func TestClockFromCPUInfo(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantHz uint64
		wantOK bool
	}{
		{
			name: "ghz",
			input: "processor\t: 0\n" +
				"model name\t: Intel(R) Core(TM) i7-8700K CPU @ 3.70GHz\n",
			wantHz: 3_700_000_000,
			wantOK: true,
		},
		{
			name:   "mhz",
			input:  "model name\t: Some CPU @ 800MHz\n",
			wantHz: 800_000_000,
			wantOK: true,
		},
		{
			name:   "plain hz",
			input:  "model name\t: Toy CPU @ 100Hz\n",
			wantHz: 100,
			wantOK: true,
		},
		{
			name:   "no frequency suffix",
			input:  "model name\t: AMD Ryzen 9 5950X 16-Core Processor\n",
			wantOK: false,
		},
		{
			name:   "no model name line",
			input:  "processor\t: 0\nvendor_id\t: GenuineIntel\n",
			wantOK: false,
		},
		{
			name:   "empty",
			input:  "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hz, ok := clockFromCPUInfo(strings.NewReader(tt.input))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && hz != tt.wantHz {
				t.Errorf("hz = %d, want %d", hz, tt.wantHz)
			}
		})
	}
}

func TestValgrindArgv(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		allowASLR bool
		want      []string
	}{
		{
			name: "linux disables aslr via setarch",
			goos: "linux",
			want: []string{"setarch", "x86_64", "-R", "valgrind"},
		},
		{
			name: "freebsd disables aslr via proccontrol",
			goos: "freebsd",
			want: []string{
				"proccontrol", "-m", "aslr", "-s", "disable", "valgrind",
			},
		},
		{
			name: "unsupported platform falls back to plain valgrind",
			goos: "darwin",
			want: []string{"valgrind"},
		},
		{
			name:      "aslr opt-in skips the wrapper",
			goos:      "linux",
			allowASLR: true,
			want:      []string{"valgrind"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := valgrindArgv(tt.goos, "x86_64", tt.allowASLR)

			if len(got) != len(tt.want) {
				t.Fatalf("argv = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("argv = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
