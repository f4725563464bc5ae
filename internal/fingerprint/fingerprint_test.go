package fingerprint

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"song-deduper/internal/errkind"
)

func TestParseOutput(t *testing.T) {
	tests := []struct {
		name       string
		out        string
		wantErr    bool
		wantDur    float64
		wantFrames []uint32
	}{
		{
			name:       "comma separated",
			out:        "FILE=a.mp3\nDURATION=215.43\nFINGERPRINT=1,2,4294967295\n",
			wantDur:    215.43,
			wantFrames: []uint32{1, 2, 4294967295},
		},
		{
			name:       "space separated integer duration",
			out:        "DURATION=10\nFINGERPRINT=7 8 9",
			wantDur:    10,
			wantFrames: []uint32{7, 8, 9},
		},
		{
			name:    "missing fingerprint",
			out:     "DURATION=10\n",
			wantErr: true,
		},
		{
			name:    "empty fingerprint",
			out:     "DURATION=10\nFINGERPRINT=\n",
			wantErr: true,
		},
		{
			name:    "bad value",
			out:     "DURATION=10\nFINGERPRINT=1,x,3\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp, err := ParseOutput([]byte(tt.out))
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseOutput() expected error, got %+v", fp)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOutput() error = %v", err)
			}
			if fp.Duration != tt.wantDur {
				t.Errorf("Duration = %v, want %v", fp.Duration, tt.wantDur)
			}
			if len(fp.Frames) != len(tt.wantFrames) {
				t.Fatalf("Frames len = %d, want %d", len(fp.Frames), len(tt.wantFrames))
			}
			for i := range tt.wantFrames {
				if fp.Frames[i] != tt.wantFrames[i] {
					t.Errorf("Frames[%d] = %d, want %d", i, fp.Frames[i], tt.wantFrames[i])
				}
			}
		})
	}
}

func TestNewFpcalc_Defaults(t *testing.T) {
	f := NewFpcalc("", 0, 0)
	if f.Path != "fpcalc" {
		t.Errorf("Path = %q, want fpcalc", f.Path)
	}
	if f.Length != DefaultLength {
		t.Errorf("Length = %d, want %d", f.Length, DefaultLength)
	}
	if f.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", f.Timeout, DefaultTimeout)
	}
}

func TestFpcalc_FingerprintFailure(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-fpcalc")
	body := "#!/bin/sh\necho 'ERROR: Could not open the input file' >&2\nexit 2\n"
	if err := os.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatalf("Failed to write script: %v", err)
	}

	f := NewFpcalc(script, 10, 5*time.Second)
	_, err := f.Fingerprint(context.Background(), filepath.Join(dir, "broken.mp3"))
	if err == nil {
		t.Fatal("Fingerprint() expected error")
	}
	if !errors.Is(err, errkind.ErrFingerprint) {
		t.Errorf("Fingerprint() error = %v, want ErrFingerprint", err)
	}
}

func TestFpcalc_FingerprintSuccess(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-fpcalc")
	body := "#!/bin/sh\necho DURATION=3.5\necho FINGERPRINT=5,6,7\n"
	if err := os.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatalf("Failed to write script: %v", err)
	}

	f := NewFpcalc(script, 10, 5*time.Second)
	fp, err := f.Fingerprint(context.Background(), filepath.Join(dir, "song.mp3"))
	if err != nil {
		t.Fatalf("Fingerprint() error = %v", err)
	}
	if fp.Duration != 3.5 || len(fp.Frames) != 3 {
		t.Errorf("Fingerprint() = %+v, want duration 3.5 and 3 frames", fp)
	}
}

func randomFingerprint(r *rand.Rand, n int) Fingerprint {
	frames := make([]uint32, n)
	for i := range frames {
		frames[i] = r.Uint32()
	}
	return Fingerprint{Duration: float64(n) / 8, Frames: frames}
}

func TestSimilarity_Commutative(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		a := randomFingerprint(r, r.Intn(64))
		b := randomFingerprint(r, r.Intn(64))
		if ab, ba := Similarity(a, b), Similarity(b, a); ab != ba {
			t.Fatalf("Similarity(a,b) = %v, Similarity(b,a) = %v", ab, ba)
		}
	}
}

func TestSimilarity_SelfIsMaximal(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		a := randomFingerprint(r, 1+r.Intn(64))
		if got := Similarity(a, a); got != 1.0 {
			t.Fatalf("Similarity(a,a) = %v, want 1", got)
		}
	}
}

func TestSimilarity_Range(t *testing.T) {
	tests := []struct {
		name string
		a, b Fingerprint
		want float64
	}{
		{
			name: "all bits differ",
			a:    Fingerprint{Frames: []uint32{0, 0}},
			b:    Fingerprint{Frames: []uint32{0xFFFFFFFF, 0xFFFFFFFF}},
			want: 0,
		},
		{
			name: "half the frames differ fully",
			a:    Fingerprint{Frames: []uint32{0, 0}},
			b:    Fingerprint{Frames: []uint32{0, 0xFFFFFFFF}},
			want: 0.5,
		},
		{
			name: "trailing frames ignored",
			a:    Fingerprint{Frames: []uint32{1, 2}},
			b:    Fingerprint{Frames: []uint32{1, 2, 3, 4}},
			want: 1,
		},
		{
			name: "empty",
			a:    Fingerprint{},
			b:    Fingerprint{Frames: []uint32{1}},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similarity(tt.a, tt.b); got != tt.want {
				t.Errorf("Similarity() = %v, want %v", got, tt.want)
			}
			if got := (Comparator{}).Similarity(tt.b, tt.a); got != tt.want {
				t.Errorf("Comparator.Similarity() = %v, want %v", got, tt.want)
			}
		})
	}
}
