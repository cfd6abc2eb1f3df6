package sampler

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/relabs-tech/berryimu_logger/internal/logfile"
	"github.com/relabs-tech/berryimu_logger/internal/sample"
)

func newTestRotator(t *testing.T, period time.Duration) *logfile.Rotator {
	t.Helper()
	r, err := logfile.NewRotator(logfile.Config{Dir: t.TempDir(), BaseName: "imu", Period: period})
	if err != nil {
		t.Fatalf("NewRotator: %v", err)
	}
	return r
}

// readRun parses every record written across all files of a run, in
// sequence order.
func readRun(t *testing.T, r *logfile.Rotator) []sample.Sample {
	t.Helper()
	entries, err := os.ReadDir(r.SessionDir())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var out []sample.Sample
	for seq := 0; seq < len(entries); seq++ {
		path := filepath.Join(r.SessionDir(), "imu_"+itoa(seq)+".txt")
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("open %s: %v", path, err)
		}
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			var s sample.Sample
			if err := json.Unmarshal(sc.Bytes(), &s); err != nil {
				t.Fatalf("truncated or invalid record in %s: %v", path, err)
			}
			out = append(out, s)
		}
		if err := sc.Err(); err != nil {
			t.Fatalf("scan %s: %v", path, err)
		}
		f.Close()
	}
	return out
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	rot := newTestRotator(t, 0)
	defer rot.Close()
	asm := NewAssembler(&fakeDevice{}, Groups{Acc: true})

	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero frequency", Config{FrequencyHz: 0, Assembler: asm, Rotator: rot}},
		{"negative frequency", Config{FrequencyHz: -10, Assembler: asm, Rotator: rot}},
		{"missing assembler", Config{FrequencyHz: 10, Rotator: rot}},
		{"missing rotator", Config{FrequencyHz: 10, Assembler: asm}},
		{"no groups", Config{FrequencyHz: 10, Assembler: NewAssembler(&fakeDevice{}, Groups{}), Rotator: rot}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.cfg); err == nil {
				t.Error("expected config rejection")
			}
		})
	}
}

func TestTargetInstantsFormExactGrid(t *testing.T) {
	const freq = 200.0
	rot := newTestRotator(t, 0)
	defer rot.Close()

	s, err := New(Config{
		FrequencyHz: freq,
		Assembler:   NewAssembler(&fakeDevice{}, Groups{Acc: true, Gyr: true, Mag: true}),
		Rotator:     rot,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	rot.Close()

	samples := readRun(t, rot)
	if len(samples) < 10 {
		t.Fatalf("got %d samples, want a healthy run", len(samples))
	}

	// Tick i's timestamp is the intended target instant start + i/freq,
	// independent of I/O timing. Record i corresponds to tick i.
	start := samples[0].Time
	for i, smp := range samples {
		want := start.Add(time.Duration(float64(i) / freq * float64(time.Second)))
		if !smp.Time.Equal(want) {
			t.Fatalf("tick %d target = %v, want %v", i, smp.Time, want)
		}
	}
}

func TestSingleReadFailureDoesNotStopRun(t *testing.T) {
	rot := newTestRotator(t, 0)
	defer rot.Close()

	dev := &fakeDevice{failGyr: errors.New("transient bus error")}
	s, err := New(Config{
		FrequencyHz: 500,
		Assembler:   NewAssembler(dev, Groups{Acc: true, Gyr: true, Mag: true}),
		Rotator:     rot,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop returned error for recoverable read failures: %v", err)
	}
	rot.Close()

	samples := readRun(t, rot)
	if len(samples) < 2 {
		t.Fatalf("loop stopped after a read failure: only %d samples", len(samples))
	}
	for i, smp := range samples {
		if smp.Gyr != nil {
			t.Fatalf("sample %d has a gyro group despite the failing reader", i)
		}
		if smp.Acc == nil || smp.Mag == nil {
			t.Fatalf("sample %d lost its healthy groups", i)
		}
		if !smp.Partial() {
			t.Fatalf("sample %d not marked partial", i)
		}
	}
}

func TestStopCompletesInFlightRecord(t *testing.T) {
	rot := newTestRotator(t, 0)
	defer rot.Close()

	// Slow device: every tick overruns, so Stop always lands mid-work.
	dev := &fakeDevice{delay: 5 * time.Millisecond}
	s, err := New(Config{
		FrequencyHz: 1000,
		Assembler:   NewAssembler(dev, Groups{Acc: true, Gyr: true, Mag: true}),
		Rotator:     rot,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(40 * time.Millisecond)
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	rot.Close()

	// Every line must parse: no truncated trailing record.
	raw, err := os.ReadFile(filepath.Join(rot.SessionDir(), "imu_0.txt"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	text := string(raw)
	if len(text) == 0 || !strings.HasSuffix(text, "\n") {
		t.Fatal("file does not end with a complete record")
	}
	for i, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		var smp sample.Sample
		if err := json.Unmarshal([]byte(line), &smp); err != nil {
			t.Fatalf("line %d truncated: %v", i, err)
		}
	}

	// Overruns must not produce catch-up bursts: timestamps stay strictly
	// monotone with no duplicates.
	samples := readRun(t, rot)
	for i := 1; i < len(samples); i++ {
		if !samples[i].Time.After(samples[i-1].Time) {
			t.Fatalf("tick order violated at %d: %v !> %v", i, samples[i].Time, samples[i-1].Time)
		}
	}
}

func TestRotationDuringRunKeepsOrderedUnion(t *testing.T) {
	rot := newTestRotator(t, 30*time.Millisecond)

	s, err := New(Config{
		FrequencyHz: 200,
		Assembler:   NewAssembler(&fakeDevice{}, Groups{Acc: true}),
		Rotator:     rot,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	rot.Close()

	entries, err := os.ReadDir(rot.SessionDir())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("expected rotation to produce multiple files, got %d", len(entries))
	}

	samples := readRun(t, rot)
	// Device values count up once per tick, so the union across files must
	// be the gapless ordered run.
	for i, smp := range samples {
		if smp.Acc.X != int16(i+1) {
			t.Fatalf("sample %d has value %d: rotation lost or reordered records", i, smp.Acc.X)
		}
	}
}

func TestStorageFailureIsFatal(t *testing.T) {
	rot := newTestRotator(t, 10*time.Millisecond)
	defer rot.Close()

	s, err := New(Config{
		FrequencyHz: 200,
		Assembler:   NewAssembler(&fakeDevice{}, Groups{Acc: true}),
		Rotator:     rot,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// Occupy the next rotation slot so the rotation's file open fails.
	// Placed before Start so the very first rotation hits it.
	if err := rot.EnsureOpen(); err != nil {
		t.Fatalf("EnsureOpen: %v", err)
	}
	blocker := filepath.Join(rot.SessionDir(), "imu_1.txt")
	if err := os.WriteFile(blocker, []byte("occupied\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after storage failure")
	}
	if err := s.Stop(); err == nil {
		t.Fatal("Stop must surface the fatal storage error")
	}
	if s.Err() == nil {
		t.Fatal("Err must report the fatal storage error")
	}
}
