package identifier

import (
	// 外部依赖
	"context"
	"testing"
	"time"
)

// fakeSequence 按 (name, period) 递增的内存计数器
type fakeSequence struct {
	counters map[string]int64
}

func (f *fakeSequence) Next(_ context.Context, name string, period string) (int64, error) {
	if f.counters == nil {
		f.counters = map[string]int64{}
	}
	key := name + "/" + period
	f.counters[key]++
	return f.counters[key], nil
}

func TestIdentifierFormats(t *testing.T) {
	gen := NewWithRepo(&fakeSequence{})
	ctx := context.Background()
	now := time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		call func() (string, error)
		want string
	}{
		{"sample", func() (string, error) { return gen.NextSampleID(ctx, now) }, "MBL2026080001"},
		{"client_ref", func() (string, error) { return gen.NextClientReference(ctx, now) }, "CR2026080001"},
		{"job", func() (string, error) { return gen.NextJobID(ctx, now) }, "JOB2026080001"},
		{"receipt", func() (string, error) { return gen.NextReceiptNumber(ctx, now) }, "SRF-2026-0001"},
		{"invoice", func() (string, error) { return gen.NextInvoiceNumber(ctx, now) }, "INV-2026-0001"},
	}
	for _, c := range cases {
		got, err := c.call()
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if got != c.want {
			t.Errorf("%s = %s, want %s", c.name, got, c.want)
		}
	}
}

func TestIdentifierSequencesPerPeriod(t *testing.T) {
	gen := NewWithRepo(&fakeSequence{})
	ctx := context.Background()

	aug := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	sep := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	first, err := gen.NextSampleID(ctx, aug)
	if err != nil {
		t.Fatal(err)
	}
	second, err := gen.NextSampleID(ctx, aug)
	if err != nil {
		t.Fatal(err)
	}
	if first != "MBL2026080001" || second != "MBL2026080002" {
		t.Fatalf("same month should increment: %s, %s", first, second)
	}

	// 跨月复位
	next, err := gen.NextSampleID(ctx, sep)
	if err != nil {
		t.Fatal(err)
	}
	if next != "MBL2026090001" {
		t.Fatalf("new month should reset to 0001, got %s", next)
	}

	// 年度编号跨月不复位
	r1, _ := gen.NextReceiptNumber(ctx, aug)
	r2, _ := gen.NextReceiptNumber(ctx, sep)
	if r1 != "SRF-2026-0001" || r2 != "SRF-2026-0002" {
		t.Fatalf("yearly numbers should keep counting within a year: %s, %s", r1, r2)
	}
}
