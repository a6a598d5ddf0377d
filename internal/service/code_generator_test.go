package service

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func newTestGenerator(seq *fakeSequence) *codeGenerator {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return &codeGenerator{
		seq: seq,
		log: log,
		now: func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) },
	}
}

func TestCodeGeneratorSequence(t *testing.T) {
	seq := &fakeSequence{}
	g := newTestGenerator(seq)

	never := func(string) (bool, error) { return false, nil }
	first, err := g.Generate(context.Background(), CodePrefixInvoice, never)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	second, _ := g.Generate(context.Background(), CodePrefixInvoice, never)

	if first != "INV-20250601-000001" || second != "INV-20250601-000002" {
		t.Errorf("codes = %q, %q", first, second)
	}
	if seq.keys[0] != "INV:20250601" {
		t.Errorf("sequence key = %q", seq.keys[0])
	}
}

func TestCodeGeneratorRetriesOnCollision(t *testing.T) {
	g := newTestGenerator(&fakeSequence{})
	taken := map[string]bool{"BED-20250601-000001": true, "BED-20250601-000002": true}

	code, err := g.Generate(context.Background(), CodePrefixBed, func(c string) (bool, error) { return taken[c], nil })
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if code != "BED-20250601-000003" {
		t.Errorf("code = %q, want third sequence value", code)
	}
}

func TestCodeGeneratorGivesUp(t *testing.T) {
	g := newTestGenerator(&fakeSequence{})
	_, err := g.Generate(context.Background(), CodePrefixRoom, func(string) (bool, error) { return true, nil })
	if err == nil {
		t.Fatal("Generate() succeeded although every code was taken")
	}
}

func TestCodeGeneratorFallback(t *testing.T) {
	g := newTestGenerator(&fakeSequence{err: errBoom})
	code, err := g.Generate(context.Background(), CodePrefixAppointment, func(string) (bool, error) { return false, nil })
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !regexp.MustCompile(`^APT-20250601-[0-9A-F]{6}$`).MatchString(code) {
		t.Errorf("fallback code = %q", code)
	}
	if strings.Count(code, "-") != 2 {
		t.Errorf("fallback code %q has wrong shape", code)
	}
}
