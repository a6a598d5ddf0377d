package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clinic-operations/internal/infrastructure/cache"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Human-readable code prefixes.
const (
	CodePrefixAppointment = "APT"
	CodePrefixInvoice     = "INV"
	CodePrefixTransaction = "TXN"
	CodePrefixBed         = "BED"
	CodePrefixRoom        = "ROOM"
	CodePrefixPatient     = "PAT"
)

const maxCodeAttempts = 5

// CodeExistsFunc reports whether a code is already taken.
type CodeExistsFunc func(code string) (bool, error)

// CodeGenerator issues PREFIX-YYYYMMDD-NNNNNN codes. Storage still enforces
// uniqueness with a unique index.
type CodeGenerator interface {
	Generate(ctx context.Context, prefix string, exists CodeExistsFunc) (string, error)
}

type codeGenerator struct {
	seq cache.Sequence
	log *logrus.Logger
	now func() time.Time
}

func NewCodeGenerator(seq cache.Sequence, log *logrus.Logger) CodeGenerator {
	return &codeGenerator{seq: seq, log: log, now: time.Now}
}

func (g *codeGenerator) Generate(ctx context.Context, prefix string, exists CodeExistsFunc) (string, error) {
	day := g.now().UTC().Format("20060102")
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := g.candidate(ctx, prefix, day)
		taken, err := exists(code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
		g.log.Warnf("Generated code %s already exists, retrying", code)
	}
	return "", fmt.Errorf("could not generate a unique %s code after %d attempts", prefix, maxCodeAttempts)
}

// candidate prefers the Redis day sequence and falls back to a uuid-derived
// suffix when Redis is unreachable.
func (g *codeGenerator) candidate(ctx context.Context, prefix, day string) string {
	n, err := g.seq.Next(ctx, prefix+":"+day)
	if err == nil {
		return fmt.Sprintf("%s-%s-%06d", prefix, day, n%1000000)
	}
	g.log.Warnf("Code sequence unavailable, using random suffix: %+v", err)
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s", prefix, day, suffix)
}
