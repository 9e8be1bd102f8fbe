package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Juliussaint/gmianugerah/internal/observability"
	"github.com/Juliussaint/gmianugerah/internal/repository"
	util "github.com/Juliussaint/gmianugerah/pkg/util"
)

// identifierPrefix is the NIJ (Nomor Induk Jemaat) prefix. The full format is
// NIJ-YYYY-NNNNN where NNNNN restarts at 00001 each year.
const identifierPrefix = "NIJ"

// IdentifierAllocator mints member identifiers. Next must run inside the same
// transaction that inserts the member row: the advisory lock it takes is
// transaction scoped, so two concurrent allocations for the same year prefix
// serialize until the winning insert commits or rolls back. An aborted
// transaction releases the lock and its identifier is never visible.
type IdentifierAllocator struct {
	now     func() time.Time
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewIdentifierAllocator builds the allocator.
func NewIdentifierAllocator(logger *zap.Logger, metrics *observability.Metrics) *IdentifierAllocator {
	return &IdentifierAllocator{now: time.Now, logger: logger, metrics: metrics}
}

// Next returns the next free identifier for the current year. The sequence is
// derived from the highest already-assigned identifier rather than a counter
// row, so the member table stays the single source of truth.
func (a *IdentifierAllocator) Next(ctx context.Context, members repository.MemberRepository) (string, error) {
	year := a.now().Year()
	prefix := fmt.Sprintf("%s-%04d-", identifierPrefix, year)

	if err := members.LockIdentifierRange(ctx, prefix); err != nil {
		a.metrics.RecordAllocation("error")
		return "", util.MapPgError(err)
	}

	last, err := members.MaxIdentifier(ctx, prefix)
	if err != nil {
		a.metrics.RecordAllocation("error")
		return "", util.MapPgError(err)
	}

	seq, ok := lastSequence(last)
	if !ok {
		// Data-quality problem, not a caller error: treat the malformed
		// suffix as sequence 0 and keep allocating.
		a.logger.Warn("malformed member identifier suffix, treating as zero",
			zap.String("member_no", last))
		a.metrics.RecordAllocation("malformed_fallback")
	} else {
		a.metrics.RecordAllocation("ok")
	}

	return fmt.Sprintf("%s%05d", prefix, seq+1), nil
}

// lastSequence parses the numeric suffix of the highest existing identifier.
// Empty input (no members this year) is a clean zero; a non-numeric suffix
// reports ok=false so the caller can log it.
func lastSequence(last string) (int, bool) {
	if last == "" {
		return 0, true
	}
	idx := strings.LastIndex(last, "-")
	if idx < 0 || idx == len(last)-1 {
		return 0, false
	}
	seq, err := strconv.Atoi(last[idx+1:])
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}
