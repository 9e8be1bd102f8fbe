package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Juliussaint/gmianugerah/internal/domain"
	util "github.com/Juliussaint/gmianugerah/pkg/util"
)

type memberFixture struct {
	store    *fakeStore
	service  *MemberService
	sector   *domain.Sector
	sector2  *domain.Sector
	family   *domain.Family
	operator *domain.Operator
	system   *domain.Operator
}

func newMemberFixture(t *testing.T) *memberFixture {
	t.Helper()
	store := newFakeStore()
	sector := store.addSector("Sektor 1")
	sector2 := store.addSector("Sektor 2")
	family := store.addFamily(sector.ID, "Keluarga Siahaan")
	operator := store.addOperator("admin", domain.OperatorRoleAdmin, true)
	system := store.addOperator("system", domain.OperatorRoleSystem, true)

	svc := NewMemberService(MemberDependencies{
		Store:          store,
		Allocator:      NewIdentifierAllocator(zap.NewNop(), nil),
		SystemOperator: "system",
	})
	return &memberFixture{
		store:    store,
		service:  svc,
		sector:   sector,
		sector2:  sector2,
		family:   family,
		operator: operator,
		system:   system,
	}
}

func validCreateInput(f *memberFixture) MemberCreateInput {
	return MemberCreateInput{
		FamilyID:    f.family.ID,
		SectorID:    f.sector.ID,
		FullName:    "Togar Siahaan",
		Gender:      domain.GenderMale,
		FamilyRole:  domain.FamilyRoleOther,
		DateOfBirth: time.Date(1980, 3, 14, 0, 0, 0, 0, time.UTC),
	}
}

func updateInputFrom(member *domain.Member) MemberUpdateInput {
	return MemberUpdateInput{
		FamilyID:         member.FamilyID,
		SectorID:         member.CurrentSectorID,
		FullName:         member.FullName,
		Gender:           member.Gender,
		FamilyRole:       member.FamilyRole,
		BirthOrder:       member.BirthOrder,
		BloodType:        member.BloodType,
		DateOfBirth:      member.DateOfBirth,
		PhoneNumber:      member.PhoneNumber,
		Email:            member.Email,
		MembershipStatus: member.MembershipStatus,
	}
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *util.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Code
}

func TestRegisterAllocatesSequentialIdentifiers(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()
	prefix := fmt.Sprintf("NIJ-%04d-", time.Now().Year())

	first, err := f.service.Register(ctx, validCreateInput(f))
	require.NoError(t, err)
	second, err := f.service.Register(ctx, validCreateInput(f))
	require.NoError(t, err)

	assert.Equal(t, prefix+"00001", first.MemberNo)
	assert.Equal(t, prefix+"00002", second.MemberNo)
}

func TestRegisterWritesFoundingLedgerEntry(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()

	member, err := f.service.Register(ctx, validCreateInput(f))
	require.NoError(t, err)

	entries, err := f.store.history.ListByMember(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	founding := entries[0]
	assert.Nil(t, founding.FromSectorID)
	assert.Equal(t, f.sector.ID, founding.ToSectorID)
	assert.Equal(t, domain.TransferReasonInitial, founding.Reason)
	assert.Equal(t, f.system.ID, founding.CreatedBy)
}

func TestRegisterConcurrentAllocationsAreUnique(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()
	const workers = 10

	var wg sync.WaitGroup
	results := make(chan string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			member, err := f.service.Register(ctx, validCreateInput(f))
			if err == nil {
				results <- member.MemberNo
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for memberNo := range results {
		assert.False(t, seen[memberNo], "identifier %s allocated twice", memberNo)
		seen[memberNo] = true
	}
	require.Len(t, seen, workers)

	prefix := fmt.Sprintf("NIJ-%04d-", time.Now().Year())
	for i := 1; i <= workers; i++ {
		assert.True(t, seen[fmt.Sprintf("%s%05d", prefix, i)])
	}
}

func TestRegisterRejectsSecondLivingHusband(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()

	input := validCreateInput(f)
	input.FamilyRole = domain.FamilyRoleHusband
	_, err := f.service.Register(ctx, input)
	require.NoError(t, err)

	_, err = f.service.Register(ctx, input)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestRegisterRequiresBirthOrderForChildren(t *testing.T) {
	f := newMemberFixture(t)

	input := validCreateInput(f)
	input.FamilyRole = domain.FamilyRoleChild
	_, err := f.service.Register(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestUpdateKeepsIdentifierImmutable(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()

	member, err := f.service.Register(ctx, validCreateInput(f))
	require.NoError(t, err)
	originalNo := member.MemberNo

	input := updateInputFrom(member)
	input.FullName = "Togar P. Siahaan"
	input.Email = "togar@example.com"
	updated, err := f.service.Update(ctx, member.ID, input, f.operator.ID)
	require.NoError(t, err)

	assert.Equal(t, originalNo, updated.MemberNo)
	stored, _ := f.store.members.GetByID(ctx, member.ID)
	assert.Equal(t, originalNo, stored.MemberNo)
}

func TestUpdateWithoutSectorChangeAppendsNothing(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()

	member, err := f.service.Register(ctx, validCreateInput(f))
	require.NoError(t, err)

	input := updateInputFrom(member)
	input.PhoneNumber = "+62-812-0000"
	_, err = f.service.Update(ctx, member.ID, input, f.operator.ID)
	require.NoError(t, err)

	entries, _ := f.store.history.ListByMember(ctx, member.ID)
	assert.Len(t, entries, 1, "only the founding entry should exist")
}

func TestUpdateSectorChangeAppendsLedgerEntry(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()

	member, err := f.service.Register(ctx, validCreateInput(f))
	require.NoError(t, err)

	input := updateInputFrom(member)
	input.SectorID = f.sector2.ID
	updated, err := f.service.Update(ctx, member.ID, input, f.operator.ID)
	require.NoError(t, err)
	assert.Equal(t, f.sector2.ID, updated.CurrentSectorID)

	entries, _ := f.store.history.ListChronological(ctx, member.ID)
	require.Len(t, entries, 2)
	latest := entries[1]
	require.NotNil(t, latest.FromSectorID)
	assert.Equal(t, f.sector.ID, *latest.FromSectorID)
	assert.Equal(t, f.sector2.ID, latest.ToSectorID)
	assert.Equal(t, domain.TransferReasonSectorChange, latest.Reason)
	assert.Equal(t, f.operator.ID, latest.CreatedBy)
}

func TestUpdateSectorChangeWithoutOperatorFallsBackToSystem(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()

	member, err := f.service.Register(ctx, validCreateInput(f))
	require.NoError(t, err)

	input := updateInputFrom(member)
	input.SectorID = f.sector2.ID
	_, err = f.service.Update(ctx, member.ID, input, "")
	require.NoError(t, err)

	entries, _ := f.store.history.ListChronological(ctx, member.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, f.system.ID, entries[1].CreatedBy)
}

func TestTransferRejectsSameSector(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()

	member, err := f.service.Register(ctx, validCreateInput(f))
	require.NoError(t, err)

	_, err = f.service.Transfer(ctx, member.ID, TransferInput{
		ToSectorID:   member.CurrentSectorID,
		TransferDate: time.Now(),
	}, f.operator.ID)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSFER_TARGET", domainCode(t, err))

	// rejected transfer leaves no trace
	entries, _ := f.store.history.ListByMember(ctx, member.ID)
	assert.Len(t, entries, 1)
	stored, _ := f.store.members.GetByID(ctx, member.ID)
	assert.Equal(t, f.sector.ID, stored.CurrentSectorID)
}

func TestTransferRequiresOperator(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()

	member, err := f.service.Register(ctx, validCreateInput(f))
	require.NoError(t, err)

	_, err = f.service.Transfer(ctx, member.ID, TransferInput{
		ToSectorID:   f.sector2.ID,
		TransferDate: time.Now(),
	}, "")
	require.Error(t, err)
	assert.Equal(t, "MISSING_RECORDER", domainCode(t, err))
}

func TestTransferRejectsInactiveOperator(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()
	former := f.store.addOperator("former", domain.OperatorRoleStaff, false)

	member, err := f.service.Register(ctx, validCreateInput(f))
	require.NoError(t, err)

	_, err = f.service.Transfer(ctx, member.ID, TransferInput{
		ToSectorID:   f.sector2.ID,
		TransferDate: time.Now(),
	}, former.ID)
	require.Error(t, err)
	assert.Equal(t, "MISSING_RECORDER", domainCode(t, err))
}

func TestTransferMovesMemberAndAppendsEntry(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()
	transferDate := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	member, err := f.service.Register(ctx, validCreateInput(f))
	require.NoError(t, err)

	moved, err := f.service.Transfer(ctx, member.ID, TransferInput{
		ToSectorID:   f.sector2.ID,
		TransferDate: transferDate,
		Reason:       "moved house",
		Notes:        "new address on file",
	}, f.operator.ID)
	require.NoError(t, err)
	assert.Equal(t, f.sector2.ID, moved.CurrentSectorID)

	entries, _ := f.store.history.ListChronological(ctx, member.ID)
	require.Len(t, entries, 2)
	entry := entries[1]
	require.NotNil(t, entry.FromSectorID)
	assert.Equal(t, f.sector.ID, *entry.FromSectorID)
	assert.Equal(t, f.sector2.ID, entry.ToSectorID)
	assert.True(t, entry.TransferDate.Equal(transferDate))
	assert.Equal(t, "moved house", entry.Reason)
	assert.Equal(t, f.operator.ID, entry.CreatedBy)
}

func TestTransferIsAtomicWhenLedgerAppendFails(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()

	member, err := f.service.Register(ctx, validCreateInput(f))
	require.NoError(t, err)

	f.store.history.failNext = errors.New("disk full")
	_, err = f.service.Transfer(ctx, member.ID, TransferInput{
		ToSectorID:   f.sector2.ID,
		TransferDate: time.Now(),
	}, f.operator.ID)
	require.Error(t, err)

	stored, _ := f.store.members.GetByID(ctx, member.ID)
	assert.Equal(t, f.sector.ID, stored.CurrentSectorID, "member row must not move when the ledger append fails")
	entries, _ := f.store.history.ListByMember(ctx, member.ID)
	assert.Len(t, entries, 1)
}

func TestHistoryChronologicalEntriesChain(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()
	sector3 := f.store.addSector("Sektor 3")

	member, err := f.service.Register(ctx, validCreateInput(f))
	require.NoError(t, err)

	_, err = f.service.Transfer(ctx, member.ID, TransferInput{
		ToSectorID:   f.sector2.ID,
		TransferDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	}, f.operator.ID)
	require.NoError(t, err)
	_, err = f.service.Transfer(ctx, member.ID, TransferInput{
		ToSectorID:   sector3.ID,
		TransferDate: time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
	}, f.operator.ID)
	require.NoError(t, err)

	entries, err := f.store.history.ListChronological(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i := 1; i < len(entries); i++ {
		require.NotNil(t, entries[i].FromSectorID)
		assert.Equal(t, entries[i-1].ToSectorID, *entries[i].FromSectorID,
			"each entry's from-sector must chain to the previous to-sector")
	}
}

func TestDeactivateKeepsRowAndRecordsReason(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()

	member, err := f.service.Register(ctx, validCreateInput(f))
	require.NoError(t, err)

	deactivated, err := f.service.Deactivate(ctx, member.ID, "moved abroad", f.operator.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)
	require.NotNil(t, deactivated.InactiveReason)
	assert.Equal(t, "moved abroad", *deactivated.InactiveReason)

	stored, err := f.store.members.GetByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, member.MemberNo, stored.MemberNo)
}

func TestMarkDeceasedRejectsDateBeforeBirth(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()

	member, err := f.service.Register(ctx, validCreateInput(f))
	require.NoError(t, err)

	_, err = f.service.MarkDeceased(ctx, member.ID, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), "", f.operator.ID)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestMarkDeceasedRecordsDate(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()
	deceasedDate := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)

	member, err := f.service.Register(ctx, validCreateInput(f))
	require.NoError(t, err)

	updated, err := f.service.MarkDeceased(ctx, member.ID, deceasedDate, "illness", f.operator.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsDeceased)
	require.NotNil(t, updated.DeceasedDate)
	assert.True(t, updated.DeceasedDate.Equal(deceasedDate))
	assert.Equal(t, "illness", updated.DeceasedReason)
}
