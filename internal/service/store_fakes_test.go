package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Juliussaint/gmianugerah/internal/domain"
	"github.com/Juliussaint/gmianugerah/internal/repository"
)

// fakeStore is an in-memory Store. WithinTx serializes callers behind one
// mutex and restores a snapshot when the function fails, which mirrors the
// commit-or-rollback contract the services rely on.
type fakeStore struct {
	mu sync.Mutex

	members   *fakeMemberRepo
	sectors   *fakeSectorRepo
	families  *fakeFamilyRepo
	history   *fakeHistoryRepo
	operators *fakeOperatorRepo
}

func newFakeStore() *fakeStore {
	s := &fakeStore{
		members:   &fakeMemberRepo{byID: map[string]*domain.Member{}},
		sectors:   &fakeSectorRepo{byID: map[string]*domain.Sector{}},
		families:  &fakeFamilyRepo{byID: map[string]*domain.Family{}},
		history:   &fakeHistoryRepo{},
		operators: &fakeOperatorRepo{byID: map[string]*domain.Operator{}},
	}
	return s
}

func (s *fakeStore) Members() repository.MemberRepository        { return s.members }
func (s *fakeStore) Sectors() repository.SectorRepository        { return s.sectors }
func (s *fakeStore) Families() repository.FamilyRepository       { return s.families }
func (s *fakeStore) History() repository.SectorHistoryRepository { return s.history }
func (s *fakeStore) Operators() repository.OperatorRepository    { return s.operators }

func (s *fakeStore) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	membersSnap := s.members.snapshot()
	historySnap := s.history.snapshot()
	familiesSnap := s.families.snapshot()

	if err := fn(s); err != nil {
		s.members.restore(membersSnap)
		s.history.restore(historySnap)
		s.families.restore(familiesSnap)
		return err
	}
	return nil
}

// seed helpers

func (s *fakeStore) addSector(name string) *domain.Sector {
	sector := &domain.Sector{ID: uuid.NewString(), Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.sectors.byID[sector.ID] = sector
	return sector
}

func (s *fakeStore) addFamily(sectorID, name string) *domain.Family {
	family := &domain.Family{
		ID:         uuid.NewString(),
		SectorID:   sectorID,
		FamilyName: name,
		Status:     domain.FamilyStatusActive,
	}
	s.families.byID[family.ID] = family
	return family
}

func (s *fakeStore) addOperator(username string, role domain.OperatorRole, active bool) *domain.Operator {
	op := &domain.Operator{
		ID:       uuid.NewString(),
		Username: username,
		FullName: username,
		Role:     role,
		IsActive: active,
	}
	s.operators.byID[op.ID] = op
	return op
}

type fakeMemberRepo struct {
	byID map[string]*domain.Member
}

func (r *fakeMemberRepo) snapshot() map[string]*domain.Member {
	snap := make(map[string]*domain.Member, len(r.byID))
	for id, m := range r.byID {
		copied := *m
		snap[id] = &copied
	}
	return snap
}

func (r *fakeMemberRepo) restore(snap map[string]*domain.Member) {
	r.byID = snap
}

func (r *fakeMemberRepo) Create(ctx context.Context, member *domain.Member) error {
	member.ID = uuid.NewString()
	member.CreatedAt = time.Now()
	member.UpdatedAt = member.CreatedAt
	copied := *member
	r.byID[member.ID] = &copied
	return nil
}

func (r *fakeMemberRepo) Update(ctx context.Context, member *domain.Member) error {
	current, ok := r.byID[member.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	copied := *member
	// member_no is not part of the UPDATE statement in the real repository
	copied.MemberNo = current.MemberNo
	copied.UpdatedAt = time.Now()
	r.byID[member.ID] = &copied
	*member = copied
	return nil
}

func (r *fakeMemberRepo) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	member, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *member
	return &copied, nil
}

func (r *fakeMemberRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Member, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeMemberRepo) GetByMemberNo(ctx context.Context, memberNo string) (*domain.Member, error) {
	for _, member := range r.byID {
		if member.MemberNo == memberNo {
			copied := *member
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeMemberRepo) ListWithFilter(ctx context.Context, filter repository.MemberFilter) ([]domain.Member, error) {
	result := make([]domain.Member, 0)
	for _, member := range r.byID {
		if filter.FamilyID != nil && member.FamilyID != *filter.FamilyID {
			continue
		}
		if filter.SectorID != nil && member.CurrentSectorID != *filter.SectorID {
			continue
		}
		if filter.FamilyRole != nil && member.FamilyRole != *filter.FamilyRole {
			continue
		}
		if filter.IsActive != nil && member.IsActive != *filter.IsActive {
			continue
		}
		if filter.IsDeceased != nil && member.IsDeceased != *filter.IsDeceased {
			continue
		}
		result = append(result, *member)
	}
	return result, nil
}

func (r *fakeMemberRepo) LockIdentifierRange(ctx context.Context, prefix string) error {
	// the fake store's WithinTx mutex already serializes allocations
	return nil
}

func (r *fakeMemberRepo) MaxIdentifier(ctx context.Context, prefix string) (string, error) {
	max := ""
	for _, member := range r.byID {
		if strings.HasPrefix(member.MemberNo, prefix) && member.MemberNo > max {
			max = member.MemberNo
		}
	}
	return max, nil
}

type fakeSectorRepo struct {
	byID map[string]*domain.Sector
	refs map[string]int64
}

func (r *fakeSectorRepo) Create(ctx context.Context, sector *domain.Sector) error {
	sector.ID = uuid.NewString()
	sector.CreatedAt = time.Now()
	sector.UpdatedAt = sector.CreatedAt
	copied := *sector
	r.byID[sector.ID] = &copied
	return nil
}

func (r *fakeSectorRepo) Update(ctx context.Context, sector *domain.Sector) error {
	if _, ok := r.byID[sector.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *sector
	r.byID[sector.ID] = &copied
	return nil
}

func (r *fakeSectorRepo) GetByID(ctx context.Context, id string) (*domain.Sector, error) {
	sector, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *sector
	return &copied, nil
}

func (r *fakeSectorRepo) GetByName(ctx context.Context, name string) (*domain.Sector, error) {
	for _, sector := range r.byID {
		if sector.Name == name {
			copied := *sector
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeSectorRepo) List(ctx context.Context) ([]domain.Sector, error) {
	result := make([]domain.Sector, 0, len(r.byID))
	for _, sector := range r.byID {
		result = append(result, *sector)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeSectorRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeSectorRepo) CountReferences(ctx context.Context, id string) (int64, error) {
	if r.refs == nil {
		return 0, nil
	}
	return r.refs[id], nil
}

type fakeFamilyRepo struct {
	byID map[string]*domain.Family
}

func (r *fakeFamilyRepo) snapshot() map[string]*domain.Family {
	snap := make(map[string]*domain.Family, len(r.byID))
	for id, f := range r.byID {
		copied := *f
		snap[id] = &copied
	}
	return snap
}

func (r *fakeFamilyRepo) restore(snap map[string]*domain.Family) {
	r.byID = snap
}

func (r *fakeFamilyRepo) Create(ctx context.Context, family *domain.Family) error {
	family.ID = uuid.NewString()
	family.CreatedAt = time.Now()
	family.UpdatedAt = family.CreatedAt
	copied := *family
	r.byID[family.ID] = &copied
	return nil
}

func (r *fakeFamilyRepo) Update(ctx context.Context, family *domain.Family) error {
	if _, ok := r.byID[family.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *family
	r.byID[family.ID] = &copied
	return nil
}

func (r *fakeFamilyRepo) GetByID(ctx context.Context, id string) (*domain.Family, error) {
	family, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *family
	return &copied, nil
}

func (r *fakeFamilyRepo) ListWithFilter(ctx context.Context, filter repository.FamilyFilter) ([]domain.Family, error) {
	result := make([]domain.Family, 0)
	for _, family := range r.byID {
		if filter.SectorID != nil && family.SectorID != *filter.SectorID {
			continue
		}
		if filter.Status != nil && family.Status != *filter.Status {
			continue
		}
		result = append(result, *family)
	}
	return result, nil
}

type fakeHistoryRepo struct {
	entries []domain.SectorHistory
	nextID  int64

	// failNext makes the next Create fail, for atomicity tests.
	failNext error
}

func (r *fakeHistoryRepo) snapshot() []domain.SectorHistory {
	return append([]domain.SectorHistory(nil), r.entries...)
}

func (r *fakeHistoryRepo) restore(snap []domain.SectorHistory) {
	r.entries = snap
	r.nextID = int64(len(snap))
}

func (r *fakeHistoryRepo) Create(ctx context.Context, entry *domain.SectorHistory) error {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	r.nextID++
	entry.ID = r.nextID
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeHistoryRepo) ListByMember(ctx context.Context, memberID string) ([]domain.SectorHistory, error) {
	result := r.forMember(memberID)
	sort.Slice(result, func(i, j int) bool {
		if !result[i].TransferDate.Equal(result[j].TransferDate) {
			return result[i].TransferDate.After(result[j].TransferDate)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *fakeHistoryRepo) ListChronological(ctx context.Context, memberID string) ([]domain.SectorHistory, error) {
	result := r.forMember(memberID)
	sort.Slice(result, func(i, j int) bool {
		if !result[i].TransferDate.Equal(result[j].TransferDate) {
			return result[i].TransferDate.Before(result[j].TransferDate)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *fakeHistoryRepo) forMember(memberID string) []domain.SectorHistory {
	result := make([]domain.SectorHistory, 0)
	for _, entry := range r.entries {
		if entry.MemberID == memberID {
			result = append(result, entry)
		}
	}
	return result
}

type fakeOperatorRepo struct {
	byID map[string]*domain.Operator
}

func (r *fakeOperatorRepo) GetByID(ctx context.Context, id string) (*domain.Operator, error) {
	op, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *op
	return &copied, nil
}

func (r *fakeOperatorRepo) GetByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	for _, op := range r.byID {
		if op.Username == username {
			copied := *op
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}
