package rental

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/libraria-al/backend-libraria/internal/db/gen"
)

const (
	issueUserID  = "a1a1a1a1-a1a1-a1a1-a1a1-a1a1a1a1a1a1"
	issueBookID  = "b2b2b2b2-b2b2-b2b2-b2b2-b2b2b2b2b2b2"
	issueItemID  = "c3c3c3c3-c3c3-c3c3-c3c3-c3c3c3c3c3c3"
	issueTokenAt = "2026-02-01T10:00:00Z"
)

// stubStore is an in-memory Store for exercising the issuance transaction.
type stubStore struct {
	book dbgen.Book
	item dbgen.GetRentalOrderItemRow
	user dbgen.User

	active     *dbgen.License
	raceWinner *dbgen.License
	createErr  error

	findCalls   int
	created     []dbgen.CreateLicenseParams
	logs        []dbgen.InsertAccessLogEntryParams
	expiredIDs  []pgtype.UUID
	decremented int
}

func (s *stubStore) WithTx(pgx.Tx) Querier { return s }

func (s *stubStore) GetBookByID(context.Context, pgtype.UUID) (dbgen.Book, error) {
	return s.book, nil
}

func (s *stubStore) GetUserByID(context.Context, pgtype.UUID) (dbgen.User, error) {
	return s.user, nil
}

func (s *stubStore) GetRentalOrderItem(context.Context, dbgen.GetRentalOrderItemParams) (dbgen.GetRentalOrderItemRow, error) {
	return s.item, nil
}

func (s *stubStore) FindActiveLicense(context.Context, dbgen.FindActiveLicenseParams) (dbgen.License, error) {
	s.findCalls++
	if s.active != nil {
		return *s.active, nil
	}
	if s.raceWinner != nil && s.findCalls > 1 {
		return *s.raceWinner, nil
	}
	return dbgen.License{}, pgx.ErrNoRows
}

func (s *stubStore) CreateLicense(_ context.Context, arg dbgen.CreateLicenseParams) (dbgen.License, error) {
	if s.createErr != nil {
		return dbgen.License{}, s.createErr
	}
	s.created = append(s.created, arg)
	return dbgen.License{
		ID:              arg.ID,
		UserID:          arg.UserID,
		BookID:          arg.BookID,
		OrderItemID:     arg.OrderItemID,
		Kind:            arg.Kind,
		RentalClass:     arg.RentalClass,
		IssuedAt:        arg.IssuedAt,
		EndAt:           arg.EndAt,
		Active:          true,
		TokenHash:       arg.TokenHash,
		Watermark:       arg.Watermark,
		GuaranteeAmount: arg.GuaranteeAmount,
	}, nil
}

func (s *stubStore) GetLicenseByID(context.Context, pgtype.UUID) (dbgen.License, error) {
	return dbgen.License{}, pgx.ErrNoRows
}

func (s *stubStore) RecordLicenseAccess(context.Context, pgtype.UUID) (dbgen.License, error) {
	return dbgen.License{}, pgx.ErrNoRows
}

func (s *stubStore) CloseLicense(context.Context, dbgen.CloseLicenseParams) (dbgen.License, error) {
	return dbgen.License{}, pgx.ErrNoRows
}

func (s *stubStore) ExpireLicense(_ context.Context, id pgtype.UUID) (int64, error) {
	s.expiredIDs = append(s.expiredIDs, id)
	s.active = nil
	return 1, nil
}

func (s *stubStore) ListExpiredActiveLicenses(context.Context, int32) ([]dbgen.ListExpiredActiveLicensesRow, error) {
	return nil, nil
}

func (s *stubStore) DecrementBookInventory(context.Context, pgtype.UUID) (int64, error) {
	s.decremented++
	return 1, nil
}

func (s *stubStore) RestockBookInventory(context.Context, pgtype.UUID) error {
	return nil
}

func (s *stubStore) InsertAccessLogEntry(_ context.Context, arg dbgen.InsertAccessLogEntryParams) (dbgen.AccessLogEntry, error) {
	s.logs = append(s.logs, arg)
	return dbgen.AccessLogEntry{}, nil
}

type fakeTx struct {
	pgx.Tx
	commits   int
	rollbacks int
}

func (t *fakeTx) Commit(context.Context) error   { t.commits++; return nil }
func (t *fakeTx) Rollback(context.Context) error { t.rollbacks++; return nil }

type fakePool struct {
	tx fakeTx
}

func (p *fakePool) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	return &p.tx, nil
}

func digitalStore() *stubStore {
	return &stubStore{
		book: dbgen.Book{
			HasDigital:      true,
			Active:          true,
			DigitalAssetRef: pgtype.Text{String: "assets/book.epub", Valid: true},
		},
		item: dbgen.GetRentalOrderItemRow{
			Format:      dbgen.BookFormatDigital,
			UnitPrice:   1200,
			OrderStatus: dbgen.OrderStatusPAID,
		},
		user: dbgen.User{Name: "Drita"},
	}
}

func hardcopyStore() *stubStore {
	return &stubStore{
		book: dbgen.Book{Active: true},
		item: dbgen.GetRentalOrderItemRow{
			Format:      dbgen.BookFormatPhysical,
			UnitPrice:   2000,
			OrderStatus: dbgen.OrderStatusPAID,
		},
		user: dbgen.User{Name: "Drita"},
	}
}

func issueNow() time.Time {
	t, _ := time.Parse(time.RFC3339, issueTokenAt)
	return t
}

func issueService(st *stubStore, pool *fakePool) *Service {
	return &Service{
		Q:            st,
		Pool:         pool,
		GuaranteeBps: DefaultGuaranteeBps,
		Now:          issueNow,
	}
}

func TestIssueHardcopyDefaultsGuaranteeFromUnitPrice(t *testing.T) {
	st := hardcopyStore()
	pool := &fakePool{}
	svc := issueService(st, pool)

	out, err := svc.IssueHardcopy(context.Background(), issueUserID, HardcopyInput{
		BookID:      issueBookID,
		OrderItemID: issueItemID,
		RentalClass: ClassShortTerm,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.GuaranteeAmount != 1600 {
		t.Fatalf("expected default guarantee 1600 (80%% of 2000), got %d", out.GuaranteeAmount)
	}
	if len(st.created) != 1 || st.created[0].GuaranteeAmount.Int64 != 1600 {
		t.Fatalf("stored guarantee mismatch: %+v", st.created)
	}
	if pool.tx.commits != 1 {
		t.Fatalf("expected one commit, got %d", pool.tx.commits)
	}
}

func TestIssueHardcopyUsesSuppliedGuarantee(t *testing.T) {
	st := hardcopyStore()
	pool := &fakePool{}
	svc := issueService(st, pool)

	out, err := svc.IssueHardcopy(context.Background(), issueUserID, HardcopyInput{
		BookID:          issueBookID,
		OrderItemID:     issueItemID,
		RentalClass:     ClassShortTerm,
		GuaranteeAmount: 500,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.GuaranteeAmount != 500 {
		t.Fatalf("expected supplied guarantee 500, got %d", out.GuaranteeAmount)
	}
	if len(st.created) != 1 || st.created[0].GuaranteeAmount.Int64 != 500 {
		t.Fatalf("stored guarantee mismatch: %+v", st.created)
	}
}

func TestIssueDigitalRejectsDuplicateActiveLicense(t *testing.T) {
	st := digitalStore()
	existingID := pgtype.UUID{Bytes: [16]byte{9, 9, 9}, Valid: true}
	st.active = &dbgen.License{
		ID:     existingID,
		Active: true,
		EndAt:  pgtype.Timestamptz{Time: issueNow().Add(time.Hour), Valid: true},
	}
	pool := &fakePool{}
	svc := issueService(st, pool)

	_, err := svc.IssueDigital(context.Background(), issueUserID, DigitalInput{
		BookID:      issueBookID,
		OrderItemID: issueItemID,
	})
	var dup *DuplicateActiveRentalError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateActiveRentalError, got %v", err)
	}
	if dup.ExistingLicenseID != uuidString(existingID) {
		t.Fatalf("expected existing license id %s, got %s", uuidString(existingID), dup.ExistingLicenseID)
	}
	if len(st.created) != 0 {
		t.Fatalf("no license should be created, got %d", len(st.created))
	}
	if pool.tx.commits != 0 {
		t.Fatalf("transaction must not commit, got %d commits", pool.tx.commits)
	}
}

func TestIssueDigitalClosesStaleLicenseAndProceeds(t *testing.T) {
	st := digitalStore()
	staleID := pgtype.UUID{Bytes: [16]byte{7, 7, 7}, Valid: true}
	st.active = &dbgen.License{
		ID:     staleID,
		Active: true,
		EndAt:  pgtype.Timestamptz{Time: issueNow().Add(-time.Minute), Valid: true},
	}
	pool := &fakePool{}
	svc := issueService(st, pool)

	out, err := svc.IssueDigital(context.Background(), issueUserID, DigitalInput{
		BookID:      issueBookID,
		OrderItemID: issueItemID,
		RentalClass: ClassTimeLimited,
	})
	if err != nil {
		t.Fatalf("expected issuance past a stale license, got %v", err)
	}
	if out.LicenseID == "" || out.Token == "" {
		t.Fatalf("expected a minted license, got %+v", out)
	}
	if len(st.expiredIDs) != 1 || st.expiredIDs[0] != staleID {
		t.Fatalf("expected the stale license to be expired, got %v", st.expiredIDs)
	}
	var sawExpiredLog bool
	for _, entry := range st.logs {
		if entry.Event == dbgen.AccessEventEXPIRED && entry.LicenseID == staleID {
			sawExpiredLog = true
		}
	}
	if !sawExpiredLog {
		t.Fatalf("expected an EXPIRED access log entry for the stale license")
	}
	if len(st.created) != 1 {
		t.Fatalf("expected the new license to be created, got %d", len(st.created))
	}
	if pool.tx.commits != 1 {
		t.Fatalf("expected one commit, got %d", pool.tx.commits)
	}
}

func TestIssueDigitalMapsUniqueViolationToDuplicate(t *testing.T) {
	// Two issuances race past the duplicate check; the partial unique
	// index rejects the loser and the winner's license id is reported.
	st := digitalStore()
	winnerID := pgtype.UUID{Bytes: [16]byte{5, 5, 5}, Valid: true}
	st.raceWinner = &dbgen.License{ID: winnerID, Active: true}
	st.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "licenses_one_active_per_user_book"}
	pool := &fakePool{}
	svc := issueService(st, pool)

	_, err := svc.IssueDigital(context.Background(), issueUserID, DigitalInput{
		BookID:      issueBookID,
		OrderItemID: issueItemID,
	})
	var dup *DuplicateActiveRentalError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateActiveRentalError, got %v", err)
	}
	if dup.ExistingLicenseID != uuidString(winnerID) {
		t.Fatalf("expected winning license id %s, got %s", uuidString(winnerID), dup.ExistingLicenseID)
	}
	if pool.tx.commits != 0 {
		t.Fatalf("transaction must not commit, got %d commits", pool.tx.commits)
	}
}
