package accesslog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/libraria-al/backend-libraria/internal/db/gen"
)

type stubQuerier struct {
	license dbgen.License
	missing bool
	entries []dbgen.AccessLogEntry

	gotLicense dbgen.ListAccessLogByLicenseParams
	gotUser    dbgen.ListAccessLogByUserParams
}

func (s *stubQuerier) GetLicenseByID(_ context.Context, id pgtype.UUID) (dbgen.License, error) {
	if s.missing {
		return dbgen.License{}, pgx.ErrNoRows
	}
	return s.license, nil
}

func (s *stubQuerier) ListAccessLogByLicense(_ context.Context, arg dbgen.ListAccessLogByLicenseParams) ([]dbgen.AccessLogEntry, error) {
	s.gotLicense = arg
	return s.entries, nil
}

func (s *stubQuerier) ListAccessLogByUser(_ context.Context, arg dbgen.ListAccessLogByUserParams) ([]dbgen.AccessLogEntry, error) {
	s.gotUser = arg
	return s.entries, nil
}

func mustUUID(t *testing.T) pgtype.UUID {
	t.Helper()
	return pgtype.UUID{Bytes: uuid.New(), Valid: true}
}

func TestForLicenseOwnership(t *testing.T) {
	owner := mustUUID(t)
	other := mustUUID(t)
	licID := mustUUID(t)
	q := &stubQuerier{license: dbgen.License{ID: licID, UserID: owner}}
	svc := &Service{Q: q}

	if _, err := svc.ForLicense(context.Background(), uuid.UUID(other.Bytes).String(), uuid.UUID(licID.Bytes).String(), 10, 0); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	entries, err := svc.ForLicense(context.Background(), uuid.UUID(owner.Bytes).String(), uuid.UUID(licID.Bytes).String(), 10, 0)
	if err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if entries == nil {
		t.Fatalf("expected non-nil slice for empty log")
	}
	if q.gotLicense.Limit != 10 || q.gotLicense.Offset != 0 {
		t.Fatalf("pagination not forwarded: %+v", q.gotLicense)
	}
}

func TestForLicenseMissing(t *testing.T) {
	svc := &Service{Q: &stubQuerier{missing: true}}
	userID := uuid.NewString()
	if _, err := svc.ForLicense(context.Background(), userID, uuid.NewString(), 10, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.ForLicense(context.Background(), userID, "not-a-uuid", 10, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for bad license id, got %v", err)
	}
}

func TestForUserShapesEntries(t *testing.T) {
	owner := mustUUID(t)
	book := mustUUID(t)
	licID := mustUUID(t)
	now := time.Now()
	q := &stubQuerier{entries: []dbgen.AccessLogEntry{{
		ID:        7,
		LicenseID: licID,
		UserID:    owner,
		BookID:    book,
		Event:     dbgen.AccessEventRENTALREAD,
		Meta:      []byte(`{"device":"reader-1"}`),
		CreatedAt: pgtype.Timestamptz{Time: now, Valid: true},
	}}}
	svc := &Service{Q: q}

	entries, err := svc.ForUser(context.Background(), uuid.UUID(owner.Bytes).String(), 25, 50)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.ID != 7 || e.Event != string(dbgen.AccessEventRENTALREAD) {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.Meta["device"] != "reader-1" {
		t.Fatalf("meta not decoded: %+v", e.Meta)
	}
	if q.gotUser.Limit != 25 || q.gotUser.Offset != 50 {
		t.Fatalf("pagination not forwarded: %+v", q.gotUser)
	}
}
