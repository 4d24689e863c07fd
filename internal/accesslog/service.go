package accesslog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/libraria-al/backend-libraria/internal/db/gen"
)

var (
	// ErrNotFound indicates the requested license does not exist.
	ErrNotFound = errors.New("accesslog: license not found")
	// ErrForbidden indicates the license belongs to another user.
	ErrForbidden = errors.New("accesslog: license not owned by caller")
)

// Querier is the subset of store queries the access log needs.
type Querier interface {
	GetLicenseByID(ctx context.Context, id pgtype.UUID) (dbgen.License, error)
	ListAccessLogByLicense(ctx context.Context, arg dbgen.ListAccessLogByLicenseParams) ([]dbgen.AccessLogEntry, error)
	ListAccessLogByUser(ctx context.Context, arg dbgen.ListAccessLogByUserParams) ([]dbgen.AccessLogEntry, error)
}

// Service reads the append-only rental access trail.
type Service struct {
	Q Querier
}

// Entry is the API shape of one access log row.
type Entry struct {
	ID        int64          `json:"id"`
	LicenseID string         `json:"licenseId"`
	UserID    string         `json:"userId"`
	BookID    string         `json:"bookId"`
	Event     string         `json:"event"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ForLicense lists log entries for a license the caller owns, newest first.
func (s *Service) ForLicense(ctx context.Context, userID, licenseID string, limit, offset int32) ([]Entry, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("accesslog: service not configured")
	}
	uID, err := parseUUID(userID)
	if err != nil {
		return nil, ErrForbidden
	}
	lID, err := parseUUID(licenseID)
	if err != nil {
		return nil, ErrNotFound
	}
	lic, err := s.Q.GetLicenseByID(ctx, lID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if lic.UserID != uID {
		return nil, ErrForbidden
	}
	rows, err := s.Q.ListAccessLogByLicense(ctx, dbgen.ListAccessLogByLicenseParams{
		LicenseID: lID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, err
	}
	return toEntries(rows), nil
}

// ForUser lists the caller's own log entries across all licenses.
func (s *Service) ForUser(ctx context.Context, userID string, limit, offset int32) ([]Entry, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("accesslog: service not configured")
	}
	uID, err := parseUUID(userID)
	if err != nil {
		return nil, ErrForbidden
	}
	rows, err := s.Q.ListAccessLogByUser(ctx, dbgen.ListAccessLogByUserParams{
		UserID: uID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}
	return toEntries(rows), nil
}

func toEntries(rows []dbgen.AccessLogEntry) []Entry {
	out := make([]Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, Entry{
			ID:        row.ID,
			LicenseID: uuidString(row.LicenseID),
			UserID:    uuidString(row.UserID),
			BookID:    uuidString(row.BookID),
			Event:     string(row.Event),
			Meta:      decodeMeta(row.Meta),
			CreatedAt: row.CreatedAt.Time,
		})
	}
	return out
}

func decodeMeta(raw []byte) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || len(m) == 0 {
		return nil
	}
	return m
}

func parseUUID(value string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(value)
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}

func uuidString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}
