package rental

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/libraria-al/backend-libraria/internal/db/gen"
	"github.com/libraria-al/backend-libraria/internal/events"
	"github.com/libraria-al/backend-libraria/internal/obs"
)

// ExpiryScheduler enqueues a close task for the license end date. The sweep
// is an optimisation; verification treats the end date as authoritative.
type ExpiryScheduler interface {
	ScheduleExpiry(ctx context.Context, licenseID string, at time.Time) error
}

// Querier is the slice of generated queries the rental flows touch.
type Querier interface {
	GetBookByID(ctx context.Context, id pgtype.UUID) (dbgen.Book, error)
	GetUserByID(ctx context.Context, id pgtype.UUID) (dbgen.User, error)
	GetRentalOrderItem(ctx context.Context, arg dbgen.GetRentalOrderItemParams) (dbgen.GetRentalOrderItemRow, error)
	FindActiveLicense(ctx context.Context, arg dbgen.FindActiveLicenseParams) (dbgen.License, error)
	CreateLicense(ctx context.Context, arg dbgen.CreateLicenseParams) (dbgen.License, error)
	GetLicenseByID(ctx context.Context, id pgtype.UUID) (dbgen.License, error)
	RecordLicenseAccess(ctx context.Context, id pgtype.UUID) (dbgen.License, error)
	CloseLicense(ctx context.Context, arg dbgen.CloseLicenseParams) (dbgen.License, error)
	ExpireLicense(ctx context.Context, id pgtype.UUID) (int64, error)
	ListExpiredActiveLicenses(ctx context.Context, limit int32) ([]dbgen.ListExpiredActiveLicensesRow, error)
	DecrementBookInventory(ctx context.Context, id pgtype.UUID) (int64, error)
	RestockBookInventory(ctx context.Context, id pgtype.UUID) error
	InsertAccessLogEntry(ctx context.Context, arg dbgen.InsertAccessLogEntryParams) (dbgen.AccessLogEntry, error)
}

// Store is a Querier that can rebind itself to a transaction.
type Store interface {
	Querier
	WithTx(tx pgx.Tx) Querier
}

// TxBeginner is the subset of pgxpool.Pool the service needs.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// NewStore adapts the generated queries to Store.
func NewStore(q *dbgen.Queries) Store {
	return genStore{q}
}

type genStore struct {
	*dbgen.Queries
}

func (g genStore) WithTx(tx pgx.Tx) Querier {
	return g.Queries.WithTx(tx)
}

// Service issues, verifies, returns, and expires rental licenses.
type Service struct {
	Q            Store
	Pool         TxBeginner
	Events       *events.Bus
	Sched        ExpiryScheduler
	TokenLength  int
	GuaranteeBps int
	Now          func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Watermark is embedded into every digital license.
type Watermark struct {
	UserID            string `json:"userId"`
	UserName          string `json:"userName"`
	LicenseID         string `json:"licenseId"`
	IssuedAt          string `json:"issuedAt"`
	DeviceFingerprint string `json:"deviceFingerprint"`
}

// DigitalInput carries the request to issue a digital license.
type DigitalInput struct {
	BookID            string `json:"bookId" validate:"required,uuid"`
	OrderItemID       string `json:"orderItemId" validate:"required,uuid"`
	RentalClass       string `json:"rentalClass"`
	DeviceFingerprint string `json:"deviceFingerprint"`
}

// DigitalOutput returns the minted license. The plaintext token appears here
// exactly once; only its hash is stored.
type DigitalOutput struct {
	LicenseID   string    `json:"licenseId"`
	Token       string    `json:"token"`
	RentalClass string    `json:"rentalClass"`
	EndAt       time.Time `json:"endAt"`
	Watermark   Watermark `json:"watermark"`
}

// IssueDigital issues a digital rental license against a paid rental order
// item. Preconditions are checked in order: book with digital asset, paid
// rental order item, no active unexpired license for the (user, book) pair.
func (s *Service) IssueDigital(ctx context.Context, userID string, in DigitalInput) (DigitalOutput, error) {
	if s == nil || s.Q == nil || s.Pool == nil {
		return DigitalOutput{}, errors.New("rental service not configured")
	}
	uID, err := parseUUID(userID)
	if err != nil {
		return DigitalOutput{}, fmt.Errorf("invalid user id: %w", err)
	}
	bID, err := parseUUID(in.BookID)
	if err != nil {
		return DigitalOutput{}, fmt.Errorf("invalid book id: %w", err)
	}
	oiID, err := parseUUID(in.OrderItemID)
	if err != nil {
		return DigitalOutput{}, fmt.Errorf("invalid order item id: %w", err)
	}

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return DigitalOutput{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	qtx := s.Q.WithTx(tx)

	book, err := qtx.GetBookByID(ctx, bID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DigitalOutput{}, ErrNotFound
		}
		return DigitalOutput{}, err
	}
	if !book.HasDigital || !book.DigitalAssetRef.Valid {
		return DigitalOutput{}, ErrNoDigitalVersion
	}

	item, err := qtx.GetRentalOrderItem(ctx, dbgen.GetRentalOrderItemParams{ID: oiID, BookID: bID, UserID: uID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DigitalOutput{}, ErrNotFound
		}
		return DigitalOutput{}, err
	}
	if item.Format != dbgen.BookFormatDigital {
		return DigitalOutput{}, ErrNotFound
	}
	if !orderPaid(item.OrderStatus) {
		return DigitalOutput{}, ErrUnpaidRental
	}

	now := s.now()
	if dupErr := s.guardDuplicate(ctx, qtx, uID, bID, now); dupErr != nil {
		return DigitalOutput{}, dupErr
	}

	token, tokenHash, err := MintToken(s.TokenLength)
	if err != nil {
		return DigitalOutput{}, err
	}
	class, duration := DigitalDuration(in.RentalClass)
	endAt := now.Add(duration)

	licenseID := uuid.New()
	userName := ""
	if user, err := qtx.GetUserByID(ctx, uID); err == nil {
		userName = user.Name
	}
	mark := Watermark{
		UserID:            userID,
		UserName:          userName,
		LicenseID:         licenseID.String(),
		IssuedAt:          now.UTC().Format(time.RFC3339),
		DeviceFingerprint: strings.TrimSpace(in.DeviceFingerprint),
	}
	markJSON, err := json.Marshal(mark)
	if err != nil {
		return DigitalOutput{}, err
	}

	lic, err := qtx.CreateLicense(ctx, dbgen.CreateLicenseParams{
		ID:          pgtype.UUID{Bytes: licenseID, Valid: true},
		UserID:      uID,
		BookID:      bID,
		OrderItemID: oiID,
		Kind:        dbgen.LicenseKindDigital,
		RentalClass: class,
		IssuedAt:    pgtype.Timestamptz{Time: now, Valid: true},
		EndAt:       pgtype.Timestamptz{Time: endAt, Valid: true},
		TokenHash:   pgtype.Text{String: tokenHash, Valid: true},
		Watermark:   markJSON,
	})
	if err != nil {
		return DigitalOutput{}, s.mapLicenseInsertErr(ctx, err, uID, bID)
	}

	if _, err := qtx.InsertAccessLogEntry(ctx, dbgen.InsertAccessLogEntryParams{
		LicenseID: lic.ID,
		UserID:    uID,
		BookID:    bID,
		Event:     dbgen.AccessEventRENTALCREATED,
		Meta:      toJSON(map[string]any{"rentalClass": class, "endAt": endAt.UTC().Format(time.RFC3339)}),
	}); err != nil {
		return DigitalOutput{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return DigitalOutput{}, s.mapLicenseInsertErr(ctx, err, uID, bID)
	}

	s.afterIssue(ctx, lic, class)
	return DigitalOutput{
		LicenseID:   licenseID.String(),
		Token:       token,
		RentalClass: class,
		EndAt:       endAt,
		Watermark:   mark,
	}, nil
}

// HardcopyInput carries the request to issue a physical rental. A zero
// GuaranteeAmount means the deposit defaults to a share of the paid unit
// price.
type HardcopyInput struct {
	BookID          string          `json:"bookId" validate:"required,uuid"`
	OrderItemID     string          `json:"orderItemId" validate:"required,uuid"`
	RentalClass     string          `json:"rentalClass"`
	GuaranteeAmount int64           `json:"guaranteeAmount" validate:"gte=0"`
	ShippingAddress json.RawMessage `json:"shippingAddress"`
}

// HardcopyOutput returns the issued physical rental.
type HardcopyOutput struct {
	LicenseID        string    `json:"licenseId"`
	RentalClass      string    `json:"rentalClass"`
	EndAt            time.Time `json:"endAt"`
	RentalFee        int64     `json:"rentalFee"`
	GuaranteeAmount  int64     `json:"guaranteeAmount"`
	InitialCondition string    `json:"initialCondition"`
}

// IssueHardcopy issues a physical rental license, charging the guarantee
// deposit and atomically taking one copy from inventory.
func (s *Service) IssueHardcopy(ctx context.Context, userID string, in HardcopyInput) (HardcopyOutput, error) {
	if s == nil || s.Q == nil || s.Pool == nil {
		return HardcopyOutput{}, errors.New("rental service not configured")
	}
	uID, err := parseUUID(userID)
	if err != nil {
		return HardcopyOutput{}, fmt.Errorf("invalid user id: %w", err)
	}
	bID, err := parseUUID(in.BookID)
	if err != nil {
		return HardcopyOutput{}, fmt.Errorf("invalid book id: %w", err)
	}
	oiID, err := parseUUID(in.OrderItemID)
	if err != nil {
		return HardcopyOutput{}, fmt.Errorf("invalid order item id: %w", err)
	}

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return HardcopyOutput{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	qtx := s.Q.WithTx(tx)

	book, err := qtx.GetBookByID(ctx, bID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return HardcopyOutput{}, ErrNotFound
		}
		return HardcopyOutput{}, err
	}
	if !book.Active {
		return HardcopyOutput{}, ErrNotFound
	}

	item, err := qtx.GetRentalOrderItem(ctx, dbgen.GetRentalOrderItemParams{ID: oiID, BookID: bID, UserID: uID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return HardcopyOutput{}, ErrNotFound
		}
		return HardcopyOutput{}, err
	}
	if item.Format != dbgen.BookFormatPhysical {
		return HardcopyOutput{}, ErrNotFound
	}
	if !orderPaid(item.OrderStatus) {
		return HardcopyOutput{}, ErrUnpaidRental
	}

	now := s.now()
	if dupErr := s.guardDuplicate(ctx, qtx, uID, bID, now); dupErr != nil {
		return HardcopyOutput{}, dupErr
	}

	// decrement-with-floor; zero rows means the last copy went to someone else
	rows, err := qtx.DecrementBookInventory(ctx, bID)
	if err != nil {
		return HardcopyOutput{}, err
	}
	if rows == 0 {
		return HardcopyOutput{}, ErrInsufficientInventory
	}

	class, duration, feeBps := HardcopyTerms(in.RentalClass)
	endAt := now.Add(duration)
	guarantee := in.GuaranteeAmount
	if guarantee <= 0 {
		guarantee = GuaranteeAmount(item.UnitPrice, s.GuaranteeBps)
	}
	fee := RentalFee(item.UnitPrice, feeBps)

	licenseID := uuid.New()
	lic, err := qtx.CreateLicense(ctx, dbgen.CreateLicenseParams{
		ID:               pgtype.UUID{Bytes: licenseID, Valid: true},
		UserID:           uID,
		BookID:           bID,
		OrderItemID:      oiID,
		Kind:             dbgen.LicenseKindHardcopy,
		RentalClass:      class,
		IssuedAt:         pgtype.Timestamptz{Time: now, Valid: true},
		EndAt:            pgtype.Timestamptz{Time: endAt, Valid: true},
		GuaranteeAmount:  pgtype.Int8{Int64: guarantee, Valid: true},
		ShippingAddress:  normaliseJSON(in.ShippingAddress),
		InitialCondition: pgtype.Text{String: InitialCondition, Valid: true},
	})
	if err != nil {
		return HardcopyOutput{}, s.mapLicenseInsertErr(ctx, err, uID, bID)
	}

	if _, err := qtx.InsertAccessLogEntry(ctx, dbgen.InsertAccessLogEntryParams{
		LicenseID: lic.ID,
		UserID:    uID,
		BookID:    bID,
		Event:     dbgen.AccessEventRENTALCREATED,
		Meta:      toJSON(map[string]any{"rentalClass": class, "endAt": endAt.UTC().Format(time.RFC3339)}),
	}); err != nil {
		return HardcopyOutput{}, err
	}
	if _, err := qtx.InsertAccessLogEntry(ctx, dbgen.InsertAccessLogEntryParams{
		LicenseID: lic.ID,
		UserID:    uID,
		BookID:    bID,
		Event:     dbgen.AccessEventGUARANTEECHARGED,
		Meta:      toJSON(map[string]any{"amount": guarantee}),
	}); err != nil {
		return HardcopyOutput{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return HardcopyOutput{}, s.mapLicenseInsertErr(ctx, err, uID, bID)
	}

	s.afterIssue(ctx, lic, class)
	return HardcopyOutput{
		LicenseID:        licenseID.String(),
		RentalClass:      class,
		EndAt:            endAt,
		RentalFee:        fee,
		GuaranteeAmount:  guarantee,
		InitialCondition: InitialCondition,
	}, nil
}

// VerifyInput is the access verification request for a digital license.
type VerifyInput struct {
	LicenseID string
	Token     string
	UserID    string
	BookID    string
}

// VerifyOutput grants access to the digital asset.
type VerifyOutput struct {
	AssetRef    string    `json:"assetRef"`
	AccessCount int32     `json:"accessCount"`
	EndAt       time.Time `json:"endAt"`
	Watermark   Watermark `json:"watermark"`
}

// VerifyAccess checks the license, token, and end date, then records the
// read. The end date wins over a stale active flag: an expired license is
// closed on sight.
func (s *Service) VerifyAccess(ctx context.Context, in VerifyInput) (VerifyOutput, error) {
	if s == nil || s.Q == nil {
		return VerifyOutput{}, errors.New("rental service not configured")
	}
	licID, err := parseUUID(in.LicenseID)
	if err != nil {
		return VerifyOutput{}, fmt.Errorf("invalid license id: %w", err)
	}
	uID, err := parseUUID(in.UserID)
	if err != nil {
		return VerifyOutput{}, fmt.Errorf("invalid user id: %w", err)
	}
	bID, err := parseUUID(in.BookID)
	if err != nil {
		return VerifyOutput{}, fmt.Errorf("invalid book id: %w", err)
	}

	lic, err := s.Q.GetLicenseByID(ctx, licID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.countVerify("not_found")
			return VerifyOutput{}, ErrNotFound
		}
		return VerifyOutput{}, err
	}
	if lic.UserID != uID || lic.BookID != bID || lic.Kind != dbgen.LicenseKindDigital {
		s.countVerify("not_found")
		return VerifyOutput{}, ErrNotFound
	}

	now := s.now()
	if err := verifyDecision(lic, in.Token, now); err != nil {
		if errors.Is(err, ErrLicenseExpired) {
			s.expireNow(ctx, lic)
		}
		s.countVerify(verifyLabel(err))
		return VerifyOutput{}, err
	}

	updated, err := s.Q.RecordLicenseAccess(ctx, licID)
	if err != nil {
		return VerifyOutput{}, err
	}
	_, _ = s.Q.InsertAccessLogEntry(ctx, dbgen.InsertAccessLogEntryParams{
		LicenseID: licID,
		UserID:    uID,
		BookID:    bID,
		Event:     dbgen.AccessEventRENTALREAD,
		Meta:      toJSON(map[string]any{"accessCount": updated.AccessCount}),
	})
	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicRentalRead, licID, map[string]any{
			"licenseId":   in.LicenseID,
			"accessCount": updated.AccessCount,
		})
	}
	s.countVerify("granted")

	assetRef := ""
	if book, err := s.Q.GetBookByID(ctx, bID); err == nil && book.DigitalAssetRef.Valid {
		assetRef = book.DigitalAssetRef.String
	}
	var mark Watermark
	_ = json.Unmarshal(lic.Watermark, &mark)
	return VerifyOutput{
		AssetRef:    assetRef,
		AccessCount: updated.AccessCount,
		EndAt:       lic.EndAt.Time,
		Watermark:   mark,
	}, nil
}

// ReturnInput describes a hardcopy return.
type ReturnInput struct {
	Condition string `json:"condition"`
}

// ReturnOutput reports the closed license and deposit refund.
type ReturnOutput struct {
	LicenseID       string `json:"licenseId"`
	ReturnCondition string `json:"returnCondition"`
	RefundAmount    int64  `json:"refundAmount"`
}

// Return closes a license. Hardcopy returns restock the copy and refund the
// guarantee according to the returned condition. Returning is terminal.
func (s *Service) Return(ctx context.Context, userID, licenseID string, in ReturnInput) (ReturnOutput, error) {
	if s == nil || s.Q == nil || s.Pool == nil {
		return ReturnOutput{}, errors.New("rental service not configured")
	}
	uID, err := parseUUID(userID)
	if err != nil {
		return ReturnOutput{}, fmt.Errorf("invalid user id: %w", err)
	}
	licID, err := parseUUID(licenseID)
	if err != nil {
		return ReturnOutput{}, fmt.Errorf("invalid license id: %w", err)
	}

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return ReturnOutput{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	qtx := s.Q.WithTx(tx)

	lic, err := qtx.GetLicenseByID(ctx, licID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ReturnOutput{}, ErrNotFound
		}
		return ReturnOutput{}, err
	}
	if lic.UserID != uID {
		return ReturnOutput{}, ErrNotFound
	}

	condition := normaliseCondition(in.Condition)
	var refund int64
	if lic.GuaranteeAmount.Valid {
		refund = RefundForCondition(lic.GuaranteeAmount.Int64, condition)
	}

	closed, err := qtx.CloseLicense(ctx, dbgen.CloseLicenseParams{
		ID:              licID,
		ReturnCondition: pgtype.Text{String: condition, Valid: true},
		RefundAmount:    pgtype.Int8{Int64: refund, Valid: lic.GuaranteeAmount.Valid},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// already returned or expired
			return ReturnOutput{}, ErrLicenseInactive
		}
		return ReturnOutput{}, err
	}

	if closed.Kind == dbgen.LicenseKindHardcopy {
		if err := qtx.RestockBookInventory(ctx, closed.BookID); err != nil {
			return ReturnOutput{}, err
		}
	}
	if _, err := qtx.InsertAccessLogEntry(ctx, dbgen.InsertAccessLogEntryParams{
		LicenseID: licID,
		UserID:    uID,
		BookID:    closed.BookID,
		Event:     dbgen.AccessEventRETURNED,
		Meta:      toJSON(map[string]any{"condition": condition, "refund": refund}),
	}); err != nil {
		return ReturnOutput{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return ReturnOutput{}, err
	}

	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicRentalReturned, licID, map[string]any{
			"licenseId": licenseID,
			"condition": condition,
			"refund":    refund,
		})
	}
	return ReturnOutput{LicenseID: licenseID, ReturnCondition: condition, RefundAmount: refund}, nil
}

// Expire closes a license whose end date has passed. Used by the sweep
// worker; a zero row count means the license was already closed or is not
// yet due.
func (s *Service) Expire(ctx context.Context, licenseID string) (bool, error) {
	if s == nil || s.Q == nil {
		return false, errors.New("rental service not configured")
	}
	licID, err := parseUUID(licenseID)
	if err != nil {
		return false, fmt.Errorf("invalid license id: %w", err)
	}
	lic, err := s.Q.GetLicenseByID(ctx, licID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	rows, err := s.Q.ExpireLicense(ctx, licID)
	if err != nil {
		return false, err
	}
	if rows == 0 {
		return false, nil
	}
	s.logExpiry(ctx, lic)
	return true, nil
}

// SweepExpired closes up to limit licenses past their end date.
func (s *Service) SweepExpired(ctx context.Context, limit int32) (int, error) {
	if s == nil || s.Q == nil {
		return 0, errors.New("rental service not configured")
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.Q.ListExpiredActiveLicenses(ctx, limit)
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, row := range rows {
		n, err := s.Q.ExpireLicense(ctx, row.ID)
		if err != nil {
			return expired, err
		}
		if n == 0 {
			continue
		}
		expired++
		s.logExpiry(ctx, dbgen.License{ID: row.ID, UserID: row.UserID, BookID: row.BookID, Kind: row.Kind})
	}
	return expired, nil
}

// guardDuplicate enforces one active license per (user, book). A stale
// active license past its end date is closed instead of blocking the issue.
func (s *Service) guardDuplicate(ctx context.Context, qtx Querier, uID, bID pgtype.UUID, now time.Time) error {
	existing, err := qtx.FindActiveLicense(ctx, dbgen.FindActiveLicenseParams{UserID: uID, BookID: bID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	if existing.EndAt.Valid && !existing.EndAt.Time.After(now) {
		if _, err := qtx.ExpireLicense(ctx, existing.ID); err != nil {
			return err
		}
		_, _ = qtx.InsertAccessLogEntry(ctx, dbgen.InsertAccessLogEntryParams{
			LicenseID: existing.ID,
			UserID:    uID,
			BookID:    bID,
			Event:     dbgen.AccessEventEXPIRED,
			Meta:      []byte(`{}`),
		})
		return nil
	}
	return &DuplicateActiveRentalError{ExistingLicenseID: uuidString(existing.ID)}
}

// mapLicenseInsertErr converts the partial unique index violation into a
// DuplicateActiveRentalError carrying the winning license id.
func (s *Service) mapLicenseInsertErr(ctx context.Context, err error, uID, bID pgtype.UUID) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	existing, lookupErr := s.Q.FindActiveLicense(ctx, dbgen.FindActiveLicenseParams{UserID: uID, BookID: bID})
	if lookupErr != nil {
		return &DuplicateActiveRentalError{}
	}
	return &DuplicateActiveRentalError{ExistingLicenseID: uuidString(existing.ID)}
}

func (s *Service) afterIssue(ctx context.Context, lic dbgen.License, class string) {
	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicRentalCreated, lic.ID, map[string]any{
			"licenseId":   uuidString(lic.ID),
			"kind":        string(lic.Kind),
			"rentalClass": class,
		})
	}
	if obs.LicensesIssuedTotal != nil {
		obs.LicensesIssuedTotal.WithLabelValues(string(lic.Kind), class).Inc()
	}
	if s.Sched != nil && lic.EndAt.Valid {
		_ = s.Sched.ScheduleExpiry(ctx, uuidString(lic.ID), lic.EndAt.Time)
	}
}

func (s *Service) expireNow(ctx context.Context, lic dbgen.License) {
	rows, err := s.Q.ExpireLicense(ctx, lic.ID)
	if err != nil || rows == 0 {
		return
	}
	s.logExpiry(ctx, lic)
}

func (s *Service) logExpiry(ctx context.Context, lic dbgen.License) {
	_, _ = s.Q.InsertAccessLogEntry(ctx, dbgen.InsertAccessLogEntryParams{
		LicenseID: lic.ID,
		UserID:    lic.UserID,
		BookID:    lic.BookID,
		Event:     dbgen.AccessEventEXPIRED,
		Meta:      []byte(`{}`),
	})
	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicRentalExpired, lic.ID, map[string]any{
			"licenseId": uuidString(lic.ID),
		})
	}
	if obs.LicensesExpiredTotal != nil {
		obs.LicensesExpiredTotal.Inc()
	}
}

func (s *Service) countVerify(result string) {
	if obs.LicenseVerifyTotal != nil {
		obs.LicenseVerifyTotal.WithLabelValues(result).Inc()
	}
}

// verifyDecision applies the access rules to a loaded license. The end date
// check runs last so an expired-but-active license still reports expiry
// rather than an inactive error.
func verifyDecision(lic dbgen.License, token string, now time.Time) error {
	if lic.Returned {
		return ErrLicenseInactive
	}
	if !TokenMatches(token, textValue(lic.TokenHash)) {
		return ErrInvalidToken
	}
	if lic.EndAt.Valid && !lic.EndAt.Time.After(now) {
		return ErrLicenseExpired
	}
	if !lic.Active {
		return ErrLicenseInactive
	}
	return nil
}

func verifyLabel(err error) string {
	switch {
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, ErrLicenseExpired):
		return "expired"
	case errors.Is(err, ErrLicenseInactive):
		return "inactive"
	default:
		return "denied"
	}
}

// Return conditions and their refund share of the guarantee in basis points.
const (
	ConditionExcellent = "EXCELLENT"
	ConditionGood      = "GOOD"
	ConditionFair      = "FAIR"
	ConditionPoor      = "POOR"
	ConditionDamaged   = "DAMAGED"
)

// RefundForCondition computes the deposit refund for a returned copy.
func RefundForCondition(guarantee int64, condition string) int64 {
	if guarantee <= 0 {
		return 0
	}
	var bps int64
	switch condition {
	case ConditionExcellent:
		bps = 10000
	case ConditionGood:
		bps = 9000
	case ConditionFair:
		bps = 7000
	case ConditionPoor:
		bps = 4000
	case ConditionDamaged:
		bps = 0
	default:
		bps = 10000
	}
	return (guarantee * bps) / 10000
}

func normaliseCondition(condition string) string {
	c := strings.ToUpper(strings.TrimSpace(condition))
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor, ConditionDamaged:
		return c
	default:
		return ConditionExcellent
	}
}

func normaliseJSON(raw json.RawMessage) []byte {
	if len(raw) == 0 || !json.Valid(raw) {
		return []byte(`{}`)
	}
	return raw
}

func toJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte(`{}`)
	}
	return b
}

func parseUUID(value string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
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

func textValue(v pgtype.Text) string {
	if !v.Valid {
		return ""
	}
	return v.String
}

func orderPaid(status dbgen.OrderStatus) bool {
	switch status {
	case dbgen.OrderStatusPAID, dbgen.OrderStatusPROCESSING, dbgen.OrderStatusSHIPPED, dbgen.OrderStatusDELIVERED:
		return true
	default:
		return false
	}
}
