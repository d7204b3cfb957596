package ageverify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/mssola/useragent"

	"botilleria/internal/ageverify/metrics"
	"botilleria/internal/ageverify/store"
	dErrors "botilleria/pkg/domain-errors"
	audit "botilleria/pkg/platform/audit"
	"botilleria/pkg/platform/sentinel"
	"botilleria/pkg/requestcontext"
)

// DefaultMinimumAge is the legal purchase age under Law 19.925.
const DefaultMinimumAge = 18

// DefaultRecordTTL bounds how long a verification outcome stays valid. Past
// this window the record is treated as absent and the user is re-prompted.
const DefaultRecordTTL = 24 * time.Hour

// AuditPublisher is the fire-and-forget port to the compliance trail. Emit
// must never block or fail the caller.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// Service owns the age-verification state machine for a browsing session:
// Unverified → Verified (time-bounded) → Expired → re-prompt, with explicit
// decline as a distinct terminal outcome for the current interaction.
type Service struct {
	kv         store.KV
	auditor    AuditPublisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	minimumAge int
	ttl        time.Duration
}

// NewService constructs the verification service. minimumAge and ttl fall
// back to the Law 19.925 defaults when zero.
func NewService(kv store.KV, auditor AuditPublisher, logger *slog.Logger, m *metrics.Metrics, minimumAge int, ttl time.Duration) *Service {
	if minimumAge <= 0 {
		minimumAge = DefaultMinimumAge
	}
	if ttl <= 0 {
		ttl = DefaultRecordTTL
	}
	return &Service{
		kv:         kv,
		auditor:    auditor,
		logger:     logger,
		metrics:    m,
		minimumAge: minimumAge,
		ttl:        ttl,
	}
}

// VerifyInput carries one verification form submission.
type VerifyInput struct {
	BirthDate string
	Method    Method // defaults to MethodBirthdate
	// MinimumAge overrides the service default for this call site (e.g. 21
	// for certain product categories). Zero means the default.
	MinimumAge int
}

// Verify runs the age check for the current session and, on success,
// transitions the session to Verified and persists the record.
//
// Errors map to the three form-level failure kinds: CodeMissingInput,
// CodeInvalidInput, and CodeUnderage. The underage message includes the
// minimum age actually enforced.
func (s *Service) Verify(ctx context.Context, input VerifyInput) (*VerificationRecord, error) {
	sessionID := requestcontext.SessionID(ctx)
	if sessionID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInternal, "browsing session missing from context")
	}
	now := requestcontext.Now(ctx)

	minimumAge := input.MinimumAge
	if minimumAge <= 0 {
		minimumAge = s.minimumAge
	}
	method := input.Method
	if method == "" {
		method = MethodBirthdate
	}
	if method == MethodDeclined {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "use Decline for a declined verification")
	}

	birthDate, err := ParseBirthDate(input.BirthDate, now)
	if err != nil {
		s.metrics.IncrementAttempt(string(dErrors.CodeOf(err)))
		return nil, err
	}

	if !IsOldEnough(birthDate, minimumAge, now) {
		s.metrics.IncrementAttempt("underage")
		s.emit(ctx, audit.Event{
			SessionID:     sessionID,
			Action:        audit.ActionVerificationUnderage,
			Method:        string(method),
			Success:       false,
			Reason:        "underage",
			MinimumAge:    minimumAge,
			BirthDateHash: hashBirthDate(birthDate),
		})
		return nil, dErrors.Newf(dErrors.CodeUnderage,
			"you must be at least %d years old to purchase alcohol; submitted age is %d",
			minimumAge, ComputeAge(birthDate, now))
	}

	record := VerificationRecord{
		SessionID:  sessionID,
		Method:     method,
		BirthDate:  birthDate,
		VerifiedAt: now,
	}
	if err := s.save(ctx, record); err != nil {
		return nil, err
	}

	s.metrics.IncrementAttempt("success")
	// The state transition above is already complete; the audit emission is
	// fire-and-forget and cannot undo it.
	s.emit(ctx, audit.Event{
		SessionID:     sessionID,
		Action:        audit.ActionVerificationSucceeded,
		Method:        string(method),
		Success:       true,
		MinimumAge:    minimumAge,
		BirthDateHash: hashBirthDate(birthDate),
	})

	return &record, nil
}

// Decline records an explicit user cancellation so controlling flows can
// redirect away from the restricted action instead of re-prompting.
func (s *Service) Decline(ctx context.Context) (*VerificationRecord, error) {
	sessionID := requestcontext.SessionID(ctx)
	if sessionID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInternal, "browsing session missing from context")
	}
	now := requestcontext.Now(ctx)

	record := VerificationRecord{
		SessionID:  sessionID,
		Method:     MethodDeclined,
		VerifiedAt: now,
	}
	if err := s.save(ctx, record); err != nil {
		return nil, err
	}

	s.metrics.IncrementAttempt("declined")
	s.emit(ctx, audit.Event{
		SessionID: sessionID,
		Action:    audit.ActionVerificationDeclined,
		Method:    string(MethodDeclined),
		Success:   false,
		Reason:    "user declined",
	})

	return &record, nil
}

// Status resolves the session's current gate state, checking expiry lazily.
// An expired record is deleted on observation and the transition audited, so
// each expiry is recorded once.
func (s *Service) Status(ctx context.Context) (Status, error) {
	sessionID := requestcontext.SessionID(ctx)
	if sessionID.IsNil() {
		return Status{}, dErrors.New(dErrors.CodeInternal, "browsing session missing from context")
	}
	now := requestcontext.Now(ctx)
	key := store.KeyPrefix + sessionID.String()

	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, sentinel.ErrNotFound) {
		s.metrics.IncrementGateRead(string(StateUnverified))
		return Status{State: StateUnverified}, nil
	}
	if err != nil {
		return Status{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read verification record")
	}

	record, err := DecodeRecord(data)
	if err != nil {
		// A record that fails shape validation is worthless as proof; drop it
		// and re-prompt.
		s.logger.WarnContext(ctx, "discarding malformed verification record",
			"session_id", sessionID,
			"error", err.Error(),
		)
		_ = s.kv.Delete(ctx, key)
		s.metrics.IncrementGateRead(string(StateUnverified))
		return Status{State: StateUnverified}, nil
	}

	if !record.IsCurrent(now, s.ttl) {
		_ = s.kv.Delete(ctx, key)
		s.metrics.IncrementGateRead(string(StateExpired))
		s.emit(ctx, audit.Event{
			SessionID: sessionID,
			Action:    audit.ActionVerificationExpired,
			Method:    string(record.Method),
			Success:   false,
			Reason:    "verification window elapsed",
		})
		return Status{State: StateExpired}, nil
	}

	if record.Method == MethodDeclined {
		s.metrics.IncrementGateRead(string(StateDeclined))
		return Status{State: StateDeclined, Record: &record}, nil
	}

	s.metrics.IncrementGateRead(string(StateVerified))
	return Status{State: StateVerified, Record: &record}, nil
}

// RequireVerified is the checkout gate: it resolves the session state and
// fails with a coded error unless a current verification exists. Successful
// replays of a prior verification are audited.
func (s *Service) RequireVerified(ctx context.Context) error {
	status, err := s.Status(ctx)
	if err != nil {
		return err
	}

	switch status.State {
	case StateVerified:
		s.emit(ctx, audit.Event{
			SessionID:     status.Record.SessionID,
			Action:        audit.ActionVerificationReplayed,
			Method:        string(status.Record.Method),
			Success:       true,
			BirthDateHash: hashBirthDate(status.Record.BirthDate),
		})
		return nil
	case StateDeclined:
		return dErrors.New(dErrors.CodeForbidden, "age verification was declined for this session")
	default:
		return dErrors.New(dErrors.CodeForbidden, "age verification required")
	}
}

// ClientAttempt is a verification attempt performed in the storefront,
// reported back for the server-side compliance trail.
type ClientAttempt struct {
	Method    Method
	Success   bool
	Reason    string
	BirthDate string // optional; only a hash reaches the trail
}

// RecordClientAttempt mirrors a storefront-side verification attempt into
// the compliance trail. It does not touch the session's server-side state;
// the storefront remains authoritative for its own gate.
func (s *Service) RecordClientAttempt(ctx context.Context, attempt ClientAttempt) error {
	sessionID := requestcontext.SessionID(ctx)
	if sessionID.IsNil() {
		return dErrors.New(dErrors.CodeInternal, "browsing session missing from context")
	}

	action := audit.ActionVerificationSucceeded
	if !attempt.Success {
		action = audit.ActionVerificationUnderage
	}

	var birthDateHash string
	if attempt.BirthDate != "" {
		birthDate, err := time.Parse(BirthDateLayout, attempt.BirthDate)
		if err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "invalid birth date format, expected YYYY-MM-DD")
		}
		birthDateHash = hashBirthDate(birthDate)
	}

	s.metrics.IncrementAttempt("client_reported")
	s.emit(ctx, audit.Event{
		SessionID:     sessionID,
		Action:        action,
		Method:        string(attempt.Method),
		Success:       attempt.Success,
		Reason:        attempt.Reason,
		MinimumAge:    s.minimumAge,
		BirthDateHash: birthDateHash,
	})
	return nil
}

func (s *Service) save(ctx context.Context, record VerificationRecord) error {
	data, err := EncodeRecord(record)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode verification record")
	}
	key := store.KeyPrefix + record.SessionID.String()
	// Storage-level ttl is only a gc backstop; expiry is decided at read time
	// from VerifiedAt so the transition can be observed and audited. Keep the
	// backstop past the logical window.
	if err := s.kv.Set(ctx, key, data, 2*s.ttl); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist verification record")
	}
	return nil
}

// emit enriches the event with request metadata and hands it to the
// fire-and-forget publisher.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	event.Timestamp = requestcontext.Now(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientIP = requestcontext.ClientIP(ctx)
	event.UserAgent = requestcontext.UserAgent(ctx)
	if event.UserAgent != "" {
		ua := useragent.New(event.UserAgent)
		name, version := ua.Browser()
		event.Browser = name + " " + version
		event.OS = ua.OS()
	}
	s.auditor.Emit(ctx, event)
}

func hashBirthDate(birthDate time.Time) string {
	if birthDate.IsZero() {
		return ""
	}
	sum := sha256.Sum256([]byte(birthDate.Format(BirthDateLayout)))
	return hex.EncodeToString(sum[:])
}
