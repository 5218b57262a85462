// Package access implements the card/door access verification engine.
//
// Verify decides GRANTED or DENIED for a card presented at a door, following
// a strict sequential precedence among denial conditions, and appends an
// audit log row for every attempt, internal failures included. A log-write
// failure never changes the verification outcome; an audit outage must not
// become an access-control outage.
package access

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"building-access-control/internal/storage"
)

// Store is the read side the engine consumes. Lookups return (nil, nil) when
// the row does not exist.
type Store interface {
	CardByUID(ctx context.Context, cardUID string) (*storage.CardDetail, error)
	DoorByID(ctx context.Context, id int64) (*storage.DoorDetail, error)
	PermissionsForRole(ctx context.Context, roleID int64, doorGroupIDs []int64) ([]storage.Permission, error)
}

// LogSink appends audit records. The engine treats it as fire-and-forget.
type LogSink interface {
	AppendAccessLog(ctx context.Context, entry storage.AccessLog) error
}

// Notifier receives best-effort security notifications. Implementations must
// not block verification.
type Notifier interface {
	CardAlert(ctx context.Context, cardUID string, cardStatus storage.CardStatus, doorID int64)
}

const (
	StatusGranted = "GRANTED"
	StatusDenied  = "DENIED"
)

// Denial reasons are part of the observable contract: downstream alerting
// and tests match on these exact strings.
const (
	ReasonCardNotFound     = "Card not found"
	ReasonEmployeeNotFound = "Employee not found"
	ReasonEmployeeInactive = "Employee is inactive"
	ReasonNoRole           = "Employee has no role assigned"
	ReasonDoorNotFound     = "Door not found"
	ReasonDoorNoGroups     = "Door has no groups assigned"
	ReasonNoPermission     = "No permission for this door"
	ReasonOutsideTimeRange = "Outside permitted time range"
	ReasonSystemError      = "System error"

	// Logged instead of ReasonSystemError so operators can tell internal
	// faults apart from ordinary denials in the audit trail.
	reasonSystemErrorLog = "System error during verification"
)

// ReasonCardStatus is the denial reason for a card that exists but is not
// ACTIVE, e.g. "Card is BLOCKED".
func ReasonCardStatus(status storage.CardStatus) string {
	return fmt.Sprintf("Card is %s", status)
}

// Result is the verification outcome returned to the caller. Verify is
// total: every path, internal failure included, resolves to a Result.
type Result struct {
	Status    string        `json:"status"`
	Message   string        `json:"message"`
	Timestamp string        `json:"timestamp"`
	Employee  *EmployeeInfo `json:"employee,omitempty"`
}

type EmployeeInfo struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Engine orchestrates resolvers, permission lookup, time evaluation and the
// log sink into the access decision.
type Engine struct {
	store    Store
	logs     LogSink
	notifier Notifier

	now    func() time.Time
	logger *slog.Logger

	droppedLogWrites atomic.Uint64
}

type Option func(*Engine)

// WithNotifier attaches a security notifier, called when a BLOCKED or LOST
// card is presented.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(store Store, logs LogSink, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		logs:   logs,
		now:    time.Now,
		logger: slog.With("component", "access"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Verify decides whether the card may open the door. It never returns an
// error and never panics outward: unexpected internal failures resolve to
// DENIED "System error". Exactly one audit log write is attempted per call.
func (e *Engine) Verify(ctx context.Context, cardUID string, doorID int64) (result Result) {
	timestamp := e.now().UTC().Format(time.RFC3339)

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Panic during access verification",
				"panic", r, "card_uid", cardUID, "door_id", doorID)
			result = e.systemError(ctx, cardUID, doorID, timestamp)
		}
	}()

	result, err := e.verify(ctx, cardUID, doorID, timestamp)
	if err != nil {
		e.logger.Error("Access verification failed",
			"error", err, "card_uid", cardUID, "door_id", doorID)
		return e.systemError(ctx, cardUID, doorID, timestamp)
	}
	return result
}

// verify walks the ordered checks. The first failing check decides the
// denial reason; later checks are not evaluated.
func (e *Engine) verify(ctx context.Context, cardUID string, doorID int64, timestamp string) (Result, error) {
	card, err := e.store.CardByUID(ctx, cardUID)
	if err != nil {
		return Result{}, err
	}
	if card == nil {
		return e.deny(ctx, cardUID, doorID, timestamp, ReasonCardNotFound), nil
	}

	if card.Status != storage.CardStatusActive {
		if e.notifier != nil && (card.Status == storage.CardStatusBlocked || card.Status == storage.CardStatusLost) {
			go e.notifier.CardAlert(context.WithoutCancel(ctx), cardUID, card.Status, doorID)
		}
		return e.deny(ctx, cardUID, doorID, timestamp, ReasonCardStatus(card.Status)), nil
	}

	if card.Employee == nil {
		return e.deny(ctx, cardUID, doorID, timestamp, ReasonEmployeeNotFound), nil
	}

	if card.Employee.Status != storage.EmployeeStatusActive {
		return e.deny(ctx, cardUID, doorID, timestamp, ReasonEmployeeInactive), nil
	}

	if card.Role == nil {
		return e.deny(ctx, cardUID, doorID, timestamp, ReasonNoRole), nil
	}

	door, err := e.store.DoorByID(ctx, doorID)
	if err != nil {
		return Result{}, err
	}
	if door == nil {
		return e.deny(ctx, cardUID, doorID, timestamp, ReasonDoorNotFound), nil
	}

	if len(door.Groups) == 0 {
		return e.deny(ctx, cardUID, doorID, timestamp, ReasonDoorNoGroups), nil
	}

	groupIDs := make([]int64, len(door.Groups))
	for i, g := range door.Groups {
		groupIDs[i] = g.ID
	}

	permissions, err := e.store.PermissionsForRole(ctx, card.Role.ID, groupIDs)
	if err != nil {
		return Result{}, err
	}
	if len(permissions) == 0 {
		return e.deny(ctx, cardUID, doorID, timestamp, ReasonNoPermission), nil
	}

	// First applicable grant wins, in store iteration order. Each group's
	// grant is independent; the (role, group) uniqueness constraint keeps
	// ALWAYS and TIME_BOUND from conflicting within one pair.
	for _, permission := range permissions {
		switch permission.AccessType {
		case storage.AccessAlways:
			return e.grant(ctx, card, doorID, timestamp, "Access granted"), nil

		case storage.AccessTimeBound:
			within, err := isWithinRangeAt(e.now(), door.Timezone, permission.StartTime, permission.EndTime)
			if err != nil {
				return Result{}, err
			}
			if within {
				return e.grant(ctx, card, doorID, timestamp, "Access granted (time-bound)"), nil
			}
		}
	}

	return e.deny(ctx, cardUID, doorID, timestamp, ReasonOutsideTimeRange), nil
}

func (e *Engine) grant(ctx context.Context, card *storage.CardDetail, doorID int64, timestamp, message string) Result {
	e.logAttempt(ctx, card.CardUID, doorID, storage.AccessGranted, nil)

	e.logger.Info("Access granted",
		"card_uid", card.CardUID, "door_id", doorID,
		"employee", card.Employee.Name, "role", card.Role.Name)

	return Result{
		Status:    StatusGranted,
		Message:   message,
		Timestamp: timestamp,
		Employee: &EmployeeInfo{
			Name: card.Employee.Name,
			Role: card.Role.Name,
		},
	}
}

func (e *Engine) deny(ctx context.Context, cardUID string, doorID int64, timestamp, reason string) Result {
	e.logAttempt(ctx, cardUID, doorID, storage.AccessDenied, &reason)

	e.logger.Warn("Access denied",
		"card_uid", cardUID, "door_id", doorID, "reason", reason)

	return Result{
		Status:    StatusDenied,
		Message:   reason,
		Timestamp: timestamp,
	}
}

func (e *Engine) systemError(ctx context.Context, cardUID string, doorID int64, timestamp string) Result {
	reason := reasonSystemErrorLog
	e.logAttempt(ctx, cardUID, doorID, storage.AccessDenied, &reason)

	return Result{
		Status:    StatusDenied,
		Message:   ReasonSystemError,
		Timestamp: timestamp,
	}
}

// logAttempt is the single point where audit writes happen and the single
// point where their failures are swallowed. A failed write increments an
// operator-facing counter and is logged, nothing more.
func (e *Engine) logAttempt(ctx context.Context, cardUID string, doorID int64, status storage.AccessStatus, denialReason *string) {
	entry := storage.AccessLog{
		CardUID:      cardUID,
		DoorID:       doorID,
		Status:       status,
		DenialReason: denialReason,
		Timestamp:    e.now().UTC(),
	}

	if err := e.logs.AppendAccessLog(ctx, entry); err != nil {
		e.droppedLogWrites.Add(1)
		e.logger.Error("Failed to append access log",
			"error", err, "card_uid", cardUID, "door_id", doorID)
	}
}

// DroppedLogWrites reports how many audit writes have been dropped since
// startup. Exposed for operator diagnostics; callers of Verify never see
// these failures.
func (e *Engine) DroppedLogWrites() uint64 {
	return e.droppedLogWrites.Load()
}
