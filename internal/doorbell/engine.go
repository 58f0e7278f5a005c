package doorbell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/smart-door/smart_door/internal/event"
	"github.com/smart-door/smart_door/internal/faces"
	"github.com/smart-door/smart_door/internal/frame"
	"github.com/smart-door/smart_door/internal/notification"
	"github.com/smart-door/smart_door/internal/passcode"
	"github.com/smart-door/smart_door/internal/storage"
	"github.com/smart-door/smart_door/internal/visitor"
)

// ErrUnknownIdentityKey means the face directory matched an identity the
// visitor ledger has no record of. A data-integrity signal between the two
// stores; logged, not retried.
var ErrUnknownIdentityKey = errors.New("identity key missing from visitor ledger")

// Branch names which workflow a capture ran.
type Branch string

const (
	// BranchKnown is the returning-visitor workflow.
	BranchKnown Branch = "known"
	// BranchUnknown is the owner-review workflow.
	BranchUnknown Branch = "unknown"
)

// Outcome reports the branch a capture executed. By the time it is returned
// every side effect of that branch has been committed.
type Outcome struct {
	Branch      Branch
	IdentityKey string
}

// Config is the doorbell-specific configuration handed to the engine at
// construction time.
type Config struct {
	UnknownVisitorKey string
	OwnerPhoneNumber  string
	OwnerReviewURL    string
	VisitorVerifyURL  string
	PasscodeTTL       time.Duration
}

// Engine classifies capture events as known or unknown visitors and runs the
// matching workflow. Steps are strictly sequential; a failure aborts the
// remaining steps and leaves prior side effects committed.
type Engine struct {
	cfg       Config
	frames    frame.Extractor
	directory faces.Directory
	store     storage.ObjectStore
	visitors  *visitor.Service
	passcodes *passcode.Issuer
	notifier  notification.Notifier
	logger    *slog.Logger
	now       func() time.Time
}

// NewEngine wires the decision engine from its collaborators.
func NewEngine(
	cfg Config,
	frames frame.Extractor,
	directory faces.Directory,
	store storage.ObjectStore,
	visitors *visitor.Service,
	passcodes *passcode.Issuer,
	notifier notification.Notifier,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		cfg:       cfg,
		frames:    frames,
		directory: directory,
		store:     store,
		visitors:  visitors,
		passcodes: passcodes,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// HandleCapture runs one capture event through the pipeline: still frame,
// match result, then the returning-visitor or unknown-visitor workflow.
func (e *Engine) HandleCapture(ctx context.Context, env event.Envelope) (Outcome, error) {
	loc := frame.Locator{
		Stream:   env.Input.KinesisVideo.StreamName,
		Fragment: env.Input.KinesisVideo.FragmentNumber,
	}

	img, err := e.frames.Extract(ctx, loc)
	if err != nil {
		return Outcome{}, fmt.Errorf("extract frame for %s: %w", loc.Stream, err)
	}

	// The stream processor usually embeds its own face-search result in the
	// envelope; only captures arriving without one are matched here.
	res, ok := env.MatchResult()
	if !ok {
		res, err = e.directory.Match(ctx, img)
		if err != nil {
			return Outcome{}, fmt.Errorf("match capture: %w", err)
		}
	}

	if res.Matched() {
		if err := e.handleReturningVisitor(ctx, res.IdentityKey, img); err != nil {
			return Outcome{}, err
		}
		return Outcome{Branch: BranchKnown, IdentityKey: res.IdentityKey}, nil
	}

	if err := e.handleUnknownVisitor(ctx, img); err != nil {
		return Outcome{}, err
	}
	return Outcome{Branch: BranchUnknown}, nil
}

// handleReturningVisitor archives the frame under the visitor's own prefix,
// enrolls it for incremental training, appends it to the ledger history,
// issues a passcode and texts it to the visitor.
func (e *Engine) handleReturningVisitor(ctx context.Context, identityKey string, img []byte) error {
	// A fresh token per capture keeps concurrent invocations for the same
	// identity from colliding on a key.
	key := identityKey + "/" + uuid.NewString() + ".jpg"

	ref, err := e.store.Put(ctx, key, img)
	if err != nil {
		return fmt.Errorf("archive visitor image: %w", err)
	}

	faceID, err := e.directory.Enroll(ctx, ref, identityKey)
	if err != nil {
		return fmt.Errorf("enroll %s: %w", identityKey, err)
	}

	updated, err := e.visitors.AppendPhoto(ctx, identityKey, visitor.PhotoRecord{
		ObjectKey: ref.Key,
		Bucket:    ref.Bucket,
		CreatedAt: e.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, visitor.ErrNotFound) {
			e.logger.Error("face directory matched an identity absent from the ledger",
				"identity_key", identityKey, "face_id", faceID)
			return fmt.Errorf("%w: %s", ErrUnknownIdentityKey, identityKey)
		}
		return err
	}

	code, err := e.passcodes.Issue(ctx, updated.PhoneNumber)
	if err != nil {
		return fmt.Errorf("issue passcode for %s: %w", identityKey, err)
	}

	body := notification.ReturningVisitorMessage(code.Code, identityKey, e.cfg.VisitorVerifyURL, e.cfg.PasscodeTTL)
	if err := e.notifier.Send(ctx, notification.Message{
		Kind:        notification.KindReturningVisitor,
		Destination: updated.PhoneNumber,
		Body:        body,
	}); err != nil {
		return fmt.Errorf("notify visitor %s: %w", identityKey, err)
	}

	e.logger.Info("returning visitor handled",
		"identity_key", identityKey, "object_key", ref.Key, "face_id", faceID)
	return nil
}

// handleUnknownVisitor overwrites the single current-visitor slot and sends
// the owner a review request. Unknown visitors are not enrolled and carry no
// history.
func (e *Engine) handleUnknownVisitor(ctx context.Context, img []byte) error {
	ref, err := e.store.Put(ctx, e.cfg.UnknownVisitorKey, img)
	if err != nil {
		return fmt.Errorf("archive unknown visitor image: %w", err)
	}

	if err := e.notifier.Send(ctx, notification.Message{
		Kind:        notification.KindOwnerReview,
		Destination: e.cfg.OwnerPhoneNumber,
		Body:        notification.OwnerReviewMessage(e.cfg.OwnerReviewURL),
	}); err != nil {
		return fmt.Errorf("notify owner: %w", err)
	}

	e.logger.Info("unknown visitor handled", "object_key", ref.Key)
	return nil
}
