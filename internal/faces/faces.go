package faces

import (
	"context"
	"errors"

	"github.com/smart-door/smart_door/internal/event"
	"github.com/smart-door/smart_door/internal/storage"
)

// ErrEnrollmentFailed means the directory rejected the image: no detectable
// face, or a backend error. Terminal for the returning-visitor workflow; an
// image the directory cannot learn from is not worth issuing a passcode for.
var ErrEnrollmentFailed = errors.New("face enrollment failed")

// Directory matches and enrolls facial images against a collection of
// identities.
type Directory interface {
	// Match searches the collection for the face in image. An unmatched
	// image is not an error; the zero MatchResult is returned.
	Match(ctx context.Context, image []byte) (event.MatchResult, error)

	// Enroll indexes an archived image under identityKey for incremental
	// training and returns the directory's face identifier.
	Enroll(ctx context.Context, ref storage.ObjectRef, identityKey string) (string, error)
}
