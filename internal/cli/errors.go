package cli

import (
	"github.com/pkg/errors"

	"github.com/WaelFer/BooksApp/internal/store"
)

var errSaveFailed = errors.New("something went wrong while accessing the catalog")

// userError turns a store error into what the user should see. Validation
// and not-found messages are shown as is, storage failures get a generic
// notice since the details are in the log.
func userError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrValidation), errors.Is(err, store.ErrNotFound):
		return err
	case errors.Is(err, store.ErrPersistence):
		return errSaveFailed
	default:
		return err
	}
}
