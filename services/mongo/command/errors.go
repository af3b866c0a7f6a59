package command

import (
	"fmt"

	"github.com/civicfix/civicback/services/apperr"
	"go.mongodb.org/mongo-driver/mongo"
)

// wrapWriteError marks unique-index violations with apperr.ErrDuplicate.
func wrapWriteError(err error) error {
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", apperr.ErrDuplicate, err)
	}
	return err
}
