package repositories

import (
	"errors"
	"strings"
)

var (
	ErrAllTagsExhausted   = errors.New("all color tags are in use by pending tickets")
	ErrTagAlreadyTaken    = errors.New("color tag already taken by a pending ticket")
	ErrTicketFinalized    = errors.New("ticket is finalized and can no longer be modified")
	ErrBinsStillInYard    = errors.New("ticket still has bins in yard, forced close requires confirmation")
	ErrBinNotDeletable    = errors.New("only bins in yard can be deleted")
	ErrBinNotDispatchable = errors.New("only bins in yard can be dispatched")
	ErrBinNotRevertible   = errors.New("only dispatched bins can be reverted")
	ErrDriverNotEligible  = errors.New("driver must be an active internal driver")
)

// ValidationError carries every violated field at once so the form can
// mark them all in a single round trip.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, ", ")
}

// isDuplicateTagError recognises a unique-index violation from the
// pending color tag index across the supported drivers.
func isDuplicateTagError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}
