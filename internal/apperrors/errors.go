package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrUnbalanced indicates a journal whose debit and credit sums differ.
var ErrUnbalanced = errors.New("journal debits and credits do not balance")

// ErrNoOpenPeriod indicates that no accounting period is currently open.
var ErrNoOpenPeriod = errors.New("no open accounting period")

// ErrAlreadyPosted indicates an operation that requires a DRAFT journal was
// attempted on a POSTED one.
var ErrAlreadyPosted = errors.New("journal is already posted")

// ErrNotPosted indicates an operation that requires a POSTED journal was
// attempted on a DRAFT one.
var ErrNotPosted = errors.New("journal is not posted")

// ErrAlreadyClosed indicates the period has already been closed.
var ErrAlreadyClosed = errors.New("period is already closed")

// ErrNotClosed indicates the period is not closed.
var ErrNotClosed = errors.New("period is not closed")

// ErrUnclosedDrafts indicates a period close was blocked by draft journals.
var ErrUnclosedDrafts = errors.New("period has unposted draft journals")

// ErrZakatImmutable indicates an attempt to unpost a zakat journal; zakat
// postings are permanent by policy.
var ErrZakatImmutable = errors.New("zakat journals cannot be unposted")

// ErrNotMostRecent indicates an attempt to reverse a period close out of
// reverse chronological order.
var ErrNotMostRecent = errors.New("period is not the most recently closed")
