// Package errors defines the fault taxonomy of trainer-api and the
// classifier that turns any fault into the status, message and code a
// caller is answered with.
//
// There are three kinds of fault:
//   - HTTP-aware faults declare their own status and a caller-safe message.
//     *Error is the common one; build it with the typed constructors or
//     FromReason for registered reasons.
//   - Storage faults come from the persistence layer. Repositories wrap
//     driver errors with Storage so the driver text stays in the cause.
//   - Anything else is unanticipated.
//
// # Basic Usage
//
// Creating errors:
//
//	err := errors.NotFound("client not found")
//	err := errors.FromReason(errors.ReasonDuplicateEmail)
//
// Wrapping driver errors in a repository:
//
//	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
//	    return nil, errors.Storage(err, "create", "failed to save client")
//	}
//
// Wrapping keeps the declared status and reason of the cause:
//
//	if err := repo.Get(ctx, input); err != nil {
//	    return nil, errors.Wrap(err, "failed to get client")
//	}
//
// # Classification
//
// Classify walks the whole cause chain. The first HTTP-aware fault wins,
// then the first storage fault (always 400), then the 500 fallback. The
// first code declared anywhere in the chain is always kept:
//
//	c := errors.Classify(err)
//	// c.StatusCode, c.Message, c.ErrorCode
//
// Classify never panics and always returns a status between 100 and 599.
package errors
