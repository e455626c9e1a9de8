// Package record converts raw log calls into immutable log records.
//
// A Record carries exactly four flat fields: the severity label, the tag,
// the message and the producer-assigned timestamp in epoch milliseconds.
// Construction is pure; callers are expected to have filtered empty
// messages before calling New.
package record
