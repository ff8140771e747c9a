// Package events defines the typed Record envelopes the core emits through
// an opaque EventSink (spec.md §4.11, §6). Records are immutable snapshots
// of inputs and outputs; the core never reads back from the sink.
package events

import "github.com/google/uuid"

// Record is implemented by every typed event the engine emits.
type Record interface {
	RecordType() string
}

// EventSink is the external collaborator records are emitted through
// (spec.md §6 "Event sink"). Emit MUST NOT return an error — it is
// fire-and-forget by contract.
type EventSink interface {
	Emit(Record)
}

// NoopSink discards every record. Useful for unit tests that don't care
// about the emitted audit trail.
type NoopSink struct{}

// Emit implements EventSink.
func (NoopSink) Emit(Record) {}

// CollectingSink accumulates every record in order, for tests that assert on
// the emitted sequence.
type CollectingSink struct {
	Records []Record
}

// Emit implements EventSink.
func (s *CollectingSink) Emit(r Record) { s.Records = append(s.Records, r) }

// envelope carries the fields common to every Record so a persistence layer
// can index/dedupe them uniformly (spec.md §9 "Use a single enum Record with
// per-variant fields").
type envelope struct {
	ID string
	TS int64
}

func newEnvelope(ts int64) envelope {
	return envelope{ID: uuid.NewString(), TS: ts}
}
