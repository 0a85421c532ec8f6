package qdmat

import "fmt"

// WarningConsumer receives non-fatal conditions encountered while reading
// input: internal/mtxio's reader reports a line that is malformed, has an
// out-of-range coordinate, or has an unparsable value, and skips it. It is
// structurally identical to internal/mtxio.Warner so any WarningConsumer
// can be passed directly to mtxio.NewReader without this package importing
// mtxio (and without mtxio importing this package).
type WarningConsumer interface {
	Warn(msg string)
}

// PanicConsumer escalates every warning to a panic. Useful in tests and in
// callers that treat input irregularities as bugs rather than data noise.
type PanicConsumer struct{}

func (PanicConsumer) Warn(msg string) {
	panic(fmt.Sprintf("qdmat: %s", msg))
}

// DiscardConsumer silently drops every warning, matching the teacher's
// default "errors ignored at the call site" posture for non-fatal paths.
type DiscardConsumer struct{}

func (DiscardConsumer) Warn(string) {}

// CollectingConsumer accumulates warnings in order for later inspection,
// e.g. surfacing them to a caller after a bulk construction completes.
type CollectingConsumer struct {
	Messages []string
}

func NewCollectingConsumer() *CollectingConsumer {
	return &CollectingConsumer{}
}

func (c *CollectingConsumer) Warn(msg string) {
	c.Messages = append(c.Messages, msg)
}
