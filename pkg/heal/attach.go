package heal

import (
	"encoding/json"
)

// DefaultAttachmentName is used by AttachToReport when name is empty.
const DefaultAttachmentName = "self-healing-log"

// AttachToReport hands the ledger to sink as an indented JSON document.
// Failures are logged and never returned, so a broken report sink cannot
// fail the surrounding test.
func (l *Locator) AttachToReport(sink AttachmentSink, name string) {
	if name == "" {
		name = DefaultAttachmentName
	}
	if sink == nil {
		l.logger.Warnf("Failed to attach healing log %q: no sink", name)
		return
	}

	payload, err := json.MarshalIndent(l.Log(), "", "  ")
	if err != nil {
		l.logger.Warnf("Failed to encode healing log %q: %v", name, err)
		return
	}

	if err := sink.Attach(name, "application/json", payload); err != nil {
		l.logger.Warnf("Failed to attach healing log %q: %v", name, err)
	}
}
