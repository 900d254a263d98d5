package mirrorcmd

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-docsync/internal/mirror"
	"github.com/goliatone/go-docsync/internal/reference"
)

const (
	syncMirrorMessageType = "docsync.mirror.sync"
	lookupMessageType     = "docsync.reference.lookup"

	maxAnnotationLength = 512
)

// Sync triggers.
const (
	TriggerManual    = "manual"
	TriggerStartup   = "startup"
	TriggerScheduled = "scheduled"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][\w ]*$`)

// SyncMirrorCommand runs one mirror sync.
type SyncMirrorCommand struct {
	// Trigger records what started the run. Empty means manual.
	Trigger string `json:"trigger,omitempty"`
	// OnResult receives the run summary after a successful sync.
	OnResult func(*mirror.Result) `json:"-"`
}

// Type implements command.Message.
func (SyncMirrorCommand) Type() string { return syncMirrorMessageType }

// Validate rejects unknown triggers.
func (cmd SyncMirrorCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Trigger, validation.In(TriggerManual, TriggerStartup, TriggerScheduled).
			Error("trigger must be manual, startup or scheduled")),
	)
}

// LookupCommand resolves documentation for a method identifier.
type LookupCommand struct {
	// Identifier is the method name as written in code, e.g. TryGetArg.
	Identifier string `json:"identifier"`
	// Annotation is the category attribute line above the method definition.
	Annotation string `json:"annotation,omitempty"`
	// HTML also renders the entry to HTML.
	HTML bool `json:"html,omitempty"`
	// OnResult receives the entry, which is nil when nothing is documented.
	OnResult func(*reference.Entry) `json:"-"`
}

// Type implements command.Message.
func (LookupCommand) Type() string { return lookupMessageType }

// Validate ensures the identifier looks like a method name.
func (cmd LookupCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Identifier, validation.Required, validation.By(func(value any) error {
			if !identifierPattern.MatchString(strings.TrimSpace(value.(string))) {
				return validation.NewError("docsync.reference.lookup.identifier_invalid", "identifier must be a method name")
			}
			return nil
		})),
		validation.Field(&cmd.Annotation, validation.Length(0, maxAnnotationLength)),
	)
}
