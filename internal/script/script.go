package script

import (
	"fmt"

	"github.com/roach88/typewriter/internal/typewriter"
)

// Script is a declarative typewriter sequence.
type Script struct {
	// Name identifies the script in reports and journals.
	Name string `yaml:"name" json:"name"`

	// Description explains what the script exercises.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Initial is the sink content before the first step.
	Initial string `yaml:"initial,omitempty" json:"initial,omitempty"`

	// Defaults override the sequencer's built-in delays.
	Defaults Defaults `yaml:"defaults,omitempty" json:"defaults,omitempty"`

	// Steps run in order.
	Steps []Step `yaml:"steps" json:"steps"`

	// Interrupts fire at fixed offsets from the start of the script.
	Interrupts []Interrupt `yaml:"interrupts,omitempty" json:"interrupts,omitempty"`

	// Expect is checked by the harness. Nil means no expectations.
	Expect *Expect `yaml:"expect,omitempty" json:"expect,omitempty"`
}

// Defaults are the delays used by steps that leave theirs unset.
type Defaults struct {
	TypeDelay   *Duration `yaml:"type_delay,omitempty" json:"type_delay,omitempty"`
	DeleteDelay *Duration `yaml:"delete_delay,omitempty" json:"delete_delay,omitempty"`
	Wait        *Duration `yaml:"wait,omitempty" json:"wait,omitempty"`
}

// Step is one script operation. Exactly one of Type, Chunks, Delete, Clear,
// Wait or Mark is set.
type Step struct {
	// Type types the text one character per tick.
	Type *string `yaml:"type,omitempty" json:"type,omitempty"`

	// Chunks types each fragment whole, one per tick.
	Chunks []string `yaml:"chunks,omitempty" json:"chunks,omitempty"`

	// Delete removes up to this many trailing characters.
	Delete *int `yaml:"delete,omitempty" json:"delete,omitempty"`

	// Clear removes everything in the sink when the step starts.
	Clear bool `yaml:"clear,omitempty" json:"clear,omitempty"`

	// Wait pauses. A zero duration uses the default wait.
	Wait *Duration `yaml:"wait,omitempty" json:"wait,omitempty"`

	// Mark records a named marker when reached.
	Mark string `yaml:"mark,omitempty" json:"mark,omitempty"`

	// Delay is the per-tick delay for type, chunks, delete and clear.
	Delay *Duration `yaml:"delay,omitempty" json:"delay,omitempty"`
}

// Interrupt cancels whatever is running at At and queues Steps in its place.
type Interrupt struct {
	// At is the offset from the start of the script.
	At Duration `yaml:"at" json:"at"`

	// KeepQueue keeps the pending steps behind the replacement ones.
	// By default the pending steps are discarded.
	KeepQueue bool `yaml:"keep_queue,omitempty" json:"keep_queue,omitempty"`

	// Steps are queued after the cancel.
	Steps []Step `yaml:"steps" json:"steps"`
}

// Expect lists the outcomes a harness run must produce.
type Expect struct {
	// FinalText is the expected sink content once the sequencer is idle.
	FinalText *string `yaml:"final_text,omitempty" json:"final_text,omitempty"`

	// Marks are the markers in the order they must be recorded.
	Marks []string `yaml:"marks,omitempty" json:"marks,omitempty"`

	// Elapsed is the expected virtual time until idle.
	Elapsed *Duration `yaml:"elapsed,omitempty" json:"elapsed,omitempty"`
}

// Op names the operation a step performs, or "" when it sets none.
func (s Step) Op() string {
	switch {
	case s.Type != nil:
		return "type"
	case s.Chunks != nil:
		return "chunks"
	case s.Delete != nil:
		return "delete"
	case s.Clear:
		return "clear"
	case s.Wait != nil:
		return "wait"
	case s.Mark != "":
		return "mark"
	default:
		return ""
	}
}

func (s Step) opCount() int {
	n := 0
	for _, set := range []bool{s.Type != nil, s.Chunks != nil, s.Delete != nil, s.Clear, s.Wait != nil, s.Mark != ""} {
		if set {
			n++
		}
	}
	return n
}

// Options returns the sequencer options implied by the script's defaults.
func (s *Script) Options() []typewriter.Option {
	var opts []typewriter.Option
	if d := s.Defaults.TypeDelay; d != nil {
		opts = append(opts, typewriter.WithTypeDelay(d.Std()))
	}
	if d := s.Defaults.DeleteDelay; d != nil {
		opts = append(opts, typewriter.WithDeleteDelay(d.Std()))
	}
	if d := s.Defaults.Wait; d != nil {
		opts = append(opts, typewriter.WithWaitDuration(d.Std()))
	}
	return opts
}

// Validate checks the script structure.
func (s *Script) Validate() error {
	if s.Name == "" {
		return stepError(ErrCodeMissingField, "", "name is required")
	}
	if len(s.Steps) == 0 && len(s.Interrupts) == 0 {
		return stepError(ErrCodeMissingField, "", "steps list is required and must be non-empty")
	}
	if err := validateSteps("steps", s.Steps); err != nil {
		return err
	}
	for i, it := range s.Interrupts {
		path := fmt.Sprintf("interrupts[%d]", i)
		if len(it.Steps) == 0 {
			return stepError(ErrCodeMissingField, path, "steps list is required and must be non-empty")
		}
		if err := validateSteps(path+".steps", it.Steps); err != nil {
			return err
		}
	}
	return nil
}

func validateSteps(prefix string, steps []Step) error {
	for i, step := range steps {
		path := fmt.Sprintf("%s[%d]", prefix, i)
		switch step.opCount() {
		case 0:
			return stepError(ErrCodeInvalidStep, path, "step sets no operation (type, chunks, delete, clear, wait or mark)")
		case 1:
		default:
			return stepError(ErrCodeInvalidStep, path, "step sets more than one operation")
		}
		if step.Delete != nil && *step.Delete < 0 {
			return stepError(ErrCodeInvalidStep, path, "delete count must be non-negative, got %d", *step.Delete)
		}
		if step.Delay != nil {
			switch step.Op() {
			case "wait", "mark":
				return stepError(ErrCodeInvalidStep, path, "delay is not valid for %s", step.Op())
			}
		}
	}
	return nil
}
