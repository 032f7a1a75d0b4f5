package desk

import (
	"hostel/infras/metrics"
	"hostel/shared/failure"
	"time"
)

// Phase is the state of one submission flow of the desk.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

const MessageFlowBusy = "A request is already in progress."

const (
	flowCreate  = "create"
	flowVerify  = "verify"
	flowCheckIn = "check_in"
	flowRecord  = "record_payment"
	flowMobile  = "mobile_payment"
	flowList    = "list"
)

// Flow tracks idle -> validating -> submitting -> succeeded | failed(reason).
// A finished flow may start again; a validating or submitting one may not.
type Flow struct {
	name      string
	Phase     Phase     `json:"phase"`
	Reason    string    `json:"reason,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newFlow(name string) Flow {
	return Flow{name: name, Phase: PhaseIdle}
}

// Busy reports whether a submission is in flight.
func (f *Flow) Busy() bool {
	return f.Phase == PhaseValidating || f.Phase == PhaseSubmitting
}

func (f *Flow) begin(now time.Time) error {
	if f.Busy() {
		return failure.Conflict(MessageFlowBusy)
	}

	f.set(PhaseValidating, "", now)

	return nil
}

func (f *Flow) submit(now time.Time) {
	f.set(PhaseSubmitting, "", now)
}

func (f *Flow) succeed(now time.Time) {
	f.set(PhaseSucceeded, "", now)
	metrics.ObserveFlow(f.name, metrics.OutcomeSuccess)
}

// fail records reason; invalid marks a failure that never left the desk.
func (f *Flow) fail(reason string, invalid bool, now time.Time) {
	f.set(PhaseFailed, reason, now)

	outcome := metrics.OutcomeRejected
	if invalid {
		outcome = metrics.OutcomeInvalid
	}

	metrics.ObserveFlow(f.name, outcome)
}

func (f *Flow) reset(now time.Time) {
	f.set(PhaseIdle, "", now)
}

func (f *Flow) set(phase Phase, reason string, now time.Time) {
	f.Phase = phase
	f.Reason = reason
	f.UpdatedAt = now
}
