package booking

import (
	"errors"
)

// Step names a wizard state.
type Step string

const (
	StepCollectingDetails Step = "collecting_details"
	StepValidating        Step = "validating"
	StepConfirmed         Step = "confirmed"
)

// Wizard is the booking flow state. Exactly one of CollectingDetails,
// Validating or Confirmed.
type Wizard interface {
	Step() Step
	CurrentDraft() Draft
}

// CollectingDetails is the editable form. Errors holds the field errors of
// the last failed validation and is cleared on the next edit.
type CollectingDetails struct {
	Draft  Draft
	Errors []FieldError
}

// Validating is the short-lived state between "next" and its verdict.
type Validating struct {
	Draft Draft
}

// Confirmed is a valid draft with its payload and estimate ready to submit.
type Confirmed struct {
	Draft    Draft
	Payload  Payload
	Estimate PriceEstimate
}

func (CollectingDetails) Step() Step { return StepCollectingDetails }
func (Validating) Step() Step        { return StepValidating }
func (Confirmed) Step() Step         { return StepConfirmed }

func (s CollectingDetails) CurrentDraft() Draft { return s.Draft }
func (s Validating) CurrentDraft() Draft        { return s.Draft }
func (s Confirmed) CurrentDraft() Draft         { return s.Draft }

// Start returns the initial wizard for a car.
func Start(carID string) Wizard {
	return CollectingDetails{Draft: Draft{CarID: carID}}
}

// Event drives the wizard.
type Event interface {
	isEvent()
}

type EditDetails struct{ Patch Patch }

type Next struct{}

// RunValidation resolves Validating. The pricing inputs feed the estimate.
type RunValidation struct {
	NightlyRate int
	ServiceFee  int
}

type Back struct{}

// Reset empties the draft but keeps the car.
type Reset struct{}

func (EditDetails) isEvent()   {}
func (Next) isEvent()          {}
func (RunValidation) isEvent() {}
func (Back) isEvent()          {}
func (Reset) isEvent()         {}

// Transition is the wizard's only state change function. Pairs not listed
// below fail with ErrInvalidTransition and leave w current.
//
//	CollectingDetails + EditDetails   -> CollectingDetails
//	CollectingDetails + Next          -> Validating
//	Validating        + RunValidation -> Confirmed | CollectingDetails with errors
//	Confirmed         + Back          -> CollectingDetails
//	any               + Reset         -> CollectingDetails with an empty draft
func Transition(w Wizard, e Event) (Wizard, error) {
	if w == nil {
		return nil, ErrNoWizard
	}
	if e == nil {
		return w, ErrUnknownEvent
	}
	if _, ok := e.(Reset); ok {
		return Start(w.CurrentDraft().CarID), nil
	}

	switch s := w.(type) {
	case CollectingDetails:
		switch e := e.(type) {
		case EditDetails:
			return CollectingDetails{Draft: e.Patch.Apply(s.Draft)}, nil
		case Next:
			return Validating{Draft: s.Draft}, nil
		}

	case Validating:
		if e, ok := e.(RunValidation); ok {
			if err := Validate(s.Draft); err != nil {
				var verr *ValidationError
				if errors.As(err, &verr) {
					return CollectingDetails{Draft: s.Draft, Errors: verr.Fields}, nil
				}
				return w, err
			}
			return Confirmed{
				Draft:    s.Draft,
				Payload:  NewPayload(s.Draft),
				Estimate: Estimate(s.Draft, e.NightlyRate, e.ServiceFee),
			}, nil
		}

	case Confirmed:
		if _, ok := e.(Back); ok {
			return CollectingDetails{Draft: s.Draft}, nil
		}
	}

	return w, ErrInvalidTransition
}

// record is the stored form of a Wizard.
type record struct {
	Step     Step           `json:"step"`
	Draft    Draft          `json:"draft"`
	Errors   []FieldError   `json:"errors,omitempty"`
	Payload  *Payload       `json:"payload,omitempty"`
	Estimate *PriceEstimate `json:"estimate,omitempty"`
}

func toRecord(w Wizard) record {
	switch s := w.(type) {
	case CollectingDetails:
		return record{Step: StepCollectingDetails, Draft: s.Draft, Errors: s.Errors}
	case Validating:
		return record{Step: StepValidating, Draft: s.Draft}
	case Confirmed:
		return record{Step: StepConfirmed, Draft: s.Draft, Payload: &s.Payload, Estimate: &s.Estimate}
	}
	return record{}
}

func (r record) wizard() Wizard {
	switch r.Step {
	case StepValidating:
		return Validating{Draft: r.Draft}
	case StepConfirmed:
		c := Confirmed{Draft: r.Draft}
		if r.Payload != nil {
			c.Payload = *r.Payload
		}
		if r.Estimate != nil {
			c.Estimate = *r.Estimate
		}
		return c
	}
	return CollectingDetails{Draft: r.Draft, Errors: r.Errors}
}
