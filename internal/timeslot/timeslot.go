// Package timeslot maps wall-clock time to a posting slot and its content
// directive. The mapping is a pure function of the given instant; callers
// are responsible for converting to the bot's reference timezone first.
package timeslot

import "time"

// Slot identifies a posting window.
type Slot int

const (
	OffPeak Slot = iota
	Morning
	Midday
	Afternoon
	Evening
)

func (s Slot) String() string {
	switch s {
	case Morning:
		return "morning"
	case Midday:
		return "midday"
	case Afternoon:
		return "afternoon"
	case Evening:
		return "evening"
	default:
		return "offpeak"
	}
}

const (
	morningDirective = "Morning (7-10 AM): Post a daily inspiration or mantra. " +
		"Provide a motivational quote, personal reflection, or short wisdom drop."
	middayDirective = "Late Morning/Midday (10 AM-1 PM): Share high-priority content. " +
		"Share notable insights or blog links."
	middayThursdayDirective = "Late Morning/Midday (10 AM-1 PM): Share high-priority content. " +
		"It is Thursday: announce the new podcast episode."
	afternoonDirective = "Afternoon (3-5 PM): Post follow-up content or deeper engagement. " +
		"On release days, remind followers about the latest episode; otherwise, share a deeper reflection or behind-the-scenes note."
	eveningDirective = "Evening (6-9 PM): Share an engagement-focused post. " +
		"Ask a question, run a poll, or invite community interaction to spark conversation."
	offPeakDirective = "Off-Peak (Late Night/Early Morning): Post an experimental inspirational post " +
		"for night owls or early birds."
)

// At returns the slot for the given instant.
//
// The windows leave gaps (13-15h, 17-18h, 21-7h) that fall to OffPeak on
// purpose: the quiet-hours catch-all carries its own content style, so the
// boundaries must not be "fixed" into continuous coverage.
func At(t time.Time) Slot {
	h := t.Hour()
	switch {
	case h >= 7 && h < 10:
		return Morning
	case h >= 10 && h < 13:
		return Midday
	case h >= 15 && h < 17:
		return Afternoon
	case h >= 18 && h < 21:
		return Evening
	default:
		return OffPeak
	}
}

// Directive returns the natural-language content directive for the given
// instant. The midday directive is day-of-week sensitive.
func Directive(t time.Time) string {
	switch At(t) {
	case Morning:
		return morningDirective
	case Midday:
		if t.Weekday() == time.Thursday {
			return middayThursdayDirective
		}
		return middayDirective
	case Afternoon:
		return afternoonDirective
	case Evening:
		return eveningDirective
	default:
		return offPeakDirective
	}
}
