package rhythm

import (
	"fmt"
	"math/rand"
	"time"
)

// MessageContext tags the situation an encouragement message fits.
type MessageContext string

const (
	ContextGeneral         MessageContext = "general"
	ContextTierAchieved    MessageContext = "tier_achieved"
	ContextStreakMilestone MessageContext = "streak_milestone"
	ContextMidWeekNudge    MessageContext = "mid_week_nudge"
)

// Message is one entry from the encouragement repository.
// TierName, when set, restricts the entry to weeks where that tier is
// in play.
type Message struct {
	ID       string
	Stage    Stage
	Context  MessageContext
	TierName string
	Text     string
}

// MessageSource lists messages by stage and context. Implemented by
// the external encouragement repository; the engine selects, it never
// authors or persists.
type MessageSource interface {
	Messages(stage Stage, context MessageContext) ([]Message, error)
}

// Encouragement is the selected message. A nil *Encouragement from the
// selector means no message was available, which is a valid, degraded
// outcome rather than an error.
type Encouragement struct {
	MessageID string `json:"messageId"`
	Text      string `json:"text"`
}

// Selector picks a non-repeating message from a MessageSource.
type Selector struct {
	source MessageSource
	rng    *rand.Rand
}

// NewSelector creates a selector. A nil rng gets a time-seeded source;
// tests pass a fixed seed for determinism.
func NewSelector(source MessageSource, rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{source: source, rng: rng}
}

// Pick selects one message for (stage, context), preferring entries
// tagged with tierName when any exist, and falling back to the stage's
// general pool when the context has no entries. It avoids repeating
// lastMessageID when more than one candidate matches; with a single
// candidate the repeat is returned rather than nothing.
func (s *Selector) Pick(stage Stage, context MessageContext, tierName, lastMessageID string) (*Encouragement, error) {
	if s.source == nil {
		return nil, nil
	}

	candidates, err := s.candidates(stage, context, tierName)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 && context != ContextGeneral {
		candidates, err = s.candidates(stage, ContextGeneral, tierName)
		if err != nil {
			return nil, err
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	if len(candidates) > 1 && lastMessageID != "" {
		fresh := candidates[:0:0]
		for _, m := range candidates {
			if m.ID != lastMessageID {
				fresh = append(fresh, m)
			}
		}
		if len(fresh) > 0 {
			candidates = fresh
		}
	}

	chosen := candidates[s.rng.Intn(len(candidates))]
	return &Encouragement{MessageID: chosen.ID, Text: chosen.Text}, nil
}

func (s *Selector) candidates(stage Stage, context MessageContext, tierName string) ([]Message, error) {
	all, err := s.source.Messages(stage, context)
	if err != nil {
		return nil, fmt.Errorf("list messages for %s/%s: %w", stage, context, err)
	}

	var untagged, tagged []Message
	for _, m := range all {
		switch m.TierName {
		case "":
			untagged = append(untagged, m)
		case tierName:
			tagged = append(tagged, m)
		}
	}
	if len(tagged) > 0 {
		return tagged, nil
	}
	return untagged, nil
}
