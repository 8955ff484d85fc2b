package session

import (
	"context"

	"golang.org/x/net/html"

	"github.com/dshills/browsermotion/internal/event"
	"github.com/dshills/browsermotion/internal/input"
	"github.com/dshills/browsermotion/internal/input/key"
	"github.com/dshills/browsermotion/internal/picker"
)

// topbarKey with ctrl or meta toggles the authoring topbar.
const topbarKey = "i"

// HandleKey routes one keystroke. The topbar hotkey is handled here and
// suppressed; everything else goes to the recognizer.
func (s *Session) HandleKey(ctx context.Context, ev key.Event) input.Result {
	if ev.Key == topbarKey && (ev.Modifiers.HasCtrl() || ev.Modifiers.HasMeta()) {
		s.recognizer.Reset()
		if err := event.Publish(ctx, s.bus, event.TopicTopbarToggle, event.TopbarToggle{}, Source); err != nil {
			s.logger.Warn("topbar toggle not delivered", "err", err)
		}
		return input.Result{Outcome: input.OutcomeReset, Suppress: true}
	}
	return s.recognizer.HandleKeyEvent(ctx, ev)
}

// HandlePointerMove forwards a pointer move to the picker.
func (s *Session) HandlePointerMove(target *html.Node) picker.Preview {
	return s.picker.HandlePointerMove(target)
}

// HandleClick forwards a click to the picker. When the picker does not
// intercept it the click reaches the page.
func (s *Session) HandleClick(ctx context.Context, target *html.Node) (picker.Pick, error) {
	pick := s.picker.HandleClick(ctx, target)
	if pick.Intercept {
		return pick, nil
	}
	return pick, s.page.Click(ctx, target)
}
