package discordbot

import (
	"context"
	"log"
	"time"
)

const autoPinInterval = 3 * time.Hour

// RunAutoPin keeps the contract setup message pinned. Discord occasionally
// unpins messages when the pin list churns, so the message is re-pinned on
// an interval. Runs until ctx is cancelled.
func (r *Router) RunAutoPin(ctx context.Context) {
	ticker := time.NewTicker(autoPinInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.repinSetupMessage()
		}
	}
}

func (r *Router) repinSetupMessage() {
	channelID := r.settings.ChannelID("contracts_channel_id")
	messageID := r.settings.String("contracts_setup_message_id", "")
	if channelID == "" || messageID == "" {
		return
	}

	// The message or channel may have been deleted since setup. That is
	// recoverable: the next !contract run records a fresh message.
	if err := r.bot.PinMessage(channelID, messageID); err != nil {
		log.Printf("auto-pin skipped: %v", err)
	}
}
