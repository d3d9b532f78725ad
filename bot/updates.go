package bot

import (
	"encoding/json"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegram-bot-api v5.5.1 predates the Bot API 6.0 web_app fields, so
// updates are fetched through getUpdates directly and decoded into an
// envelope that carries web_app_data alongside the library's own types.

type webAppData struct {
	Data       string `json:"data"`
	ButtonText string `json:"button_text"`
}

// incomingMessage wraps the library message with the web_app_data field it
// does not know about.
type incomingMessage struct {
	tgbotapi.Message
	WebAppData *webAppData `json:"web_app_data"`
}

// updateEnvelope shadows the embedded Update's Message on purpose: the
// outer field wins during unmarshal, so all message reads must go through
// Message here, never through the embedded Update.
type updateEnvelope struct {
	tgbotapi.Update
	Message *incomingMessage `json:"message"`
}

func (b *Bot) fetchUpdates(offset int) ([]updateEnvelope, error) {
	params := tgbotapi.Params{}
	params.AddNonZero("offset", offset)
	params.AddNonZero("timeout", updateTimeoutSeconds)
	resp, err := b.api.MakeRequest("getUpdates", params)
	if err != nil {
		return nil, fmt.Errorf("getUpdates: %w", err)
	}
	var updates []updateEnvelope
	if err := json.Unmarshal(resp.Result, &updates); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}
	return updates, nil
}
