package bot

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"popays-telegram/config"
)

func TestValidCoordinate(t *testing.T) {
	tests := []struct {
		lat, lon float64
		want     bool
	}{
		{40.522999, 70.956422, true},
		{-33.8688, 151.2093, true},
		{90, 180, true},
		{-90, -180, true},
		{0, 0, false},       // missing data, not a real point
		{0, 70.95, true},    // zero latitude alone is fine
		{91, 70.95, false},  // out of range
		{40.5, 181, false},  // out of range
		{math.NaN(), 70.95, false},
		{40.5, math.Inf(1), false},
	}
	for _, tt := range tests {
		if got := validCoordinate(tt.lat, tt.lon); got != tt.want {
			t.Errorf("validCoordinate(%v, %v) = %v, want %v", tt.lat, tt.lon, got, tt.want)
		}
	}
}

func TestPageCallback(t *testing.T) {
	if got := pageCallback(3); got != "admin_page_3" {
		t.Errorf("pageCallback(3) = %q", got)
	}
}

func TestMainMenuKeyboardJSON(t *testing.T) {
	b := &Bot{cfg: &config.Config{}}
	b.cfg.Telegram.WebAppURL = "https://example.test/"

	raw, err := json.Marshal(b.mainMenuKeyboard())
	if err != nil {
		t.Fatalf("marshal keyboard: %v", err)
	}
	s := string(raw)
	if !strings.Contains(s, `"web_app":{"url":"https://example.test/"}`) {
		t.Errorf("keyboard missing web_app button: %s", s)
	}
	if !strings.Contains(s, `"resize_keyboard":true`) {
		t.Errorf("keyboard missing resize flag: %s", s)
	}
	// Plain buttons must not carry an empty web_app object.
	if strings.Contains(s, `"web_app":null`) || strings.Contains(s, `"web_app":{}`) {
		t.Errorf("plain buttons leak web_app field: %s", s)
	}
}

func TestWebAppDataEnvelopeDecoding(t *testing.T) {
	raw := `{
		"update_id": 42,
		"message": {
			"message_id": 7,
			"from": {"id": 123, "first_name": "Ali"},
			"chat": {"id": 123, "type": "private"},
			"web_app_data": {"data": "{\"type\":\"order\"}", "button_text": "order"}
		}
	}`
	var env updateEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.UpdateID != 42 {
		t.Errorf("update id = %d, want 42", env.UpdateID)
	}
	if env.Message == nil || env.Message.WebAppData == nil {
		t.Fatal("web_app_data not decoded")
	}
	if env.Message.WebAppData.Data != `{"type":"order"}` {
		t.Errorf("payload = %q", env.Message.WebAppData.Data)
	}
	if env.Message.From == nil || env.Message.From.ID != 123 {
		t.Errorf("library message fields not promoted: %+v", env.Message)
	}
}
