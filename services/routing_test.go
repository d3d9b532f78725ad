package services

import "testing"

func TestChannelRouter_ChannelFor(t *testing.T) {
	r := ChannelRouter{PrimaryChannelID: -100, DerezlikChannelID: -200}

	tests := []struct {
		branch string
		want   int64
	}{
		{"POPAYS Kosmonavt", -100},
		{"POPAYS Derezlik", -200},
		{"derezlik", -200},
		{"DEREZLI filial", -200},
		{"", -100},
		{"Noma'lum filial", -100},
	}
	for _, tt := range tests {
		if got := r.ChannelFor(tt.branch); got != tt.want {
			t.Errorf("ChannelFor(%q) = %d, want %d", tt.branch, got, tt.want)
		}
	}
}

func TestChannelRouter_NoDerezlikChannel(t *testing.T) {
	// Without a Derezlik channel configured, everything routes primary.
	r := ChannelRouter{PrimaryChannelID: -100}
	if got := r.ChannelFor("POPAYS Derezlik"); got != -100 {
		t.Errorf("ChannelFor without derezlik channel = %d, want -100", got)
	}
}
