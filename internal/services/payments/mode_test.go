package payments

import "testing"

func TestSelectMode(t *testing.T) {
	cases := []struct {
		name               string
		simulationOnly     bool
		enableRealPayments bool
		secretKey          string
		want               Mode
	}{
		{"simulation wins over everything", true, true, "sk_live_abc", ModeSimulation},
		{"simulation with no keys", true, false, "", ModeSimulation},
		{"real needs flag and live key", false, true, "sk_live_abc", ModeReal},
		{"live key without flag stays test", false, false, "sk_live_abc", ModeTest},
		{"flag without live key stays test", false, true, "sk_test_abc", ModeTest},
		{"flag with empty key stays test", false, true, "", ModeTest},
		{"default is test", false, false, "", ModeTest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SelectMode(tc.simulationOnly, tc.enableRealPayments, tc.secretKey)
			if got != tc.want {
				t.Fatalf("unexpected mode: got %q want %q", got, tc.want)
			}
		})
	}
}

func TestModeLabel(t *testing.T) {
	if got := ModeSimulation.Label(); got != "純模擬" {
		t.Fatalf("unexpected simulation label: %q", got)
	}
	if got := ModeTest.Label(); got != "測試支付" {
		t.Fatalf("unexpected test label: %q", got)
	}
	if got := ModeReal.Label(); got != "真實支付" {
		t.Fatalf("unexpected real label: %q", got)
	}
}
