package payments

import "strings"

// Mode decides which invoice strategy handles a purchase. It is selected
// once at startup and never changes for the process lifetime.
type Mode string

const (
	ModeSimulation Mode = "simulation"
	ModeTest       Mode = "test"
	ModeReal       Mode = "real"
)

// livePrefix marks a production provider credential. Real mode demands it in
// addition to the explicit opt-in flag, so a misconfigured key silently
// degrades to test payments instead of charging real money.
const livePrefix = "sk_live_"

func SelectMode(simulationOnly, enableRealPayments bool, providerSecretKey string) Mode {
	if simulationOnly {
		return ModeSimulation
	}
	if enableRealPayments && strings.HasPrefix(providerSecretKey, livePrefix) {
		return ModeReal
	}
	return ModeTest
}

func (m Mode) Label() string {
	switch m {
	case ModeSimulation:
		return "純模擬"
	case ModeReal:
		return "真實支付"
	default:
		return "測試支付"
	}
}
