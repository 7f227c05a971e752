package component

// Mode is the behavioural state of an agent. Agents start in ModeChase.
type Mode uint8

const (
	ModeChase Mode = iota
	ModeRamWindup
	ModeRamCharge
	ModeRamBackoff
	ModeRamCooldown
)

var modeNames = [...]string{
	ModeChase:       "chase",
	ModeRamWindup:   "ram_windup",
	ModeRamCharge:   "ram_charge",
	ModeRamBackoff:  "ram_backoff",
	ModeRamCooldown: "ram_cooldown",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// IsRam reports whether m is one of the four ram phases.
func (m Mode) IsRam() bool {
	return m >= ModeRamWindup && m <= ModeRamCooldown
}

// ParseMode maps a mode name back to its value.
func ParseMode(s string) (Mode, bool) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), true
		}
	}
	return ModeChase, false
}
