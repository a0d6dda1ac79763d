package domain

// Transmission modes supported by the receiver's label database.
// QAM (pseudo-stereo AM) is the default for plain broadcast entries.
const (
	ModeQAM = "QAM"
	ModeDRM = "DRM"
	ModeUSB = "USB"
)

// Record type tags: T3 marks a broadcast with a language label, T4 one without.
const (
	TypeWithLanguage    = "T3"
	TypeWithoutLanguage = "T4"
)

// NormalizedRecord is one accepted broadcast window, ready for the emitters.
// Constructed once by the interpreter and immutable afterwards.
type NormalizedRecord struct {
	Freq    float64    `json:"freq"` // kHz
	Mode    string     `json:"mode"`
	Station string     `json:"station"`
	Notes   string     `json:"notes"`
	Type    string     `json:"type"`
	Days    WeeklyMask `json:"days"`
	Begin   string     `json:"begin"` // HHMM, UTC
	End     string     `json:"end"`   // HHMM, UTC
}

// resolveMode applies the mode hint when it names a supported mode and
// defaults to QAM otherwise.
func resolveMode(hint string) string {
	switch hint {
	case ModeDRM, ModeUSB, ModeQAM:
		return hint
	default:
		return ModeQAM
	}
}
