package yarngpt

// Voice is an opaque voice character token accepted by the API. The zero value
// means "let the service pick its default" and is omitted from the payload.
type Voice string

// Voice characters available for text-to-speech conversion.
const (
	VoiceIdera    Voice = "Idera"
	VoiceEmma     Voice = "Emma"
	VoiceZainab   Voice = "Zainab"
	VoiceOsagie   Voice = "Osagie"
	VoiceWura     Voice = "Wura"
	VoiceJude     Voice = "Jude"
	VoiceChinenye Voice = "Chinenye"
	VoiceTayo     Voice = "Tayo"
	VoiceRegina   Voice = "Regina"
	VoiceFemi     Voice = "Femi"
	VoiceAdaora   Voice = "Adaora"
	VoiceUmar     Voice = "Umar"
	VoiceMary     Voice = "Mary"
	VoiceNonso    Voice = "Nonso"
	VoiceRemi     Voice = "Remi"
	VoiceAdam     Voice = "Adam"
)

var voiceDescriptions = map[Voice]string{
	VoiceIdera:    "Melodic, gentle",
	VoiceEmma:     "Authoritative, deep",
	VoiceZainab:   "Soothing, gentle",
	VoiceOsagie:   "Smooth, calm",
	VoiceWura:     "Young, sweet",
	VoiceJude:     "Warm, confident",
	VoiceChinenye: "Engaging, warm",
	VoiceTayo:     "Upbeat, energetic",
	VoiceRegina:   "Mature, warm",
	VoiceFemi:     "Rich, reassuring",
	VoiceAdaora:   "Warm, engaging",
	VoiceUmar:     "Calm, smooth",
	VoiceMary:     "Energetic, youthful",
	VoiceNonso:    "Bold, resonant",
	VoiceRemi:     "Melodious, warm",
	VoiceAdam:     "Deep, clear",
}

// Voices returns all known voice characters in a stable order.
func Voices() []Voice {
	return []Voice{
		VoiceIdera, VoiceEmma, VoiceZainab, VoiceOsagie,
		VoiceWura, VoiceJude, VoiceChinenye, VoiceTayo,
		VoiceRegina, VoiceFemi, VoiceAdaora, VoiceUmar,
		VoiceMary, VoiceNonso, VoiceRemi, VoiceAdam,
	}
}

// Description returns a short character description, empty for unknown voices.
func (v Voice) Description() string {
	return voiceDescriptions[v]
}

// AudioFormat is an opaque audio output format token. The zero value is
// omitted from the payload so the service applies its own default.
type AudioFormat string

// Supported audio output formats.
const (
	FormatMP3  AudioFormat = "mp3"
	FormatWAV  AudioFormat = "wav"
	FormatOpus AudioFormat = "opus"
	FormatFLAC AudioFormat = "flac"
)

// AudioFormats returns all supported output formats in a stable order.
func AudioFormats() []AudioFormat {
	return []AudioFormat{FormatMP3, FormatWAV, FormatOpus, FormatFLAC}
}

// Valid reports whether the format is one of the supported tokens.
func (f AudioFormat) Valid() bool {
	switch f {
	case FormatMP3, FormatWAV, FormatOpus, FormatFLAC:
		return true
	default:
		return false
	}
}

// Ext returns the filename extension for the format. The empty format maps to
// mp3, matching the service-side default.
func (f AudioFormat) Ext() string {
	if f == "" {
		return string(FormatMP3)
	}
	return string(f)
}
