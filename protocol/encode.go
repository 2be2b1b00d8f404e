package protocol

// Host-side encoders. Values are sent raw; the device clamps on receipt.

func EncodeLegacyDuty(raw uint8) []byte { return []byte{raw} }

func EncodeStrobe(startHz, endHz uint8) []byte {
	return []byte{OpStrobe, startHz, endHz}
}

func EncodeBrightness(pct uint8) []byte { return []byte{OpBrightness, pct} }

func EncodeBreathing(inhale, holdIn, exhale, holdOut uint8) []byte {
	return []byte{OpBreathing, inhale, holdIn, exhale, holdOut}
}

func EncodeMinutes(m uint8) []byte { return []byte{OpMinutes, m} }

func EncodeOverride(duty uint8) []byte { return []byte{OpOverride, duty} }

func EncodeResume() []byte { return []byte{OpResume} }

func EncodeSleep() []byte { return []byte{OpSleep} }
