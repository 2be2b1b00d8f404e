package types

// ---- Controller state (retained on ctl/state) ----

// ControllerState mirrors the session/override mode flags after every
// externally visible transition. Active and Ended are never both set.
type ControllerState struct {
	SessionActive  bool  `json:"session_active"`
	SessionEnded   bool  `json:"session_ended"`
	OverrideActive bool  `json:"override_active"`
	OverrideDuty   uint8 `json:"override_duty"` // 0..100 %
	TSms           int64 `json:"ts_ms"`
}

// SessionSettings is the live configuration snapshot (retained on
// ctl/settings). Breathing fields are tenths of a second.
type SessionSettings struct {
	StartHz    uint8 `json:"start_hz"` // 1..50
	EndHz      uint8 `json:"end_hz"`   // 1..50
	Brightness uint8 `json:"brightness"` // 0..100 %
	Inhale     uint8 `json:"inhale"`
	HoldInEnd  uint8 `json:"hold_in_end"`
	Exhale     uint8 `json:"exhale"`
	HoldOutEnd uint8 `json:"hold_out_end"`
	Minutes    uint8 `json:"minutes"` // 1..60
}

// ---- Wireless link ----

// LinkFrame is one opaque inbound write, published on link/rx after the
// transport has been acknowledged.
type LinkFrame struct {
	Data []byte `json:"data"`
	TSms int64  `json:"ts_ms"`
}

// ---- Lens actuator ----

// LensValue is the last logical duty driven to the lens (retained on
// lens/value).
type LensValue struct {
	Percent uint8 `json:"percent"` // 0..100
}

// ---- Power / battery ----

// BatteryValue is retained on power/battery/value.
type BatteryValue struct {
	MilliV int32 `json:"mv"`      // cell voltage (mV)
	SOCx10 uint16 `json:"soc_x10"` // state of charge, tenths of a percent
	TSms   int64 `json:"ts_ms"`
}

// ---- Generic replies ----

type OKReply struct {
	OK bool `json:"ok"`
}

type ErrorReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}
