// Package config publishes the embedded per-device configuration as
// retained bus messages at boot. The only tunable section today is the
// session defaults; unknown keys are ignored so a config built for a
// newer firmware still loads.
package config

import (
	"encoding/json"

	"glasscode-go/bus"
	"glasscode-go/protocol"
	"glasscode-go/types"
	"glasscode-go/x/fmtx"
	"glasscode-go/x/mathx"
)

// sessionJSON is the "session" object of the embedded config. Pointers
// distinguish "absent" from zero; absent fields keep the firmware default.
type sessionJSON struct {
	StartHz    *uint8 `json:"start_hz"`
	EndHz      *uint8 `json:"end_hz"`
	Brightness *uint8 `json:"brightness"`
	Inhale     *uint8 `json:"inhale"`
	HoldInEnd  *uint8 `json:"hold_in_end"`
	Exhale     *uint8 `json:"exhale"`
	HoldOutEnd *uint8 `json:"hold_out_end"`
	Minutes    *uint8 `json:"minutes"`
}

type deviceJSON struct {
	Session *sessionJSON `json:"session"`
}

// Publish resolves the embedded config for the device and retains the
// session overrides on config/session. It is synchronous so main can order
// it before the engine starts.
func Publish(conn *bus.Connection, device string, base types.SessionSettings) error {
	raw, ok := embeddedConfigs[device]
	if !ok || len(raw) == 0 {
		// Nothing embedded for this device; the defaults stand.
		return nil
	}

	var cfg deviceJSON
	if err := json.Unmarshal(raw, &cfg); err != nil {
		fmtx.Printf("[config] bad embedded config for %s: %v\n", device, err)
		return err
	}
	if cfg.Session == nil {
		return nil
	}

	s := apply(base, *cfg.Session)
	conn.Publish(conn.NewMessage(bus.T("config", "session"), s, true))
	return nil
}

// apply overlays present fields onto the base settings, clamping with the
// same bounds the wire protocol enforces.
func apply(s types.SessionSettings, j sessionJSON) types.SessionSettings {
	if j.StartHz != nil {
		s.StartHz = mathx.Clamp(*j.StartHz, protocol.MinHz, protocol.MaxHz)
	}
	if j.EndHz != nil {
		s.EndHz = mathx.Clamp(*j.EndHz, protocol.MinHz, protocol.MaxHz)
	}
	if j.Brightness != nil {
		s.Brightness = mathx.Min(*j.Brightness, protocol.MaxPercent)
	}
	if j.Inhale != nil {
		s.Inhale = *j.Inhale
	}
	if j.HoldInEnd != nil {
		s.HoldInEnd = *j.HoldInEnd
	}
	if j.Exhale != nil {
		s.Exhale = *j.Exhale
	}
	if j.HoldOutEnd != nil {
		s.HoldOutEnd = *j.HoldOutEnd
	}
	if j.Minutes != nil {
		s.Minutes = mathx.Clamp(*j.Minutes, protocol.MinMinutes, protocol.MaxMinutes)
	}
	return s
}
