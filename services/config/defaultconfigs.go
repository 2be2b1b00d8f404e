package config

// Embedded configuration, keyed by device ID. Populate at build time via
// code generation, or by hand during development. Only the "session"
// section is read today.

const cfgGlasses = `{
  "session": {
    "start_hz": 12,
    "end_hz": 8,
    "brightness": 100,
    "inhale": 40,
    "hold_in_end": 40,
    "exhale": 40,
    "hold_out_end": 40,
    "minutes": 10
  }
}`

var embeddedConfigs = map[string][]byte{
	"glasses": []byte(cfgGlasses),
}
