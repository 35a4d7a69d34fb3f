package obf

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// DefaultTelemetryPath is the well-known file the outcome record is
// written to when the caller does not choose another location.
const DefaultTelemetryPath = "warp_pass_telemetry.json"

// Report is the structured outcome record of one engine run. The JSON
// field names form the telemetry contract consumed by wrapper tooling.
type Report struct {
	StringsObfuscated     int       `json:"strings_obf_count"`
	FakeFunctionsInserted int       `json:"fake_funcs_inserted"`
	CyclesCompleted       int       `json:"cycles_completed"`
	XorKey                int       `json:"xor_key"`
	BogusRequested        int       `json:"bogus_count_requested"`
	RunID                 string    `json:"run_id"`
	Timestamp             time.Time `json:"timestamp"`
	DurationSeconds       float64   `json:"duration_seconds"`

	// Changed reports whether any pass in any cycle changed the module.
	Changed bool `json:"-"`
}

// WriteFile persists the record as indented JSON. Persistence failure
// is non-fatal to the engine: callers should surface the returned error
// as a warning, since the module mutation already succeeded.
func (r *Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode telemetry: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write telemetry: %w", err)
	}
	return nil
}

// Summary returns the one-line form used on diagnostics streams.
func (r *Report) Summary() string {
	return fmt.Sprintf("strings: %d, bogus funcs: %d, cycles: %d",
		r.StringsObfuscated, r.FakeFunctionsInserted, r.CyclesCompleted)
}
