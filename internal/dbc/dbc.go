// Package dbc imports CAN database (.dbc) files and maps their signals onto
// COVESA Vehicle Signal Specification paths.
package dbc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
)

// Unmapped is the VSS path reported for signals without a known mapping.
const Unmapped = "—"

// NoSignalsWarning is returned when a file contains no recognizable signals.
const NoSignalsWarning = "No signals found in DBC file. Check file format."

// vssMapping is matched in order; the first case-insensitive substring hit wins.
var vssMapping = []struct {
	fragment string
	path     string
}{
	{"TirePressure", "Vehicle.Chassis.Axle.Tire.Pressure"},
	{"VehicleSpeed", "Vehicle.Speed"},
	{"BrakePedal", "Vehicle.Chassis.Brake.PedalPosition"},
	{"EngineRPM", "Vehicle.Powertrain.CombustionEngine.Speed"},
	{"ThrottlePos", "Vehicle.Powertrain.CombustionEngine.ThrottlePosition"},
	{"SteeringAngle", "Vehicle.Chassis.SteeringWheel.Angle"},
	{"BatteryVoltage", "Vehicle.Powertrain.TractionBattery.Voltage"},
	{"BatterySoC", "Vehicle.Powertrain.TractionBattery.StateOfCharge"},
	{"MotorTemp", "Vehicle.Powertrain.ElectricMotor.Temperature"},
	{"CoolantTemp", "Vehicle.Powertrain.CombustionEngine.CoolantTemperature"},
}

// Result is the outcome of importing one file.
type Result struct {
	Signals []models.SignalRecord `json:"signals"`
	Warning string                `json:"warning,omitempty"`
}

// Import decodes raw file bytes and parses them. Invalid UTF-8 is replaced
// rather than rejected.
func Import(raw []byte) Result {
	signals := Parse(strings.ToValidUTF8(string(raw), "�"))
	if len(signals) == 0 {
		return Result{Signals: []models.SignalRecord{}, Warning: NoSignalsWarning}
	}
	return Result{Signals: signals}
}

type message struct {
	id   int64
	name string
}

// Parse extracts signal records in file order. Only BO_ and SG_ lines are
// interpreted; everything else is ignored. A signal belongs to the most
// recent well-formed message. A BO_ line with a non-numeric id closes the
// current message so its signals are not attributed elsewhere.
func Parse(text string) []models.SignalRecord {
	signals := []models.SignalRecord{}
	var current *message

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "BO_ "):
			parts := strings.Fields(line)
			if len(parts) < 3 {
				continue
			}
			id, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				current = nil
				continue
			}
			current = &message{id: id, name: strings.TrimRight(parts[2], ":")}

		case strings.HasPrefix(line, "SG_ ") && current != nil:
			parts := strings.Fields(line)
			if len(parts) < 2 {
				continue
			}
			signals = append(signals, models.SignalRecord{
				Signal:    parts[1],
				CANID:     FormatID(current.id),
				MessageID: current.id,
				Message:   current.name,
				VSSPath:   MapVSS(parts[1]),
				Unit:      unitOf(line),
			})
		}
	}

	return signals
}

// MapVSS returns the VSS path for a signal name, or Unmapped.
func MapVSS(signal string) string {
	lower := strings.ToLower(signal)
	for _, m := range vssMapping {
		if strings.Contains(lower, strings.ToLower(m.fragment)) {
			return m.path
		}
	}
	return Unmapped
}

// FormatID renders a message id as zero-padded uppercase hex.
func FormatID(id int64) string {
	if id < 0 {
		return fmt.Sprintf("-0x%03X", -id)
	}
	return fmt.Sprintf("0x%03X", id)
}

// unitOf returns the text between the first pair of double quotes.
func unitOf(line string) string {
	parts := strings.Split(line, `"`)
	if len(parts) < 3 {
		return ""
	}
	return parts[1]
}
