package dbc

import (
	"testing"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDBC = `VERSION ""

BU_: ECU1 ECU2

BO_ 389 BMS_Status: 8 ECU1
 SG_ BatterySoC : 0|8@1+ (0.5,0) [0|100] "%" ECU2
 SG_ BatteryVoltage : 8|16@1+ (0.01,0) [0|500] "V" ECU2

BO_ 1024 Misc: 8 ECU2
 SG_ RandomXYZ : 0|8@1+ (1,0) [0|255] "" ECU1
`

func TestParse_SampleFile(t *testing.T) {
	got := Parse(sampleDBC)

	want := []models.SignalRecord{
		{
			Signal: "BatterySoC", CANID: "0x185", MessageID: 389, Message: "BMS_Status",
			VSSPath: "Vehicle.Powertrain.TractionBattery.StateOfCharge", Unit: "%",
		},
		{
			Signal: "BatteryVoltage", CANID: "0x185", MessageID: 389, Message: "BMS_Status",
			VSSPath: "Vehicle.Powertrain.TractionBattery.Voltage", Unit: "V",
		},
		{
			Signal: "RandomXYZ", CANID: "0x400", MessageID: 1024, Message: "Misc",
			VSSPath: Unmapped, Unit: "",
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Idempotent(t *testing.T) {
	assert.Equal(t, Parse(sampleDBC), Parse(sampleDBC))
}

func TestParse_EdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "signal before any message is skipped",
			input: " SG_ Orphan : 0|8@1+ (1,0) [0|1] \"\" X\nBO_ 1 M: 8 X\n SG_ Kept : 0|8",
			want:  []string{"Kept"},
		},
		{
			name:  "short message line keeps previous message",
			input: "BO_ 1 M: 8 X\nBO_ 2\n SG_ A : 0|8",
			want:  []string{"A"},
		},
		{
			name:  "non-numeric id closes the message",
			input: "BO_ 1 M: 8 X\n SG_ A : 0|8\nBO_ 0xZZ Bad: 8 X\n SG_ B : 0|8",
			want:  []string{"A"},
		},
		{
			name:  "SG_ without a name is skipped",
			input: "BO_ 1 M: 8 X\nSG_ \n SG_ A : 0|8",
			want:  []string{"A"},
		},
		{
			name:  "CRLF line endings",
			input: "BO_ 1 M: 8 X\r\n SG_ A : 0|8\r\n",
			want:  []string{"A"},
		},
		{
			name:  "no signals",
			input: "VERSION \"\"\nNS_ :\n",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			names := make([]string, 0, len(got))
			for _, s := range got {
				names = append(names, s.Signal)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestMapVSS(t *testing.T) {
	tests := map[string]string{
		"FL_TirePressure":   "Vehicle.Chassis.Axle.Tire.Pressure",
		"vehiclespeed_kph":  "Vehicle.Speed",
		"ENGINERPM":         "Vehicle.Powertrain.CombustionEngine.Speed",
		"MotorTempStator":   "Vehicle.Powertrain.ElectricMotor.Temperature",
		"BatteryVoltageSoC": "Vehicle.Powertrain.TractionBattery.Voltage",
		"Wiper":             Unmapped,
	}
	for signal, want := range tests {
		assert.Equal(t, want, MapVSS(signal), signal)
	}
}

func TestImport(t *testing.T) {
	t.Run("warning on empty result", func(t *testing.T) {
		res := Import([]byte("nothing here"))
		assert.Empty(t, res.Signals)
		assert.NotNil(t, res.Signals)
		assert.Equal(t, NoSignalsWarning, res.Warning)
	})

	t.Run("invalid utf8 is tolerated", func(t *testing.T) {
		raw := []byte("BO_ 100 Msg\xff: 8 X\n SG_ VehicleSpeed : 0|16 \"km/h\" X\n")
		res := Import(raw)
		require.Len(t, res.Signals, 1)
		assert.Empty(t, res.Warning)
		assert.Equal(t, "Msg�", res.Signals[0].Message)
		assert.Equal(t, "0x064", res.Signals[0].CANID)
		assert.Equal(t, "km/h", res.Signals[0].Unit)
	})
}

func TestFormatID(t *testing.T) {
	assert.Equal(t, "0x185", FormatID(389))
	assert.Equal(t, "0x001", FormatID(1))
	assert.Equal(t, "0x18FEF100", FormatID(0x18FEF100))
}
