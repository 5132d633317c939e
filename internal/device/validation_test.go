package device

import (
	"errors"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{
			name:  "valid identifier",
			input: "living-room/thermostat/wall-01",
			want:  "living-room/thermostat/wall-01",
		},
		{
			name:  "uppercase is normalised",
			input: "Living-Room/Light/Ceiling-01",
			want:  "living-room/light/ceiling-01",
		},
		{
			name:  "underscores become hyphens",
			input: "living_room/light/ceiling_01",
			want:  "living-room/light/ceiling-01",
		},
		{
			name:    "two segments",
			input:   "kitchen/light",
			wantErr: ErrInvalidID,
		},
		{
			name:    "four segments",
			input:   "kitchen/light/ceiling/01",
			wantErr: ErrInvalidID,
		},
		{
			name:    "empty segment",
			input:   "kitchen//ceiling-01",
			wantErr: ErrInvalidID,
		},
		{
			name:    "disallowed character",
			input:   "kitchen/light/ceiling.01",
			wantErr: ErrInvalidID,
		},
		{
			name:    "whitespace in segment",
			input:   "living room/light/ceiling-01",
			wantErr: ErrInvalidID,
		},
		{
			name:    "empty identifier",
			input:   "",
			wantErr: ErrInvalidID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateID(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ValidateID(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateID(%q) error = %v, want nil", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ValidateID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidatePatch_IllegalFields(t *testing.T) {
	brightness := 50
	colorTemp := "warm"
	targetTemp := 20
	currentTemp := 19
	locked := true

	tests := []struct {
		name  string
		kind  Kind
		patch Patch
	}{
		{name: "light rejects targetTemp", kind: KindLight, patch: Patch{TargetTemp: &targetTemp}},
		{name: "light rejects currentTemp", kind: KindLight, patch: Patch{CurrentTemp: &currentTemp}},
		{name: "light rejects isLocked", kind: KindLight, patch: Patch{IsLocked: &locked}},
		{name: "thermostat rejects brightness", kind: KindThermostat, patch: Patch{Brightness: &brightness}},
		{name: "thermostat rejects colorTemp", kind: KindThermostat, patch: Patch{ColorTemp: &colorTemp}},
		{name: "lock rejects brightness", kind: KindLock, patch: Patch{Brightness: &brightness}},
		{name: "lock rejects colorTemp", kind: KindLock, patch: Patch{ColorTemp: &colorTemp}},
		{name: "lock rejects targetTemp", kind: KindLock, patch: Patch{TargetTemp: &targetTemp}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePatch(tt.kind, tt.patch)
			if !errors.Is(err, ErrFieldNotAllowed) {
				t.Errorf("ValidatePatch(%s) error = %v, want ErrFieldNotAllowed", tt.kind, err)
			}
		})
	}
}

func TestValidatePatch_Bounds(t *testing.T) {
	intp := func(v int) *int { return &v }

	tests := []struct {
		name    string
		kind    Kind
		patch   Patch
		wantErr error
	}{
		{name: "brightness at lower bound", kind: KindLight, patch: Patch{Brightness: intp(MinBrightness)}},
		{name: "brightness at upper bound", kind: KindLight, patch: Patch{Brightness: intp(MaxBrightness)}},
		{name: "brightness below lower bound", kind: KindLight, patch: Patch{Brightness: intp(MinBrightness - 1)}, wantErr: ErrOutOfRange},
		{name: "brightness above upper bound", kind: KindLight, patch: Patch{Brightness: intp(MaxBrightness + 1)}, wantErr: ErrOutOfRange},
		{name: "targetTemp at lower bound", kind: KindThermostat, patch: Patch{TargetTemp: intp(MinTargetTemp)}},
		{name: "targetTemp at upper bound", kind: KindThermostat, patch: Patch{TargetTemp: intp(MaxTargetTemp)}},
		{name: "targetTemp below lower bound", kind: KindThermostat, patch: Patch{TargetTemp: intp(MinTargetTemp - 1)}, wantErr: ErrOutOfRange},
		{name: "targetTemp above upper bound", kind: KindThermostat, patch: Patch{TargetTemp: intp(MaxTargetTemp + 1)}, wantErr: ErrOutOfRange},
		{name: "currentTemp at lower bound", kind: KindThermostat, patch: Patch{CurrentTemp: intp(MinCurrentTemp)}},
		{name: "currentTemp at upper bound", kind: KindThermostat, patch: Patch{CurrentTemp: intp(MaxCurrentTemp)}},
		{name: "currentTemp below lower bound", kind: KindThermostat, patch: Patch{CurrentTemp: intp(MinCurrentTemp - 1)}, wantErr: ErrOutOfRange},
		{name: "currentTemp above upper bound", kind: KindThermostat, patch: Patch{CurrentTemp: intp(MaxCurrentTemp + 1)}, wantErr: ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePatch(tt.kind, tt.patch)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidatePatch() error = %v, want nil", err)
				}
			} else if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePatch() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewLight_Defaults(t *testing.T) {
	d, err := NewLight("office/light/desk-01", "Desk Light", nil)
	if err != nil {
		t.Fatalf("NewLight() error = %v", err)
	}

	if d.Kind != KindLight {
		t.Errorf("Kind = %q, want %q", d.Kind, KindLight)
	}
	if !d.IsOn {
		t.Error("IsOn = false, want true")
	}
	if d.Brightness == nil || *d.Brightness != DefaultBrightness {
		t.Errorf("Brightness = %v, want %d", d.Brightness, DefaultBrightness)
	}
	if d.ColorTemp == nil || *d.ColorTemp != DefaultColorTemp {
		t.Errorf("ColorTemp = %v, want %q", d.ColorTemp, DefaultColorTemp)
	}
	if d.TargetTemp != nil || d.CurrentTemp != nil || d.IsLocked != nil {
		t.Error("light carries non-light fields")
	}
}

func TestNewThermostat_RejectsOutOfRange(t *testing.T) {
	if _, err := NewThermostat("office/thermostat/wall-01", "Office", 31, 21); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("NewThermostat(target=31) error = %v, want ErrOutOfRange", err)
	}
	if _, err := NewThermostat("office/thermostat/wall-01", "Office", 22, 51); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("NewThermostat(current=51) error = %v, want ErrOutOfRange", err)
	}
}

func TestDeviceRoom(t *testing.T) {
	d, err := NewLock("garage/lock/side-door-01", "Side Door", true)
	if err != nil {
		t.Fatalf("NewLock() error = %v", err)
	}
	if got := d.Room(); got != "garage" {
		t.Errorf("Room() = %q, want %q", got, "garage")
	}
}
