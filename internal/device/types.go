package device

import "time"

// Kind identifies one of the three simulated device kinds.
// The set is closed: validation, stats, and serialisation all switch
// over it exhaustively.
type Kind string

// Kind constants.
const (
	KindLight      Kind = "light"
	KindThermostat Kind = "thermostat"
	KindLock       Kind = "lock"
)

// AllKinds returns all valid device kinds.
func AllKinds() []Kind {
	return []Kind{KindLight, KindThermostat, KindLock}
}

// Field bounds for kind-specific numeric values. All bounds are inclusive.
const (
	MinBrightness = 0
	MaxBrightness = 100

	MinTargetTemp = 16
	MaxTargetTemp = 30

	MinCurrentTemp = -20
	MaxCurrentTemp = 50
)

// Default field values applied by the constructors.
const (
	DefaultBrightness  = 65
	DefaultColorTemp   = "white"
	DefaultTargetTemp  = 22
	DefaultCurrentTemp = 21
)

// Device represents one simulated smart-home device.
//
// It is a tagged variant: Kind selects which of the optional pointer
// fields are populated. A light carries Brightness and ColorTemp, a
// thermostat TargetTemp and CurrentTemp, a lock IsLocked. Fields that do
// not belong to the device's kind are always nil.
type Device struct {
	// Identity. ID is the normalised location/kind/instance identifier
	// and acts as the primary key; both are immutable after creation.
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`

	// Common state.
	IsOn        bool      `json:"isOn"`
	LastUpdated time.Time `json:"lastUpdated"`

	// Light.
	Brightness *int    `json:"brightness,omitempty"`
	ColorTemp  *string `json:"colorTemp,omitempty"`

	// Thermostat.
	TargetTemp  *int `json:"targetTemp,omitempty"`
	CurrentTemp *int `json:"currentTemp,omitempty"`

	// Lock.
	IsLocked *bool `json:"isLocked,omitempty"`
}

// Room returns the first identifier segment.
func (d *Device) Room() string {
	for i := 0; i < len(d.ID); i++ {
		if d.ID[i] == '/' {
			return d.ID[:i]
		}
	}
	return d.ID
}

// Clone creates an independent copy of the Device. Pointer fields are
// re-allocated so modifications to the copy do not affect the original.
func (d *Device) Clone() *Device {
	if d == nil {
		return nil
	}

	cpy := *d
	cpy.Brightness = cloneInt(d.Brightness)
	cpy.ColorTemp = cloneString(d.ColorTemp)
	cpy.TargetTemp = cloneInt(d.TargetTemp)
	cpy.CurrentTemp = cloneInt(d.CurrentTemp)
	cpy.IsLocked = cloneBool(d.IsLocked)
	return &cpy
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	cpy := *v
	return &cpy
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	cpy := *v
	return &cpy
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	cpy := *v
	return &cpy
}

// LightOptions customises NewLight beyond the defaults.
type LightOptions struct {
	Brightness int
	ColorTemp  string
	Off        bool
}

// NewLight constructs a light device with validated identifier and the
// documented defaults (brightness 65, colour "white", on).
func NewLight(id, name string, opts *LightOptions) (*Device, error) {
	normalised, err := ValidateID(id)
	if err != nil {
		return nil, err
	}

	brightness := DefaultBrightness
	colorTemp := DefaultColorTemp
	on := true
	if opts != nil {
		brightness = opts.Brightness
		if opts.ColorTemp != "" {
			colorTemp = opts.ColorTemp
		}
		on = !opts.Off
	}
	if err := validateRange("brightness", brightness, MinBrightness, MaxBrightness); err != nil {
		return nil, err
	}

	return &Device{
		ID:          normalised,
		Name:        name,
		Kind:        KindLight,
		IsOn:        on,
		LastUpdated: time.Now().UTC(),
		Brightness:  &brightness,
		ColorTemp:   &colorTemp,
	}, nil
}

// NewThermostat constructs a thermostat device with validated identifier
// and the documented defaults (target 22, current 21, on).
func NewThermostat(id, name string, targetTemp, currentTemp int) (*Device, error) {
	normalised, err := ValidateID(id)
	if err != nil {
		return nil, err
	}
	if err := validateRange("targetTemp", targetTemp, MinTargetTemp, MaxTargetTemp); err != nil {
		return nil, err
	}
	if err := validateRange("currentTemp", currentTemp, MinCurrentTemp, MaxCurrentTemp); err != nil {
		return nil, err
	}

	return &Device{
		ID:          normalised,
		Name:        name,
		Kind:        KindThermostat,
		IsOn:        true,
		LastUpdated: time.Now().UTC(),
		TargetTemp:  &targetTemp,
		CurrentTemp: &currentTemp,
	}, nil
}

// NewLock constructs a lock device with validated identifier.
// Locks default to locked and on.
func NewLock(id, name string, locked bool) (*Device, error) {
	normalised, err := ValidateID(id)
	if err != nil {
		return nil, err
	}

	return &Device{
		ID:          normalised,
		Name:        name,
		Kind:        KindLock,
		IsOn:        true,
		LastUpdated: time.Now().UTC(),
		IsLocked:    &locked,
	}, nil
}
