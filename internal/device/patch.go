package device

// Patch is a sparse partial update for a device.
//
// A nil field means "leave untouched". There is no tri-state: a field
// explicitly set to JSON null decodes to nil and is indistinguishable
// from an absent field.
type Patch struct {
	IsOn        *bool   `json:"isOn"`
	Brightness  *int    `json:"brightness"`
	ColorTemp   *string `json:"colorTemp"`
	TargetTemp  *int    `json:"targetTemp"`
	CurrentTemp *int    `json:"currentTemp"`
	IsLocked    *bool   `json:"isLocked"`
}

// IsEmpty reports whether no field is populated.
func (p Patch) IsEmpty() bool {
	return p.IsOn == nil &&
		p.Brightness == nil &&
		p.ColorTemp == nil &&
		p.TargetTemp == nil &&
		p.CurrentTemp == nil &&
		p.IsLocked == nil
}

// apply merges the populated fields into the device. The caller must
// have validated the patch against the device's kind first; apply never
// fails and writes only fields that are populated.
func (p Patch) apply(d *Device) {
	if p.IsOn != nil {
		d.IsOn = *p.IsOn
	}
	if p.Brightness != nil {
		d.Brightness = cloneInt(p.Brightness)
	}
	if p.ColorTemp != nil {
		d.ColorTemp = cloneString(p.ColorTemp)
	}
	if p.TargetTemp != nil {
		d.TargetTemp = cloneInt(p.TargetTemp)
	}
	if p.CurrentTemp != nil {
		d.CurrentTemp = cloneInt(p.CurrentTemp)
	}
	if p.IsLocked != nil {
		d.IsLocked = cloneBool(p.IsLocked)
	}
}
