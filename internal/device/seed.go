package device

// DefaultDevices returns the fixed demo seed set: ten devices spanning
// four kinds of room and three device kinds. The registry is populated
// from this set once at process start.
func DefaultDevices() []*Device {
	var devices []*Device

	add := func(d *Device, err error) {
		if err != nil {
			// The seed identifiers are compile-time constants; a failure
			// here is a programming error.
			panic(err)
		}
		devices = append(devices, d)
	}

	add(NewLock("living-room/lock/front-door-01", "Front Door Lock", true))
	add(NewLight("living-room/light/ceiling-01", "Living Room Light", &LightOptions{
		Brightness: 65,
		ColorTemp:  "white",
	}))
	add(NewThermostat("living-room/thermostat/wall-01", "Smart Thermostat", 22, 21))
	add(NewLight("kitchen/light/ceiling-01", "Kitchen Ceiling Light", &LightOptions{
		Brightness: 80,
		ColorTemp:  "warm-white",
	}))
	add(NewLight("kitchen/light/under-cabinet-01", "Under-Cabinet Lights", &LightOptions{
		Brightness: 45,
		ColorTemp:  "cool-white",
		Off:        true,
	}))
	add(NewLight("bedroom/light/ceiling-01", "Bedroom Main Light", &LightOptions{
		Brightness: 30,
		ColorTemp:  "warm",
		Off:        true,
	}))
	add(NewLight("bedroom/light/bedside-01", "Bedside Lamp", &LightOptions{
		Brightness: 25,
		ColorTemp:  "warm",
	}))
	add(NewThermostat("bedroom/thermostat/wall-01", "Bedroom Thermostat", 20, 19))
	add(NewLight("bathroom/light/vanity-01", "Bathroom Vanity Light", &LightOptions{
		Brightness: 90,
		ColorTemp:  "cool",
	}))
	add(NewLight("bathroom/light/shower-01", "Shower Light", &LightOptions{
		Brightness: 70,
		ColorTemp:  "white",
		Off:        true,
	}))

	return devices
}

// Room is one entry in the room list served by the API.
type Room struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DefaultRooms returns the fixed room list for the default seed set,
// including the "all" sentinel entry.
func DefaultRooms() []Room {
	return []Room{
		{ID: RoomAll, Name: "All Rooms"},
		{ID: "living-room", Name: "Living Room"},
		{ID: "kitchen", Name: "Kitchen"},
		{ID: "bedroom", Name: "Bedroom"},
		{ID: "bathroom", Name: "Bathroom"},
	}
}
