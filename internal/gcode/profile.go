package gcode

// Profile defines a post-processor configuration for a laser controller.
type Profile struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	StartCode []string `json:"start_code"`
	// LaserOn takes the power as its only argument (e.g. "M4 S%d").
	LaserOn  string `json:"laser_on"`
	LaserOff string `json:"laser_off"`
	// MaxPower is the S value at 100% power.
	MaxPower int `json:"max_power"`

	RapidMove string   `json:"rapid_move"`
	FeedMove  string   `json:"feed_move"`
	EndCode   []string `json:"end_code"`

	CommentPrefix string `json:"comment_prefix"`
	CommentSuffix string `json:"comment_suffix"`

	DecimalPlaces int `json:"decimal_places"`
}

// Profiles are the built-in controller profiles. Generic must stay last.
var Profiles = []Profile{
	{
		Name:          "Grbl",
		Description:   "Grbl 1.1 in laser mode ($32=1), dynamic power",
		StartCode:     []string{"G90", "G21", "G17"},
		LaserOn:       "M4 S%d",
		LaserOff:      "M5",
		MaxPower:      1000,
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"M5", "G0 X0 Y0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
	},
	{
		Name:          "Marlin",
		Description:   "Marlin with LASER_FEATURE enabled",
		StartCode:     []string{"G90", "G21"},
		LaserOn:       "M3 S%d",
		LaserOff:      "M5",
		MaxPower:      255,
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"M5", "G0 X0 Y0"},
		CommentPrefix: ";",
		DecimalPlaces: 2,
	},
	{
		Name:          "LinuxCNC",
		Description:   "LinuxCNC with spindle-driven laser",
		StartCode:     []string{"G90", "G21", "G17", "G94"},
		LaserOn:       "M3 S%d",
		LaserOff:      "M5",
		MaxPower:      1000,
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"M5", "G0 X0 Y0", "M2"},
		CommentPrefix: "(",
		CommentSuffix: ")",
		DecimalPlaces: 4,
	},
	{
		Name:          "Generic",
		Description:   "Generic laser G-code",
		StartCode:     []string{"G90", "G21"},
		LaserOn:       "M3 S%d",
		LaserOff:      "M5",
		MaxPower:      1000,
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"M5", "G0 X0 Y0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
	},
}

// GetProfile returns a profile by name, or the Generic profile if not found.
func GetProfile(name string) Profile {
	for _, p := range Profiles {
		if p.Name == name {
			return p
		}
	}
	return Profiles[len(Profiles)-1]
}

// GetProfileNames returns a list of all available profile names.
func GetProfileNames() []string {
	names := make([]string, 0, len(Profiles))
	for _, p := range Profiles {
		names = append(names, p.Name)
	}
	return names
}
