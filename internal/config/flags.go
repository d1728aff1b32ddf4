package config

import (
	"flag"
	"fmt"
)

// Overrides are command line values that take precedence over the settings file
type Overrides struct {
	Hotkey         string
	MaxBuffered    int
	NoTray         bool
	StartListening bool
	Autostart      string
}

// Register defines the override flags on fs
func (o *Overrides) Register(fs *flag.FlagSet) {
	fs.StringVar(&o.Hotkey, "hotkey", "", "Hotkey that pauses/resumes listening, e.g. Ctrl+M")
	fs.IntVar(&o.MaxBuffered, "max-buffered", 0, "Maximum movements kept between pauses (0 = unlimited)")
	fs.BoolVar(&o.NoTray, "no-tray", false, "Run without a system tray icon")
	fs.BoolVar(&o.StartListening, "start-listening", false, "Open the listening gate at startup")
	fs.StringVar(&o.Autostart, "autostart", "", "Start on login: on or off")
}

// Apply copies the flags actually set on fs into cfg. Unset flags keep the loaded values.
func (o *Overrides) Apply(fs *flag.FlagSet, cfg *Config) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "hotkey":
			cfg.ToggleHotkey = o.Hotkey
		case "max-buffered":
			cfg.MaxBuffered = o.MaxBuffered
		case "no-tray":
			cfg.ShowTray = !o.NoTray
		case "start-listening":
			cfg.StartListening = o.StartListening
		case "autostart":
			switch o.Autostart {
			case "on":
				cfg.StartOnLogin = true
			case "off":
				cfg.StartOnLogin = false
			default:
				err = fmt.Errorf("-autostart must be 'on' or 'off', got %q", o.Autostart)
			}
		}
	})
	return err
}

// AutostartSet reports whether -autostart was given on fs
func AutostartSet(fs *flag.FlagSet) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "autostart" {
			set = true
		}
	})
	return set
}
