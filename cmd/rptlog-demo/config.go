package main

import (
	"flag"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type DemoConfig struct {
	Capacity  int           `toml:"capacity"`
	Producers int           `toml:"producers"`
	Steps     int           `toml:"steps"`
	Interval  time.Duration `toml:"interval"`
	NoColor   bool          `toml:"no_color"`
	ShowIcons bool          `toml:"show_icons"`
}

func attachFlags() func() (*DemoConfig, error) {
	var capacity = flag.Int("capacity", 1000, "maximum number of entries kept by the report log (0 disables eviction)")
	var producers = flag.Int("producers", 4, "number of concurrent producer goroutines")
	var steps = flag.Int("steps", 10, "progress steps reported by every producer")
	var interval = flag.Duration("interval", 20*time.Millisecond, "pause between progress steps")
	var noColor = flag.Bool("no_color", false, "disable ANSI colors even on a terminal")
	var showIcons = flag.Bool("show_icons", false, "print entry icon references")

	// configuration file option
	var configFile = flag.String("config", "", "configuration file to load over the flags (toml formatted)")
	return func() (*DemoConfig, error) {
		cfg := &DemoConfig{*capacity, *producers, *steps, *interval, *noColor, *showIcons}
		return loadConfig(cfg, *configFile)
	}
}

func loadConfig(cfg *DemoConfig, configFile string) (*DemoConfig, error) {
	if configFile == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, err
	}
	if _, err = toml.Decode(string(data), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
