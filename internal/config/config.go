// Package config applies settings from an INI file to the command's flags.
//
// Flags passed on the command line always win; the file only fills in flags
// the user did not set. Keys may sit at the top of the file or under a
// [sweep] section.
package config

import (
	"fmt"

	"github.com/go-ini/ini"
	"github.com/spf13/pflag"
)

// Section is the INI section holding sweep settings.
const Section = "sweep"

// Apply loads the INI file at path and sets every matching flag not already
// changed on the command line. Unknown keys and sections are errors, so a
// typo in a config file never silently no-ops.
func Apply(flags *pflag.FlagSet, path string) error {
	cfg, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	for _, section := range cfg.Sections() {
		name := section.Name()
		if name != ini.DefaultSection && name != Section {
			return fmt.Errorf("unknown config section %q in %s", name, path)
		}
		for _, key := range section.Keys() {
			flag := flags.Lookup(key.Name())
			if flag == nil {
				return fmt.Errorf("unknown option %q in %s", key.Name(), path)
			}
			if flag.Changed {
				continue
			}
			if err := flags.Set(key.Name(), key.Value()); err != nil {
				return fmt.Errorf("option %q in %s: %w", key.Name(), path, err)
			}
		}
	}
	return nil
}
