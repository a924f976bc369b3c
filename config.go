package shimmer

import (
	"encoding/json"
	"os"
)

// Config is the Manager's configuration, loaded from a JSON file the way
// IMQS-updater's updater.Config is (updater/config.go's NewConfig/LoadFile
// pair), adapted to this module's remote-address-or-local-directory,
// lock-protected pipeline instead of IMQS's rsync-mirror one.
type Config struct {
	RemoteAddress          string
	InstallationRoot       string
	TargetFrameworkProfile string
	HostExecutable         string
	MaxDownloadRetries     int
	CheckIntervalSeconds   float64
	IgnoreDeltaUpdates     bool
}

// NewConfig returns a Config populated with this module's defaults.
func NewConfig() *Config {
	return &Config{
		TargetFrameworkProfile: "net45",
		MaxDownloadRetries:     3,
		CheckIntervalSeconds:   60 * 5,
	}
}

// LoadFile reads JSON-encoded fields from filename into this Config,
// overwriting only the fields present in the file.
func (this *Config) LoadFile(filename string) error {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, this)
}

func (this *Config) packagesDir() string {
	return this.InstallationRoot + "/packages"
}
