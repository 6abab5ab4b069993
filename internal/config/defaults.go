package config

const (
	defaultStagingDir = "~/.local/share/tonearm/staging"
	defaultPackageDir = "~/.local/share/tonearm/packages"
	defaultBatchDir   = "~/.local/share/tonearm/batches"
	defaultLogDir     = "~/.local/share/tonearm/logs"
	defaultPartyID    = "PADPIDA0000000000T"
	defaultPartyName  = "Tonearm"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			PackageDir: defaultPackageDir,
			BatchDir:   defaultBatchDir,
			LogDir:     defaultLogDir,
		},
		Sender: Sender{
			PartyID:   defaultPartyID,
			PartyName: defaultPartyName,
		},
		Validation: Validation{
			ManifestTolerance: 0,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
