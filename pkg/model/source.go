package model

type SourceType string

const (
	SourceSystem     SourceType = "system"
	SourceSystemd    SourceType = "systemd"
	SourceLaunchd    SourceType = "launchd"
	SourceDocker     SourceType = "docker"
	SourcePM2        SourceType = "pm2"
	SourceSupervisor SourceType = "supervisor"
	SourceCron       SourceType = "cron"
	SourceManual     SourceType = "manual"
)

type Source struct {
	Type    SourceType        `json:"type" yaml:"type"`
	Name    string            `json:"name" yaml:"name"`
	Details map[string]string `json:"details,omitempty" yaml:"details,omitempty"`
}
