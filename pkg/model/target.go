package model

type TargetType string

const (
	TargetPID  TargetType = "pid"
	TargetPort TargetType = "port"
	TargetName TargetType = "name"
)

type Target struct {
	Type  TargetType `json:"type" yaml:"type"`
	Value string     `json:"value" yaml:"value"`
}
