// Package container recognises container membership from a process's
// control groups and resolves container ids to names.
package container

import (
	"bufio"
	"strings"
)

// Runtime names reported in Info.
const (
	RuntimeDocker     = "docker"
	RuntimeContainerd = "containerd"
	RuntimeKubernetes = "kubernetes"
	RuntimePodman     = "podman"
	RuntimeCRIO       = "cri-o"
)

// Info is what the cgroup file reveals about a containerised process.
type Info struct {
	ID      string
	Runtime string
	PodUID  string
}

// scopePrefixes map systemd scope names to the runtime that created them.
var scopePrefixes = []struct {
	prefix  string
	runtime string
}{
	{"cri-containerd-", RuntimeContainerd},
	{"docker-", RuntimeDocker},
	{"libpod-", RuntimePodman},
	{"crio-", RuntimeCRIO},
}

// FromCgroup inspects the content of /proc/<pid>/cgroup. Both the v1
// ("12:pids:/docker/<id>") and v2 ("0::/system.slice/docker-<id>.scope")
// layouts are understood, as are kubepods hierarchies.
func FromCgroup(raw string) (Info, bool) {
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		parts := strings.SplitN(scanner.Text(), ":", 3)
		if len(parts) != 3 {
			continue
		}
		if info, ok := fromPath(parts[2]); ok {
			return info, true
		}
	}
	return Info{}, false
}

func fromPath(path string) (Info, bool) {
	var info Info
	segments := strings.Split(strings.Trim(path, "/"), "/")

	for i, seg := range segments {
		switch {
		case seg == "docker" && i+1 < len(segments):
			info.Runtime = RuntimeDocker
			info.ID = segments[i+1]
		case strings.HasPrefix(seg, "kubepods"):
			info.Runtime = RuntimeKubernetes
			if uid := podUID(seg); uid != "" {
				info.PodUID = uid
			}
		case strings.HasPrefix(seg, "pod") && info.Runtime == RuntimeKubernetes:
			info.PodUID = strings.ReplaceAll(strings.TrimPrefix(seg, "pod"), "_", "-")
			if i+1 < len(segments) && isContainerID(segments[i+1]) {
				info.ID = segments[i+1]
			}
		default:
			name := strings.TrimSuffix(seg, ".scope")
			for _, sp := range scopePrefixes {
				if id, ok := strings.CutPrefix(name, sp.prefix); ok && isContainerID(id) {
					info.ID = id
					if info.Runtime == "" {
						info.Runtime = sp.runtime
					}
				}
			}
		}
	}

	if info.Runtime == "" {
		return Info{}, false
	}
	if info.ID == "" {
		// membership is certain but the id is not in the path
		info.ID = info.Runtime
	}
	return info, true
}

// podUID extracts the uid from systemd-style kubepods slices such as
// "kubepods-burstable-pod1234_5678.slice".
func podUID(seg string) string {
	idx := strings.LastIndex(seg, "-pod")
	if idx == -1 {
		return ""
	}
	uid := strings.TrimSuffix(seg[idx+len("-pod"):], ".slice")
	return strings.ReplaceAll(uid, "_", "-")
}

// isContainerID accepts the hex ids every OCI runtime uses (12 chars short
// form, 64 chars full).
func isContainerID(s string) bool {
	if len(s) < 12 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}

// ShortID returns the 12-character form docker prints.
func ShortID(id string) string {
	if len(id) > 12 && isContainerID(id) {
		return id[:12]
	}
	return id
}
