//go:build !linux

package target

import "context"

func serviceMainPID(context.Context, string) (int, bool) {
	return 0, false
}
