//go:build linux

package proc

import (
	"context"
	"os"
	"strconv"

	cache "github.com/Code-Hex/go-generics-cache"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// ownerUID reports the owner of /proc/<pid>, which is the real uid of the
// process.
func (p *linuxProvider) ownerUID(pid int) (string, bool) {
	var st unix.Stat_t
	if err := unix.Stat(p.procRoot+"/"+strconv.Itoa(pid), &st); err != nil {
		return "", false
	}
	return strconv.FormatUint(uint64(st.Uid), 10), true
}

// username resolves uid through /etc/passwd, falling back to the uid itself.
// Results are reused for the lookup TTL.
func (p *linuxProvider) username(ctx context.Context, uid string) string {
	if uid == "0" {
		return "root"
	}
	if name, ok := p.users.Get(uid); ok {
		return name
	}

	name := uid
	passwd, err := os.ReadFile("/etc/passwd")
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("read passwd")
	} else if found, ok := lookupPasswd(string(passwd), uid); ok {
		name = found
	}

	p.users.Set(uid, name, cache.WithExpiration(p.ttl))
	return name
}
