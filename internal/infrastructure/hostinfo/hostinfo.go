package hostinfo

import (
	"context"
	"fmt"
	"os/user"
	"time"

	"github.com/shirou/gopsutil/v3/host"
)

// Identity describes the machine a notification run executed on. It fills
// the context line of the main message when the environment does not pin
// hostname/username explicitly.
type Identity struct {
	Hostname string
	Username string
	Platform string
	Uptime   time.Duration
}

// Detect collects the host identity.
func Detect(ctx context.Context) (Identity, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to read host info: %w", err)
	}

	identity := Identity{
		Hostname: info.Hostname,
		Platform: fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion),
		Uptime:   time.Duration(info.Uptime) * time.Second,
	}

	if current, err := user.Current(); err == nil {
		identity.Username = current.Username
	}

	return identity, nil
}
