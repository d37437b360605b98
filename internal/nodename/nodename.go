package nodename

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"anvil/pkg/logging"
)

// Mode selects how distributed identity is started.
type Mode int

const (
	// ModeNone means no identity was requested; the step is a no-op.
	ModeNone Mode = iota
	// ModeLocal starts identity with a short, host-local name.
	ModeLocal
	// ModeFull starts identity with a fully-qualified name.
	ModeFull
)

func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeFull:
		return "fully-qualified"
	default:
		return "none"
	}
}

// ErrAmbiguousIdentity indicates that both a fully-qualified and a local
// name were supplied. This is a configuration error checked before any other
// bootstrap step runs.
var ErrAmbiguousIdentity = errors.New("both name and sname supplied, identity mode is ambiguous")

// ErrDiscoveryUnavailable indicates the peer-discovery daemon required for
// distributed identity is not reachable. Bootstrap downgrades this to a
// warning and continues un-networked.
var ErrDiscoveryUnavailable = errors.New("peer-discovery daemon unavailable")

// Plan validates the identity options and returns the mode plus the identity
// to use. Supplying both options fails with ErrAmbiguousIdentity.
func Plan(name, sname string) (Mode, string, error) {
	switch {
	case name != "" && sname != "":
		return ModeNone, "", ErrAmbiguousIdentity
	case name != "":
		return ModeFull, name, nil
	case sname != "":
		return ModeLocal, sname, nil
	default:
		return ModeNone, "", nil
	}
}

// Service starts distributed identity for the process.
type Service interface {
	Start(identity string, mode Mode) error
}

// netService is the default Service. It qualifies the identity with the host
// name when needed and probes the local peer-discovery daemon before
// declaring the node networked.
type netService struct {
	discoveryAddr string
	dialTimeout   time.Duration
}

// DefaultDiscoveryAddr is where the peer-discovery daemon is expected to
// listen on the local host.
const DefaultDiscoveryAddr = "127.0.0.1:4369"

// NewService returns the default identity service. An empty discoveryAddr
// selects DefaultDiscoveryAddr.
func NewService(discoveryAddr string) Service {
	if discoveryAddr == "" {
		discoveryAddr = DefaultDiscoveryAddr
	}
	return &netService{
		discoveryAddr: discoveryAddr,
		dialTimeout:   500 * time.Millisecond,
	}
}

func (s *netService) Start(identity string, mode Mode) error {
	if mode == ModeNone {
		return nil
	}

	qualified := identity
	if !strings.Contains(identity, "@") {
		host, err := os.Hostname()
		if err != nil {
			return fmt.Errorf("determine host for identity %q: %w", identity, err)
		}
		qualified = identity + "@" + host
	}

	conn, err := net.DialTimeout("tcp", s.discoveryAddr, s.dialTimeout)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDiscoveryUnavailable, err)
	}
	defer conn.Close()

	logging.Info("NodeNamer", "Started %s distributed identity as %s", mode, qualified)
	return nil
}
