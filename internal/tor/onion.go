package tor

import (
	"encoding/base32"
	"net/url"
	"strings"

	"golang.org/x/crypto/sha3"
)

// OnionSuffix is the top-level domain of onion services.
const OnionSuffix = ".onion"

const (
	onionV3Length  = 56
	onionV3Version = 0x03
	checksumPrefix = ".onion checksum"
)

// IsOnionHost reports whether host is a valid v3 onion address. Subdomains
// such as www.<address>.onion are accepted; the checksum and version byte
// of the address label are verified.
func IsOnionHost(host string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if !strings.HasSuffix(host, OnionSuffix) {
		return false
	}
	labels := strings.Split(strings.TrimSuffix(host, OnionSuffix), ".")
	label := labels[len(labels)-1]
	if len(label) != onionV3Length {
		return false
	}

	decoded, err := base32.StdEncoding.DecodeString(strings.ToUpper(label))
	if err != nil || len(decoded) != 35 {
		return false
	}
	pubkey, checksum, version := decoded[:32], decoded[32:34], decoded[34]
	if version != onionV3Version {
		return false
	}

	data := make([]byte, 0, len(checksumPrefix)+len(pubkey)+1)
	data = append(data, checksumPrefix...)
	data = append(data, pubkey...)
	data = append(data, version)
	sum := sha3.Sum256(data)
	return checksum[0] == sum[0] && checksum[1] == sum[1]
}

// OnionSeeds returns the seeds whose host is an onion address. Those can
// only be fetched through Tor.
func OnionSeeds(seeds []string) []string {
	var out []string
	for _, s := range seeds {
		u, err := url.Parse(s)
		if err != nil {
			continue
		}
		if IsOnionHost(u.Hostname()) {
			out = append(out, s)
		}
	}
	return out
}
