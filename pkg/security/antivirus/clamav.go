package antivirus

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/dutchcoders/go-clamd"
)

// ClamAVScanner streams files to a clamd daemon with the INSTREAM command
type ClamAVScanner struct {
	client *clamd.Clamd
}

var _ Scanner = (*ClamAVScanner)(nil)

// NewClamAVScanner creates a ClamAV scanner.
// address: "tcp://localhost:3310" or a Unix socket path such as "/var/run/clamav/clamd.sock"
func NewClamAVScanner(address string) *ClamAVScanner {
	return &ClamAVScanner{client: clamd.NewClamd(address)}
}

func (c *ClamAVScanner) Name() string {
	return "clamav"
}

// Available pings the daemon
func (c *ClamAVScanner) Available(context.Context) bool {
	return c.client.Ping() == nil
}

// Scan checks data for malware
func (c *ClamAVScanner) Scan(ctx context.Context, _ string, data []byte) ScanResult {
	result := ScanResult{ScannerName: c.Name()}
	fail := func(err error) ScanResult {
		result.Infected = true
		result.Error = err
		return result
	}

	abort := make(chan bool)
	defer close(abort)

	replies, err := c.client.ScanStream(bytes.NewReader(data), abort)
	if err != nil {
		return fail(fmt.Errorf("failed to scan with clamd: %w", err))
	}

	for {
		select {
		case <-ctx.Done():
			return fail(ctx.Err())
		case reply, ok := <-replies:
			if !ok {
				return result
			}
			switch reply.Status {
			case clamd.RES_OK:
			case clamd.RES_FOUND:
				result.Infected = true
				result.ThreatName = strings.TrimSpace(reply.Description)
				return result
			default:
				return fail(fmt.Errorf("scan error: %s", reply.Raw))
			}
		}
	}
}
