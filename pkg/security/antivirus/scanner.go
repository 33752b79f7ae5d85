package antivirus

import "context"

// ScanResult contains the result of a malware scan
type ScanResult struct {
	Infected    bool   // True if malware was detected
	ThreatName  string // Name of detected threat (empty if clean)
	ScannerName string
	Error       error // set when the scan could not complete; Infected is then true
}

// Scanner is the interface for pluggable antivirus implementations.
// Scanners fail closed: a scan that cannot complete reports Infected.
type Scanner interface {
	Scan(ctx context.Context, filename string, data []byte) ScanResult
	Name() string
	Available(ctx context.Context) bool
}

// NoOpScanner reports every file as clean
type NoOpScanner struct{}

var _ Scanner = (*NoOpScanner)(nil)

func NewNoOpScanner() *NoOpScanner {
	return &NoOpScanner{}
}

func (n *NoOpScanner) Scan(_ context.Context, _ string, _ []byte) ScanResult {
	return ScanResult{ScannerName: n.Name()}
}

func (n *NoOpScanner) Name() string {
	return "noop"
}

func (n *NoOpScanner) Available(context.Context) bool {
	return true
}
