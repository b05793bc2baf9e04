package model

type ScanMode string

const (
	ScanIdle      ScanMode = "idle"
	ScanFull      ScanMode = "full"
	ScanTargeted  ScanMode = "targeted"
	ScanCompleted ScanMode = "completed"
)

// ScanProgress describes the sweep currently in flight. The monitor is
// the only writer; everyone else receives copies inside update
// messages and treats them as read-only.
type ScanProgress struct {
	Mode       ScanMode
	TotalRepos int
	Completed  int
	Skipped    int // archived or disabled, filtered before dispatch
	NextScanIn int // seconds until the next automatic scan
	CacheState string
	MemUsage   string
}
