package interfaces

// RefreshOutcome reports what a single poll cycle did.
type RefreshOutcome string

const (
	RefreshChanged   RefreshOutcome = "changed"
	RefreshUnchanged RefreshOutcome = "unchanged"
	RefreshCoalesced RefreshOutcome = "coalesced"
)

type SchedulerInterface interface {
	Init()
	Stop()
	Bootstrap()
	Refresh() (RefreshOutcome, error)
	Restore() error
	Persist() error
}

type CompressorInterface interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
	Close()
}
