package analytics

import (
	"sync"
	"time"

	"github.com/angelmondragon/lucroreal-backend/internal/costs"
	"github.com/angelmondragon/lucroreal-backend/internal/sales"
)

// SalesInput is the parsed sales half of a snapshot.
type SalesInput struct {
	Version     uint64
	Name        string
	Format      string
	Fingerprint uint64
	LoadedAt    time.Time
	Lines       []sales.OrderLine
	Report      sales.Report
}

// CostsInput is the parsed cost reference half of a snapshot.
type CostsInput struct {
	Version     uint64
	Name        string
	Format      string
	Fingerprint uint64
	LoadedAt    time.Time
	Table       *costs.Table
	Report      costs.Report
}

// Snapshot is an immutable pair of inputs. Version is bumped locally on
// every change and keys the derived views; each half carries the version it
// was published under, so views never mix halves of different snapshots.
type Snapshot struct {
	Version uint64
	Sales   SalesInput
	Costs   CostsInput
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		Sales: SalesInput{Lines: []sales.OrderLine{}},
		Costs: CostsInput{Table: costs.NewTable()},
	}
}

// SnapshotStore holds the current snapshot. Readers get an immutable pointer;
// writers replace it wholesale under the lock.
type SnapshotStore struct {
	mu      sync.RWMutex
	current *Snapshot
	halfSeq uint64
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{current: emptySnapshot()}
}

// Current returns the snapshot being served.
func (s *SnapshotStore) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// NextHalfVersion allocates a local input version above every version seen so far.
func (s *SnapshotStore) NextHalfVersion() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.halfSeq = max(s.halfSeq, s.current.Sales.Version, s.current.Costs.Version) + 1
	return s.halfSeq
}

// Install replaces the halves that are provided and newer than the halves
// being served. A nil half is kept. When at least one half is replaced the
// snapshot version is bumped and the new snapshot is returned with true.
func (s *SnapshotStore) Install(salesIn *SalesInput, costsIn *CostsInput) (*Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.current
	changed := false
	if salesIn != nil && salesIn.Version > next.Sales.Version {
		next.Sales = *salesIn
		if next.Sales.Lines == nil {
			next.Sales.Lines = []sales.OrderLine{}
		}
		changed = true
	}
	if costsIn != nil && costsIn.Version > next.Costs.Version {
		next.Costs = *costsIn
		if next.Costs.Table == nil {
			next.Costs.Table = costs.NewTable()
		}
		changed = true
	}
	if !changed {
		return s.current, false
	}
	next.Version = s.current.Version + 1
	s.halfSeq = max(s.halfSeq, next.Sales.Version, next.Costs.Version)
	s.current = &next
	return s.current, true
}
