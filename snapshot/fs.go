package snapshot

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/kcmaxwell/flux/log"
	"github.com/xujiajun/nutsdb"
)

func formatSnapshotId(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseSnapshotId(idStr string) int64 {
	id, _ := strconv.ParseInt(idStr, 10, 64)
	return id
}

type fs struct {
	logger log.Logger
	db     *nutsdb.DB

	mutex *sync.Mutex
	//staged holds snapshot state not yet (or already) persisted, keyed by id
	staged map[int64]map[string][]byte
	//snapshots are the currently persisted snapshot ids, sorted ascending
	snapshots []int64

	snapshotsTotalNum    int
	snapshotsNumMerged   int
	snapshotsNumRetained int
}

func (r *fs) init() error {
	return r.db.View(func(tx *nutsdb.Tx) error {
		if err := tx.IterateBuckets(nutsdb.DataStructureBPTree, "*", func(key string) bool {
			r.snapshots = append(r.snapshots, parseSnapshotId(key))
			return true
		}); err != nil {
			return fmt.Errorf("unable to iterate snapshots, the state maybe corrupted: %w", err)
		}
		sort.Slice(r.snapshots, func(i, j int) bool {
			return r.snapshots[i] < r.snapshots[j]
		})
		for _, snapshotId := range r.snapshots {
			entries, err := tx.GetAll(formatSnapshotId(snapshotId))
			if err != nil {
				return fmt.Errorf("failed to get %d snapshot state: %w", snapshotId, err)
			}
			if len(entries) > 0 {
				snapshotState := map[string][]byte{}
				for _, entry := range entries {
					snapshotState[string(entry.Key)] = entry.Value
				}
				r.staged[snapshotId] = snapshotState
			}
		}
		return nil
	})
}

func (r *fs) Save(id int64, name string, state []byte) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	snapshotState, ok := r.staged[id]
	if !ok {
		snapshotState = map[string][]byte{}
		r.staged[id] = snapshotState
	}
	snapshotState[name] = state
	return nil
}

// Persist writes the staged snapshot to the db file, then applies the
// retention and merge policies.
func (r *fs) Persist(id int64) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	snapshotState, ok := r.staged[id]
	if !ok {
		return fmt.Errorf("snapshot %d not found", id)
	}
	if err := r.db.Update(func(tx *nutsdb.Tx) error {
		for name, state := range snapshotState {
			if err := tx.Put(formatSnapshotId(id), []byte(name), state, 0); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to persist %d snapshot state: %w", id, err)
	}
	r.snapshots = append(r.snapshots, id)
	r.snapshotsTotalNum += 1
	if r.snapshotsTotalNum%r.snapshotsNumRetained == 0 {
		if err := r.db.Update(func(tx *nutsdb.Tx) error {
			var expiredSnapshotIds []int64
			if len(r.snapshots) > r.snapshotsNumRetained {
				expiredSnapshotIds = r.snapshots[:len(r.snapshots)-r.snapshotsNumRetained]
				r.snapshots = r.snapshots[len(r.snapshots)-r.snapshotsNumRetained:]
			}
			for _, expiredSnapshotId := range expiredSnapshotIds {
				if err := tx.DeleteBucket(nutsdb.DataStructureBPTree, formatSnapshotId(expiredSnapshotId)); err != nil {
					return err
				}
			}
			for _, expiredSnapshotId := range expiredSnapshotIds {
				delete(r.staged, expiredSnapshotId)
			}
			return nil
		}); err != nil {
			r.logger.Warnw("failed to clear up expired snapshot data", "error", err)
		}
	}
	if r.snapshotsTotalNum%r.snapshotsNumMerged == 0 {
		if err := r.db.Merge(); err != nil {
			r.logger.Warnw("failed to merge fs state", "error", err)
		}
	}
	return nil
}

func (r *fs) Latest(name string) ([]byte, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for i := len(r.snapshots) - 1; i >= 0; i-- {
		snapshotState, ok := r.staged[r.snapshots[i]]
		if !ok {
			return nil, fmt.Errorf("state for snapshot %d not found", r.snapshots[i])
		}
		if state, ok := snapshotState[name]; ok {
			return state, nil
		}
	}
	return nil, nil
}

func (r *fs) Close() error {
	return r.db.Close()
}

// NewFSBackend persists snapshots to a nutsdb database under dir, keeping
// the most recent snapshotsNumRetained snapshots and merging the db file
// every snapshotsNumMerged snapshots.
func NewFSBackend(logger log.Logger, dir string, snapshotsNumRetained int, snapshotsNumMerged int) (Backend, error) {
	if snapshotsNumRetained <= 0 {
		return nil, fmt.Errorf("snapshots retained count must be positive, got %d", snapshotsNumRetained)
	}
	if snapshotsNumMerged <= 0 {
		return nil, fmt.Errorf("snapshots merged count must be positive, got %d", snapshotsNumMerged)
	}
	opts := nutsdb.DefaultOptions
	opts.SegmentSize = 1 * nutsdb.GB
	opts.Dir = dir
	db, err := nutsdb.Open(opts)
	if err != nil {
		return nil, err
	}
	backend := &fs{
		logger:               logger,
		db:                   db,
		mutex:                &sync.Mutex{},
		staged:               map[int64]map[string][]byte{},
		snapshots:            []int64{},
		snapshotsNumRetained: snapshotsNumRetained,
		snapshotsNumMerged:   snapshotsNumMerged,
	}
	return backend, backend.init()
}
