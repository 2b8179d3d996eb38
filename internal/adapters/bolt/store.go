package bolt

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"go.etcd.io/bbolt"

	"driftcheck/internal/domain"
	"driftcheck/internal/ports"
)

var (
	bucketMeta = []byte("meta")
	bucketCube = []byte("cube")
	bucketMaps = []byte("maps")
)

// geometry is the JSON metadata stored next to each payload. Keeping the
// actual run-number list (not just the count) lets artifacts survive gaps
// in the run sequence.
type geometry struct {
	Detectors int   `json:"detectors"`
	Runs      []int `json:"runs"`
	Low       int   `json:"low"`
	High      int   `json:"high"`
	Width     int   `json:"width"` // reduced width; maps only
}

// Store persists spectrum cubes and drift maps in a bbolt container.
// Float payloads are stored as raw IEEE-754 bits, so a read-back is
// bit-identical to what was written.
type Store struct {
	db *bbolt.DB
}

// Ensure Store implements ports.ArtifactStore
var _ ports.ArtifactStore = (*Store)(nil)

// Open opens (or creates) the container file at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact container: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketMeta, bucketCube, bucketMaps} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create artifact buckets: %w", err)
	}

	return &Store{db: db}, nil
}

// WriteCube stores the full spectrum cube, one detector block per key.
func (s *Store) WriteCube(c *domain.Cube) error {
	meta, err := json.Marshal(geometry{
		Detectors: c.Detectors(),
		Runs:      c.Runs(),
		Low:       c.Range().Low,
		High:      c.Range().High,
	})
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketMeta).Put([]byte("cube"), meta); err != nil {
			return err
		}
		b := tx.Bucket(bucketCube)
		for det := 0; det < c.Detectors(); det++ {
			if err := b.Put(itob(det), encodeFloats(c.DetectorBlock(det))); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadCube reconstructs the stored cube.
func (s *Store) ReadCube() (*domain.Cube, error) {
	var cube *domain.Cube
	err := s.db.View(func(tx *bbolt.Tx) error {
		g, err := s.readGeometry(tx, "cube")
		if err != nil {
			return err
		}

		rng := domain.ChannelRange{Low: g.Low, High: g.High}
		data := make([]float64, 0, g.Detectors*len(g.Runs)*rng.Width())
		b := tx.Bucket(bucketCube)
		for det := 0; det < g.Detectors; det++ {
			payload := b.Get(itob(det))
			if payload == nil {
				return fmt.Errorf("artifact has no payload for detector %d", det)
			}
			data = append(data, decodeFloats(payload)...)
		}

		cube, err = domain.NewCubeFromData(g.Detectors, g.Runs, rng, data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cube, nil
}

// WriteMaps stores one drift map per detector. All maps must share the run
// axis of the cube they were reduced from.
func (s *Store) WriteMaps(maps []domain.DriftMap, rng domain.ChannelRange) error {
	if len(maps) == 0 {
		return fmt.Errorf("no drift maps to write")
	}
	meta, err := json.Marshal(geometry{
		Detectors: len(maps),
		Runs:      maps[0].Runs,
		Low:       rng.Low,
		High:      rng.High,
		Width:     maps[0].Width,
	})
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketMeta).Put([]byte("maps"), meta); err != nil {
			return err
		}
		b := tx.Bucket(bucketMaps)
		for _, m := range maps {
			if err := b.Put(itob(m.Detector), encodeFloats(m.Values)); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadMaps reconstructs the stored drift maps in detector order.
func (s *Store) ReadMaps() ([]domain.DriftMap, error) {
	var maps []domain.DriftMap
	err := s.db.View(func(tx *bbolt.Tx) error {
		g, err := s.readGeometry(tx, "maps")
		if err != nil {
			return err
		}

		b := tx.Bucket(bucketMaps)
		maps = make([]domain.DriftMap, g.Detectors)
		for det := 0; det < g.Detectors; det++ {
			payload := b.Get(itob(det))
			if payload == nil {
				return fmt.Errorf("artifact has no drift map for detector %d", det)
			}
			values := decodeFloats(payload)
			if len(values) != len(g.Runs)*g.Width {
				return fmt.Errorf("detector %d payload has %d values, want %d", det, len(values), len(g.Runs)*g.Width)
			}
			maps[det] = domain.DriftMap{
				Detector: det,
				Runs:     append([]int(nil), g.Runs...),
				Width:    g.Width,
				Values:   values,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return maps, nil
}

// Close closes the container file.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) readGeometry(tx *bbolt.Tx, key string) (*geometry, error) {
	raw := tx.Bucket(bucketMeta).Get([]byte(key))
	if raw == nil {
		return nil, fmt.Errorf("artifact contains no %s", key)
	}
	var g geometry
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("failed to decode %s metadata: %w", key, err)
	}
	return &g, nil
}

// itob returns an 8-byte big-endian representation of v.
func itob(v int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

func encodeFloats(values []float64) []byte {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

func decodeFloats(buf []byte) []float64 {
	values := make([]float64, len(buf)/8)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return values
}
