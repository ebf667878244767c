package kmpar

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/hupe1980/kmpar/frame"
	"github.com/hupe1980/kmpar/internal/kmeans"
)

// DefaultMaxIter is used when Config.MaxIter is zero.
const DefaultMaxIter = 100

// Initialization selects how the first k centers are chosen.
type Initialization = kmeans.Initialization

const (
	// InitNone picks k random rows.
	InitNone = kmeans.InitNone
	// InitPlusPlus runs K-Means|| and reduces the candidates with K-Means++.
	InitPlusPlus = kmeans.InitPlusPlus
	// InitFurthest runs K-Means|| and reduces the candidates furthest-first.
	InitFurthest = kmeans.InitFurthest
)

// ParseInitialization parses "None", "PlusPlus" or "Furthest"
// (case-insensitive).
func ParseInitialization(s string) (Initialization, error) {
	for _, init := range []Initialization{InitNone, InitPlusPlus, InitFurthest} {
		if strings.EqualFold(s, init.String()) {
			return init, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidInitialization, s)
}

// Config holds the training parameters.
type Config struct {
	// K is the number of clusters, in [2, 100000].
	K int
	// MaxIter bounds the Lloyd iterations, in [1, 100000].
	// Zero means DefaultMaxIter.
	MaxIter int
	// Initialization selects the seeding mode.
	Initialization Initialization
	// Normalize trains on (x - mean) / sigma. Columns with sigma <= 1e-6
	// are only shifted.
	Normalize bool
	// Seed makes training reproducible. Nil draws a seed from crypto/rand.
	Seed *int64
	// Cols are the feature column indices in order. Empty means all.
	Cols []int
	// Destination names the snapshot location passed to the Snapshotter.
	Destination string
}

// Validate checks the configuration against ds.
func (c Config) Validate(ds *frame.Frame) error {
	_, err := c.features(ds)
	return err
}

func (c Config) maxIter() int {
	if c.MaxIter == 0 {
		return DefaultMaxIter
	}
	return c.MaxIter
}

// features validates c and returns the selected columns of ds.
func (c Config) features(ds *frame.Frame) (*frame.Frame, error) {
	if ds == nil {
		return nil, ErrEmptyDataset
	}

	features := ds
	if len(c.Cols) > 0 {
		if err := kmeans.ValidateColumns(c.Cols, ds.NumCols()); err != nil {
			return nil, translateError(err)
		}
		var err error
		if features, err = ds.Select(c.Cols); err != nil {
			return nil, err
		}
	}

	kc := c.resolve(0, features)
	if err := kc.Validate(features); err != nil {
		return nil, translateError(err)
	}
	return features, nil
}

func (c Config) resolve(seed int64, features *frame.Frame) kmeans.Config {
	return kmeans.Config{
		K:              c.K,
		MaxIter:        c.maxIter(),
		Initialization: c.Initialization,
		Normalize:      c.Normalize,
		Seed:           seed,
		Names:          features.Names(),
	}
}

func (c Config) seed() (int64, error) {
	if c.Seed != nil {
		return *c.Seed, nil
	}
	var b [8]byte
	if _, err := readEntropy(b[:]); err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

var readEntropy = rand.Read

// Seed returns a pointer to s, for Config.Seed.
func Seed(s int64) *int64 {
	return &s
}
