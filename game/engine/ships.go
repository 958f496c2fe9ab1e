package engine

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// Rand is the randomness source used for ship placement.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand returns a Rand backed by the math/rand/v2 global source
func DefaultRand() Rand {
	return globalRand{}
}

// NewSeededRand returns a deterministic Rand for the given seed
func NewSeededRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// ShipSet holds the coordinates of ships that have not been hit yet.
// Copies of a ShipSet share the same underlying set.
type ShipSet struct {
	coords *mapset.Set[Coordinate]
}

// NewShipSet creates a ship set containing the given coordinates
func NewShipSet(coords ...Coordinate) ShipSet {
	set := mapset.New[Coordinate]()
	for _, c := range coords {
		set.Put(c)
	}
	return ShipSet{coords: &set}
}

// Len returns the number of ships left
func (s ShipSet) Len() int {
	if s.coords == nil {
		return 0
	}
	return s.coords.Size()
}

// Contains reports whether a ship occupies c
func (s ShipSet) Contains(c Coordinate) bool {
	if s.coords == nil {
		return false
	}
	return s.coords.Has(c)
}

// Empty reports whether every ship has been hit
func (s ShipSet) Empty() bool {
	return s.Len() == 0
}

func (s ShipSet) remove(c Coordinate) {
	if s.coords != nil {
		s.coords.Remove(c)
	}
}

// Coordinates returns the ship positions in row-major order
func (s ShipSet) Coordinates() []Coordinate {
	coords := make([]Coordinate, 0, s.Len())
	if s.coords != nil {
		s.coords.Each(func(c Coordinate) {
			coords = append(coords, c)
		})
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Row != coords[j].Row {
			return coords[i].Row < coords[j].Row
		}
		return coords[i].Col < coords[j].Col
	})
	return coords
}

// MarshalJSON encodes the set as a sorted list of coordinates
func (s ShipSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Coordinates())
}

// UnmarshalJSON decodes a list of coordinates into the set
func (s *ShipSet) UnmarshalJSON(data []byte) error {
	var coords []Coordinate
	if err := json.Unmarshal(data, &coords); err != nil {
		return err
	}
	*s = NewShipSet(coords...)
	return nil
}

// PlaceShips picks numShips distinct cells uniformly at random on a size x size board.
// Candidates are drawn independently and duplicates are rejected until the set is full.
func PlaceShips(rng Rand, size, numShips int) (ShipSet, error) {
	if size <= 0 {
		return ShipSet{}, fmt.Errorf("%w: board size must be positive, got %d", ErrInvalidConfiguration, size)
	}
	if numShips < 0 {
		return ShipSet{}, fmt.Errorf("%w: number of ships cannot be negative, got %d", ErrInvalidConfiguration, numShips)
	}
	if numShips > size*size {
		return ShipSet{}, fmt.Errorf("%w: %d ships do not fit on a %dx%d board", ErrInvalidConfiguration, numShips, size, size)
	}
	if rng == nil {
		rng = DefaultRand()
	}

	ships := NewShipSet()
	for ships.Len() < numShips {
		c := Coordinate{Row: rng.IntN(size), Col: rng.IntN(size)}
		if ships.Contains(c) {
			continue
		}
		ships.coords.Put(c)
	}
	return ships, nil
}
