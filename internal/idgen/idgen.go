// Package idgen provides the identifier generators injected into stores and
// the bill composer.
package idgen

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

const (
	StrategySnowflake = "snowflake"
	StrategyUUID      = "uuid"
	StrategyULID      = "ulid"
	StrategySequence  = "sequence"
)

// Generator returns a new unique opaque identifier on every call.
type Generator interface {
	NewID() string
}

type Snowflake struct {
	node *snowflake.Node
}

func NewSnowflake(nodeID int64) (*Snowflake, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", nodeID, err)
	}
	return &Snowflake{node: node}, nil
}

func (s *Snowflake) NewID() string {
	return s.node.Generate().String()
}

type UUID struct{}

func (UUID) NewID() string {
	return uuid.NewString()
}

type ULID struct{}

func (ULID) NewID() string {
	return ulid.Make().String()
}

// Sequence yields prefix1, prefix2, ... and is safe for concurrent use.
type Sequence struct {
	prefix string
	next   atomic.Int64
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) NewID() string {
	return s.prefix + strconv.FormatInt(s.next.Add(1), 10)
}

// New builds the generator named by strategy. An empty strategy selects
// snowflake.
func New(strategy string, nodeID int64) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", StrategySnowflake:
		gen, err := NewSnowflake(nodeID)
		if err != nil {
			return nil, err
		}
		return gen, nil
	case StrategyUUID:
		return UUID{}, nil
	case StrategyULID:
		return ULID{}, nil
	case StrategySequence:
		return NewSequence("id-"), nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", strategy)
	}
}
