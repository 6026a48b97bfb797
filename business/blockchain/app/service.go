package app

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/fd1az/amm-arb-bot/business/blockchain/domain"
)

// Swap event topics for the two AMM families. Pools emit exactly one of
// these per swap, so filtering on both catches activity on any venue.
var (
	// SwapTopicCL is Swap(address,address,int256,int256,uint160,uint128,int24).
	SwapTopicCL = crypto.Keccak256Hash([]byte("Swap(address,address,int256,int256,uint160,uint128,int24)"))

	// SwapTopicCP is Swap(address,uint256,uint256,uint256,uint256,address).
	SwapTopicCP = crypto.Keccak256Hash([]byte("Swap(address,uint256,uint256,uint256,uint256,address)"))
)

// ChainService exposes the chain reads the polling loop needs: head
// tracking and swap-log scanning across watched pools.
type ChainService struct {
	reader ChainReader
}

// NewChainService creates a ChainService over the given reader.
func NewChainService(reader ChainReader) *ChainService {
	return &ChainService{reader: reader}
}

// Head returns the current chain head.
func (s *ChainService) Head(ctx context.Context) (domain.Block, error) {
	n, err := s.reader.BlockNumber(ctx)
	if err != nil {
		return domain.Block{}, err
	}
	return domain.Block{Number: n, Timestamp: time.Now().UTC()}, nil
}

// SwapLogs fetches swap events emitted by the watched pools over the
// range. Both family topics are matched in a single query.
func (s *ChainService) SwapLogs(ctx context.Context, r domain.BlockRange, pools []common.Address) ([]types.Log, error) {
	if r.Empty() || len(pools) == 0 {
		return nil, nil
	}

	q := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(r.From),
		ToBlock:   new(big.Int).SetUint64(r.To),
		Addresses: pools,
		Topics:    [][]common.Hash{{SwapTopicCL, SwapTopicCP}},
	}
	return s.reader.FilterLogs(ctx, q)
}
