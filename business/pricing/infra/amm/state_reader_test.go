package amm

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/amm-arb-bot/business/pricing/domain"
	"github.com/fd1az/amm-arb-bot/internal/apperror"
	"github.com/fd1az/amm-arb-bot/internal/asset"
	"github.com/fd1az/amm-arb-bot/internal/logger"
)

// fakePoolCaller answers a fixed subset of the pool getters and reverts
// the rest, the way a real pool answers exactly one of the three.
type fakePoolCaller struct {
	abi     abi.ABI
	answers map[string][]byte
	calls   int
}

func newFakePoolCaller(t *testing.T) *fakePoolCaller {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(PoolABI))
	if err != nil {
		t.Fatalf("parse pool ABI: %v", err)
	}
	return &fakePoolCaller{abi: parsed, answers: make(map[string][]byte)}
}

func (f *fakePoolCaller) answerReserves(t *testing.T, reserve0, reserve1 int64) {
	t.Helper()
	out, err := f.abi.Methods["getReserves"].Outputs.Pack(
		big.NewInt(reserve0), big.NewInt(reserve1), uint32(0),
	)
	if err != nil {
		t.Fatalf("pack reserves: %v", err)
	}
	f.answers["getReserves"] = out
}

func (f *fakePoolCaller) answerSlot0(t *testing.T, sqrtPrice *big.Int) {
	t.Helper()
	out, err := f.abi.Methods["slot0"].Outputs.Pack(
		sqrtPrice, big.NewInt(0), uint16(0), uint16(0), uint16(0), uint8(0), true,
	)
	if err != nil {
		t.Fatalf("pack slot0: %v", err)
	}
	f.answers["slot0"] = out
}

func (f *fakePoolCaller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.calls++
	for name, m := range f.abi.Methods {
		if len(msg.Data) >= 4 && string(msg.Data[:4]) == string(m.ID) {
			if out, ok := f.answers[name]; ok {
				return out, nil
			}
			return nil, fmt.Errorf("execution reverted")
		}
	}
	return nil, fmt.Errorf("unknown selector")
}

func testCPPool(t *testing.T) *domain.Pool {
	t.Helper()
	weth := asset.New(asset.TokenID(8453, common.HexToAddress("0x4200000000000000000000000000000000000006")), "WETH", 18)
	usdc := asset.New(asset.TokenID(8453, common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")), "USDC", 6)
	venue := &domain.Venue{Name: "aerodrome", Family: domain.FamilyConstantProduct}
	return domain.NewPool(venue, common.HexToAddress("0x3333333333333333333333333333333333333333"), 3000, weth, usdc)
}

func TestReadStateConstantProductPoolStaysAvailable(t *testing.T) {
	caller := newFakePoolCaller(t)
	caller.answerReserves(t, 1000, 2000)

	reader, err := NewStateReader(caller, logger.NewNop())
	if err != nil {
		t.Fatalf("NewStateReader: %v", err)
	}
	pool := testCPPool(t)

	// The getter misses on the way to getReserves must never accumulate
	// into an open breaker; every read of a healthy pool succeeds.
	for i := 1; i <= 10; i++ {
		state, err := reader.ReadState(context.Background(), pool)
		if err != nil {
			t.Fatalf("read %d of a healthy constant-product pool failed: %v", i, err)
		}
		if state.Family != domain.FamilyConstantProduct {
			t.Fatalf("read %d family = %v, want constant product", i, state.Family)
		}
		if state.Reserve0.Int64() != 1000 || state.Reserve1.Int64() != 2000 {
			t.Fatalf("read %d reserves = %s/%s", i, state.Reserve0, state.Reserve1)
		}
	}
}

func TestReadStateRemembersProbe(t *testing.T) {
	caller := newFakePoolCaller(t)
	caller.answerReserves(t, 1, 1)

	reader, err := NewStateReader(caller, logger.NewNop())
	if err != nil {
		t.Fatalf("NewStateReader: %v", err)
	}
	pool := testCPPool(t)

	if _, err := reader.ReadState(context.Background(), pool); err != nil {
		t.Fatalf("first read: %v", err)
	}
	afterFirst := caller.calls
	if afterFirst != 3 {
		t.Fatalf("first read made %d calls, want full 3-probe scan", afterFirst)
	}

	if _, err := reader.ReadState(context.Background(), pool); err != nil {
		t.Fatalf("second read: %v", err)
	}
	if got := caller.calls - afterFirst; got != 1 {
		t.Fatalf("second read made %d calls, want 1 via the remembered getter", got)
	}
}

func TestReadStateConcentratedPool(t *testing.T) {
	caller := newFakePoolCaller(t)
	sqrtPrice, _ := new(big.Int).SetString("79228162514264337593543950336", 10) // price 1.0
	caller.answerSlot0(t, sqrtPrice)

	reader, err := NewStateReader(caller, logger.NewNop())
	if err != nil {
		t.Fatalf("NewStateReader: %v", err)
	}
	pool := testCPPool(t)

	state, err := reader.ReadState(context.Background(), pool)
	if err != nil {
		t.Fatalf("ReadState: %v", err)
	}
	if state.Family != domain.FamilyConcentratedLiquidity {
		t.Fatalf("family = %v, want concentrated liquidity", state.Family)
	}
	if state.SqrtPriceX96.Cmp(sqrtPrice) != 0 {
		t.Fatalf("sqrt price = %s, want %s", state.SqrtPriceX96, sqrtPrice)
	}
}

func TestReadStateDeadPool(t *testing.T) {
	caller := newFakePoolCaller(t) // answers nothing

	reader, err := NewStateReader(caller, logger.NewNop())
	if err != nil {
		t.Fatalf("NewStateReader: %v", err)
	}
	pool := testCPPool(t)

	_, err = reader.ReadState(context.Background(), pool)
	if !apperror.IsCode(err, apperror.CodeContractCallFailed) {
		t.Fatalf("err = %v, want CONTRACT_CALL_FAILED", err)
	}
}
