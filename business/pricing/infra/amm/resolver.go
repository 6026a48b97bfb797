package amm

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/amm-arb-bot/business/pricing/app"
	"github.com/fd1az/amm-arb-bot/business/pricing/domain"
	"github.com/fd1az/amm-arb-bot/internal/apperror"
	"github.com/fd1az/amm-arb-bot/internal/asset"
	"github.com/fd1az/amm-arb-bot/internal/logger"
)

// Ensure Resolver implements both lookup ports.
var (
	_ app.PoolResolver  = (*Resolver)(nil)
	_ app.TokenResolver = (*Resolver)(nil)
)

// Resolver locates pools through venue factories and fills in token
// metadata, caching resolved tokens in the asset registry.
type Resolver struct {
	client   ContractCaller
	registry *asset.Registry

	clFactory     abi.ABI
	dynFactory    abi.ABI
	cpFactory     abi.ABI
	stableFactory abi.ABI
	erc20         abi.ABI

	logger logger.LoggerInterface
	tracer trace.Tracer
}

// NewResolver creates a Resolver caching token metadata in the registry.
func NewResolver(client ContractCaller, registry *asset.Registry, log logger.LoggerInterface) (*Resolver, error) {
	r := &Resolver{
		client:   client,
		registry: registry,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
	}

	for _, p := range []struct {
		dst *abi.ABI
		src string
	}{
		{&r.clFactory, CLFactoryABI},
		{&r.dynFactory, DynFactoryABI},
		{&r.cpFactory, CPFactoryABI},
		{&r.stableFactory, StableFactoryABI},
		{&r.erc20, ERC20ABI},
	} {
		parsed, err := abi.JSON(strings.NewReader(p.src))
		if err != nil {
			return nil, fmt.Errorf("failed to parse factory ABI: %w", err)
		}
		*p.dst = parsed
	}
	return r, nil
}

// ResolvePool asks the venue's factory for the pool of (a, b) at the given
// fee tier. Venue flags pick the lookup shape; stable selects the pool
// flavor on factories that key by it. A zero address from the factory
// means the pool was never deployed.
func (r *Resolver) ResolvePool(ctx context.Context, venue *domain.Venue, a, b *asset.Asset, feeTier int, stable bool) (*domain.Pool, error) {
	ctx, span := r.tracer.Start(ctx, "amm.resolve_pool",
		trace.WithAttributes(
			attribute.String("venue", venue.Name),
			attribute.Int("fee_tier", feeTier),
			attribute.Bool("stable", stable),
		),
	)
	defer span.End()

	callData, err := r.packLookup(venue, a.Address(), b.Address(), feeTier, stable)
	if err != nil {
		return nil, fmt.Errorf("failed to encode factory lookup: %w", err)
	}

	factory := venue.Factory
	result, err := r.client.CallContract(ctx, ethereum.CallMsg{
		To:   &factory,
		Data: callData,
	}, nil)
	if err != nil {
		span.SetStatus(codes.Error, "factory call failed")
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("factory lookup on %s", venue.Name)),
		)
	}
	if len(result) < 32 {
		span.SetStatus(codes.Error, "short factory answer")
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithContext(fmt.Sprintf("factory on %s returned %d bytes", venue.Name, len(result))),
		)
	}

	poolAddr := common.BytesToAddress(result[12:32])
	if poolAddr == (common.Address{}) {
		span.SetStatus(codes.Error, "pool not deployed")
		return nil, apperror.New(apperror.CodePoolNotFound,
			apperror.WithContext(fmt.Sprintf("%s has no %s/%s pool at tier %d", venue.Name, a.Symbol(), b.Symbol(), feeTier)),
		)
	}

	span.SetAttributes(attribute.String("pool", poolAddr.Hex()))
	span.SetStatus(codes.Ok, "pool resolved")
	return domain.NewPool(venue, poolAddr, feeTier, a, b), nil
}

func (r *Resolver) packLookup(venue *domain.Venue, a, b common.Address, feeTier int, stable bool) ([]byte, error) {
	switch {
	case venue.Family == domain.FamilyConcentratedLiquidity && venue.DynamicFee:
		return r.dynFactory.Pack("poolByPair", a, b)
	case venue.Family == domain.FamilyConcentratedLiquidity:
		return r.clFactory.Pack("getPool", a, b, big.NewInt(int64(feeTier)))
	case venue.Stable:
		return r.stableFactory.Pack("getPool", a, b, stable)
	default:
		return r.cpFactory.Pack("getPair", a, b)
	}
}

// Resolve reads symbol and decimals for a token, serving repeats from the
// registry.
func (r *Resolver) Resolve(ctx context.Context, chainID uint64, addr common.Address) (*asset.Asset, error) {
	if cached, ok := r.registry.GetToken(chainID, addr); ok {
		return cached, nil
	}

	ctx, span := r.tracer.Start(ctx, "amm.resolve_token",
		trace.WithAttributes(attribute.String("token", addr.Hex())),
	)
	defer span.End()

	symbol, err := r.callString(ctx, addr, "symbol")
	if err != nil {
		span.SetStatus(codes.Error, "symbol read failed")
		return nil, apperror.New(apperror.CodeTokenResolutionFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("symbol() on %s", addr.Hex())),
		)
	}
	decimals, err := r.callUint8(ctx, addr, "decimals")
	if err != nil {
		span.SetStatus(codes.Error, "decimals read failed")
		return nil, apperror.New(apperror.CodeTokenResolutionFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("decimals() on %s", addr.Hex())),
		)
	}

	token := asset.New(asset.TokenID(chainID, addr), symbol, decimals)
	r.registry.RegisterIfAbsent(token)
	r.logger.Debug(ctx, "token resolved",
		"address", addr.Hex(),
		"symbol", symbol,
		"decimals", decimals,
	)

	span.SetStatus(codes.Ok, "token resolved")
	return token, nil
}

func (r *Resolver) callString(ctx context.Context, addr common.Address, method string) (string, error) {
	outputs, err := r.callERC20(ctx, addr, method)
	if err != nil {
		return "", err
	}
	s, ok := outputs[0].(string)
	if !ok {
		return "", fmt.Errorf("unexpected %s type %T", method, outputs[0])
	}
	return s, nil
}

func (r *Resolver) callUint8(ctx context.Context, addr common.Address, method string) (uint8, error) {
	outputs, err := r.callERC20(ctx, addr, method)
	if err != nil {
		return 0, err
	}
	u, ok := outputs[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected %s type %T", method, outputs[0])
	}
	return u, nil
}

func (r *Resolver) callERC20(ctx context.Context, addr common.Address, method string) ([]any, error) {
	callData, err := r.erc20.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", method, err)
	}
	result, err := r.client.CallContract(ctx, ethereum.CallMsg{
		To:   &addr,
		Data: callData,
	}, nil)
	if err != nil {
		return nil, err
	}
	outputs, err := r.erc20.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", method, err)
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("%s returned nothing", method)
	}
	return outputs, nil
}
