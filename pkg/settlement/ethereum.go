package settlement

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/chris/property-settlement/pkg/models"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// etherCurrency is the currency code crypto payments must be priced in.
const etherCurrency = "ETH"

// EVMClient defines the subset of the Ethereum RPC used by the backend.
type EVMClient interface {
	TransactionByHash(ctx context.Context, hash common.Hash) (*gethtypes.Transaction, bool, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*gethtypes.Receipt, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*gethtypes.Header, error)
}

// DialEVMClient initialises an EVM RPC client for the provided endpoint.
func DialEVMClient(endpoint string) (*ethclient.Client, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, fmt.Errorf("evm endpoint required")
	}
	return ethclient.Dial(trimmed)
}

// EthereumBackend settles crypto payments by checking the submitted transaction
// paid at least the payment amount to the collector address, succeeded, and has
// enough confirmations.
type EthereumBackend struct {
	client        EVMClient
	collector     common.Address
	confirmations uint64
}

// NewEthereumBackend constructs a backend from an Ethereum client.
func NewEthereumBackend(client EVMClient, collector common.Address, confirmations uint64) *EthereumBackend {
	return &EthereumBackend{client: client, collector: collector, confirmations: confirmations}
}

// weiAmount converts an ETH-denominated amount to wei.
func weiAmount(m models.Money) (*big.Int, error) {
	if models.NormalizeCurrency(m.Currency) != etherCurrency {
		return nil, fmt.Errorf("amount in %s cannot be settled in ether", m.Currency)
	}
	wei := m.Amount.Shift(18)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, fmt.Errorf("amount %s is finer than one wei", m.Amount)
	}
	return wei.BigInt(), nil
}

var _ Backend = (*EthereumBackend)(nil)

// Process verifies evidence, a 0x-prefixed transaction hash, and returns it in
// canonical form.
func (b *EthereumBackend) Process(ctx context.Context, payment *models.Payment, evidence string) (string, error) {
	if b == nil || b.client == nil {
		return "", fmt.Errorf("ethereum backend not initialised")
	}
	raw, err := hexutil.Decode(strings.TrimSpace(evidence))
	if err != nil || len(raw) != common.HashLength {
		return "", fmt.Errorf("payment %s: malformed transaction hash %q: %w", payment.ID, evidence, ErrRejected)
	}
	txHash := common.BytesToHash(raw)

	want, err := weiAmount(payment.Amount)
	if err != nil {
		return "", fmt.Errorf("payment %s: %v: %w", payment.ID, err, ErrRejected)
	}
	tx, pending, err := b.client.TransactionByHash(ctx, txHash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return "", fmt.Errorf("transaction %s not found: %w", txHash.Hex(), ErrNotConfirmed)
		}
		return "", fmt.Errorf("fetch transaction: %w", err)
	}
	if pending {
		return "", fmt.Errorf("transaction %s still pending: %w", txHash.Hex(), ErrNotConfirmed)
	}
	if tx.To() == nil || *tx.To() != b.collector {
		return "", fmt.Errorf("transaction %s does not pay the collector %s: %w", txHash.Hex(), b.collector.Hex(), ErrRejected)
	}
	if tx.Value().Cmp(want) < 0 {
		return "", fmt.Errorf("transaction %s pays %s wei, want %s: %w", txHash.Hex(), tx.Value(), want, ErrRejected)
	}

	receipt, err := b.client.TransactionReceipt(ctx, txHash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return "", fmt.Errorf("transaction %s not mined: %w", txHash.Hex(), ErrNotConfirmed)
		}
		return "", fmt.Errorf("fetch receipt: %w", err)
	}
	if receipt == nil {
		return "", fmt.Errorf("transaction %s receipt missing: %w", txHash.Hex(), ErrNotConfirmed)
	}
	if receipt.Status != gethtypes.ReceiptStatusSuccessful {
		return "", fmt.Errorf("transaction %s failed: %w", txHash.Hex(), ErrRejected)
	}

	if b.confirmations > 0 {
		header, err := b.client.HeaderByNumber(ctx, nil)
		if err != nil {
			return "", fmt.Errorf("fetch head: %w", err)
		}
		if header == nil || header.Number == nil || receipt.BlockNumber == nil {
			return "", fmt.Errorf("block metadata unavailable")
		}
		if header.Number.Cmp(receipt.BlockNumber) < 0 {
			return "", fmt.Errorf("transaction block ahead of head: %w", ErrNotConfirmed)
		}
		confirmed := new(big.Int).Sub(header.Number, receipt.BlockNumber)
		confirmed.Add(confirmed, big.NewInt(1))
		if confirmed.Cmp(new(big.Int).SetUint64(b.confirmations)) < 0 {
			return "", fmt.Errorf("insufficient confirmations: have %s want %d: %w", confirmed.String(), b.confirmations, ErrNotConfirmed)
		}
	}

	return txHash.Hex(), nil
}
