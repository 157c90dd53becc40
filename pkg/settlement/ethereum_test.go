package settlement

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/chris/property-settlement/pkg/models"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEVM struct {
	tx      *gethtypes.Transaction
	pending bool
	txErr   error
	receipt *gethtypes.Receipt
	err     error
	head    *big.Int
}

func (s *stubEVM) TransactionByHash(_ context.Context, _ common.Hash) (*gethtypes.Transaction, bool, error) {
	return s.tx, s.pending, s.txErr
}

func (s *stubEVM) TransactionReceipt(_ context.Context, _ common.Hash) (*gethtypes.Receipt, error) {
	return s.receipt, s.err
}

func (s *stubEVM) HeaderByNumber(_ context.Context, _ *big.Int) (*gethtypes.Header, error) {
	return &gethtypes.Header{Number: s.head}, nil
}

const txHash = "0x8f2a5c6e1d9b0a7c3e4f5a6b7c8d9e0f1a2b3c4d5e6f708192a3b4c5d6e7f809"

var collector = common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")

// oneAndAHalfEther is 1.5 ETH in wei.
var oneAndAHalfEther = new(big.Int).Mul(big.NewInt(15), big.NewInt(1e17))

func transfer(to common.Address, wei *big.Int) *gethtypes.Transaction {
	return gethtypes.NewTx(&gethtypes.LegacyTx{To: &to, Value: wei, Gas: 21000, GasPrice: big.NewInt(1)})
}

func TestEthereumBackend(t *testing.T) {
	payment := &models.Payment{ID: "payment-1", Type: models.Crypto, Amount: models.MustMoney("1.5", "eth")}

	t.Run("Confirmed", func(t *testing.T) {
		client := &stubEVM{
			tx:      transfer(collector, oneAndAHalfEther),
			receipt: &gethtypes.Receipt{Status: gethtypes.ReceiptStatusSuccessful, BlockNumber: big.NewInt(100)},
			head:    big.NewInt(111),
		}
		ref, err := NewEthereumBackend(client, collector, 12).Process(context.Background(), payment, txHash)
		require.NoError(t, err)
		assert.Equal(t, common.HexToHash(txHash).Hex(), ref)
	})

	t.Run("Wrong Recipient", func(t *testing.T) {
		client := &stubEVM{
			tx:      transfer(common.HexToAddress("0x00000000000000000000000000000000000000b0"), oneAndAHalfEther),
			receipt: &gethtypes.Receipt{Status: gethtypes.ReceiptStatusSuccessful, BlockNumber: big.NewInt(100)},
		}
		_, err := NewEthereumBackend(client, collector, 0).Process(context.Background(), payment, txHash)
		assert.ErrorIs(t, err, ErrRejected)
	})

	t.Run("Contract Creation", func(t *testing.T) {
		client := &stubEVM{tx: gethtypes.NewTx(&gethtypes.LegacyTx{Value: oneAndAHalfEther, Gas: 21000, GasPrice: big.NewInt(1)})}
		_, err := NewEthereumBackend(client, collector, 0).Process(context.Background(), payment, txHash)
		assert.ErrorIs(t, err, ErrRejected)
	})

	t.Run("Underpaid", func(t *testing.T) {
		short := new(big.Int).Sub(oneAndAHalfEther, big.NewInt(1))
		client := &stubEVM{
			tx:      transfer(collector, short),
			receipt: &gethtypes.Receipt{Status: gethtypes.ReceiptStatusSuccessful, BlockNumber: big.NewInt(100)},
		}
		_, err := NewEthereumBackend(client, collector, 0).Process(context.Background(), payment, txHash)
		assert.ErrorIs(t, err, ErrRejected)
	})

	t.Run("Amount Not In Ether", func(t *testing.T) {
		usd := &models.Payment{ID: "payment-2", Type: models.Crypto, Amount: models.MustMoney("250000", "USD")}
		client := &stubEVM{tx: transfer(collector, oneAndAHalfEther)}
		_, err := NewEthereumBackend(client, collector, 0).Process(context.Background(), usd, txHash)
		assert.ErrorIs(t, err, ErrRejected)
	})

	t.Run("Pending Transaction", func(t *testing.T) {
		client := &stubEVM{tx: transfer(collector, oneAndAHalfEther), pending: true}
		_, err := NewEthereumBackend(client, collector, 0).Process(context.Background(), payment, txHash)
		assert.ErrorIs(t, err, ErrNotConfirmed)
	})

	t.Run("Insufficient Confirmations", func(t *testing.T) {
		client := &stubEVM{
			tx:      transfer(collector, oneAndAHalfEther),
			receipt: &gethtypes.Receipt{Status: gethtypes.ReceiptStatusSuccessful, BlockNumber: big.NewInt(100)},
			head:    big.NewInt(105),
		}
		_, err := NewEthereumBackend(client, collector, 12).Process(context.Background(), payment, txHash)
		assert.ErrorIs(t, err, ErrNotConfirmed)
	})

	t.Run("Reverted", func(t *testing.T) {
		client := &stubEVM{
			tx:      transfer(collector, oneAndAHalfEther),
			receipt: &gethtypes.Receipt{Status: gethtypes.ReceiptStatusFailed, BlockNumber: big.NewInt(100)},
		}
		_, err := NewEthereumBackend(client, collector, 0).Process(context.Background(), payment, txHash)
		assert.ErrorIs(t, err, ErrRejected)
	})

	t.Run("Not Mined", func(t *testing.T) {
		client := &stubEVM{txErr: ethereum.NotFound}
		_, err := NewEthereumBackend(client, collector, 0).Process(context.Background(), payment, txHash)
		assert.ErrorIs(t, err, ErrNotConfirmed)
	})

	t.Run("Malformed Hash", func(t *testing.T) {
		_, err := NewEthereumBackend(&stubEVM{}, collector, 0).Process(context.Background(), payment, "0x1234")
		assert.ErrorIs(t, err, ErrRejected)
	})

	t.Run("RPC Failure", func(t *testing.T) {
		client := &stubEVM{txErr: errors.New("connection refused")}
		_, err := NewEthereumBackend(client, collector, 0).Process(context.Background(), payment, txHash)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrRejected)
		assert.NotErrorIs(t, err, ErrNotConfirmed)
	})
}

func TestRouter(t *testing.T) {
	router := NewRouter(map[models.PaymentType]Backend{models.Fiat: FiatBackend{}})

	ref, err := router.Process(context.Background(), &models.Payment{ID: "p1", Type: models.Fiat}, "wire-778")
	require.NoError(t, err)
	assert.Equal(t, "wire-778", ref)

	_, err = router.Process(context.Background(), &models.Payment{ID: "p1", Type: models.Fiat}, "")
	assert.ErrorIs(t, err, ErrRejected)

	_, err = router.Process(context.Background(), &models.Payment{ID: "p2", Type: models.Crypto}, txHash)
	assert.Error(t, err)
}
