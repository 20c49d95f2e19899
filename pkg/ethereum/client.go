package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/chainsafe/bridge-claims/internal/metrics"
	"github.com/chainsafe/bridge-claims/pkg/bridge"
	"github.com/chainsafe/bridge-claims/pkg/ethereum/contracts"
	"github.com/chainsafe/bridge-claims/pkg/registry"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// ErrReadOnly is returned when a client without a signer is asked to send a transaction.
var ErrReadOnly = errors.New("client is read-only")

// Receipt identifies a mined transaction.
type Receipt struct {
	TxHash      common.Hash
	BlockNumber uint64
}

// DepositCall holds the arguments of the bridge depositTokens method.
type DepositCall struct {
	Receiver  common.Address
	Token     common.Address // zero for the native asset
	Amount    *big.Int
	ToChainID uint64
	Value     *big.Int // native value sent along, nil for token deposits
}

// ClaimCall holds the arguments of the bridge claim and claimToContract methods.
type ClaimCall struct {
	Bridge          common.Address
	OriginalToken   common.Address
	OriginalChainID uint64
	SourceTxHash    common.Hash
	To              common.Address
	Value           *big.Int
	FromChainID     uint64
	ToContract      *common.Address // set for claimToContract
	Data            []byte
	Signatures      []byte
}

// Client talks to one EVM network on behalf of the bridge operator.
type Client struct {
	network        registry.Network
	client         *ethclient.Client
	signer         Signer
	bridge         *contracts.Bridge
	receiptTimeout time.Duration
	logger         *zap.Logger
}

// NewClient dials the network RPC and binds its bridge contract. A nil signer
// gives a read-only client.
func NewClient(network registry.Network, signer Signer, receiptTimeout time.Duration, logger *zap.Logger) (*Client, error) {
	client, err := ethclient.Dial(network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s RPC: %w", network.Name, err)
	}

	b, err := contracts.NewBridge(network.BridgeAddress, client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to load bridge contract: %w", err)
	}

	logger = logger.With(zap.Uint64("chain_id", network.ChainID))
	fields := []zap.Field{
		zap.String("name", network.Name),
		zap.String("bridge_contract", network.BridgeAddress.Hex()),
	}
	if signer != nil {
		fields = append(fields, zap.String("signer", signer.Address().Hex()))
	}
	logger.Info("Connected to network", fields...)

	return &Client{
		network:        network,
		client:         client,
		signer:         signer,
		bridge:         b,
		receiptTimeout: receiptTimeout,
		logger:         logger,
	}, nil
}

// DialNetworks connects a client to every registered network. Clients opened
// before a failure are closed.
func DialNetworks(reg *registry.Registry, signer Signer, receiptTimeout time.Duration, logger *zap.Logger) (map[uint64]*Client, error) {
	clients := make(map[uint64]*Client)
	for _, n := range reg.Networks() {
		c, err := NewClient(n, signer, receiptTimeout, logger)
		if err != nil {
			for _, open := range clients {
				open.Close()
			}
			return nil, fmt.Errorf("network %d: %w", n.ChainID, err)
		}
		clients[n.ChainID] = c
	}
	return clients, nil
}

// Close closes the RPC connection.
func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// ChainID is the configured chain id of this client.
func (c *Client) ChainID() uint64 { return c.network.ChainID }

// Address is the operator account used for submissions, zero for a read-only client.
func (c *Client) Address() common.Address {
	if c.signer == nil {
		return common.Address{}
	}
	return c.signer.Address()
}

// RemoteChainID asks the node which chain it serves.
func (c *Client) RemoteChainID(ctx context.Context) (uint64, error) {
	id, err := c.client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain id: %w", err)
	}
	return id.Uint64(), nil
}

// LatestBlockNumber gets the latest block number
func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	header, err := c.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest block: %w", err)
	}
	return header.Number.Uint64(), nil
}

// Balance returns the native balance of account.
func (c *Client) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	bal, err := c.client.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return bal, nil
}

// Allowance reads the ERC-20 allowance granted by owner to spender.
func (c *Client) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	erc20, err := contracts.NewERC20Caller(token, c.client)
	if err != nil {
		return nil, fmt.Errorf("failed to bind token: %w", err)
	}
	v, err := erc20.Allowance(&bind.CallOpts{Context: ctx}, owner, spender)
	if err != nil {
		return nil, fmt.Errorf("failed to read allowance: %w", err)
	}
	return v, nil
}

// Approve grants spender an allowance of amount on token and waits for the receipt.
func (c *Client) Approve(ctx context.Context, token, spender common.Address, amount *big.Int) (*Receipt, error) {
	erc20, err := contracts.NewERC20Transactor(token, c.client)
	if err != nil {
		return nil, fmt.Errorf("failed to bind token: %w", err)
	}

	return c.submit(ctx, "approve", nil, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return erc20.Approve(opts, spender, amount)
	})
}

// DepositTokens calls depositTokens on this network's bridge.
func (c *Client) DepositTokens(ctx context.Context, call DepositCall) (*Receipt, error) {
	toChain := new(big.Int).SetUint64(call.ToChainID)
	return c.submit(ctx, "depositTokens", call.Value, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return c.bridge.DepositTokens(opts, call.Receiver, call.Token, call.Amount, toChain)
	})
}

// Claim calls claim, or claimToContract when call.ToContract is set, on the bridge at call.Bridge.
func (c *Client) Claim(ctx context.Context, call ClaimCall) (*Receipt, error) {
	b, err := contracts.NewBridgeTransactor(call.Bridge, c.client)
	if err != nil {
		return nil, fmt.Errorf("failed to bind bridge: %w", err)
	}

	originalChain := new(big.Int).SetUint64(call.OriginalChainID)
	fromChain := new(big.Int).SetUint64(call.FromChainID)

	if call.ToContract != nil {
		return c.submit(ctx, "claimToContract", nil, func(opts *bind.TransactOpts) (*types.Transaction, error) {
			return b.ClaimToContract(opts, call.OriginalToken, originalChain, call.SourceTxHash,
				call.To, call.Value, fromChain, *call.ToContract, call.Data, call.Signatures)
		})
	}
	return c.submit(ctx, "claim", nil, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return b.Claim(opts, call.OriginalToken, originalChain, call.SourceTxHash,
			call.To, call.Value, fromChain, call.Signatures)
	})
}

// transactor builds signing options with nonce, gas limit and a capped gas price.
func (c *Client) transactor(ctx context.Context, value *big.Int) (*bind.TransactOpts, error) {
	if c.signer == nil {
		return nil, ErrReadOnly
	}
	from := c.signer.Address()
	chainID := new(big.Int).SetUint64(c.network.ChainID)

	nonce, err := c.client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	opts := &bind.TransactOpts{
		From:    from,
		Nonce:   new(big.Int).SetUint64(nonce),
		Value:   value,
		Context: ctx,
		Signer: func(addr common.Address, tx *types.Transaction) (*types.Transaction, error) {
			if addr != from {
				return nil, bind.ErrNotAuthorized
			}
			return c.signer.SignTx(ctx, tx, chainID)
		},
		GasLimit: c.network.GasLimit,
	}

	if c.network.MaxGasPrice != nil {
		gasPrice, err := c.client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest gas price: %w", err)
		}

		if gasPrice.Cmp(c.network.MaxGasPrice) > 0 {
			c.logger.Warn("Suggested gas price exceeds maximum",
				zap.String("suggested", gasPrice.String()),
				zap.String("max", c.network.MaxGasPrice.String()))
			opts.GasPrice = new(big.Int).Set(c.network.MaxGasPrice)
		} else {
			opts.GasPrice = gasPrice
		}
	}

	return opts, nil
}

// submit signs and sends a transaction, then blocks until it is mined.
// Failures are classified into the bridge error taxonomy.
func (c *Client) submit(
	ctx context.Context,
	method string,
	value *big.Int,
	send func(*bind.TransactOpts) (*types.Transaction, error),
) (receipt *Receipt, err error) {
	chain := strconv.FormatUint(c.network.ChainID, 10)
	start := time.Now()
	defer func() {
		result := "success"
		if err != nil {
			result = string(bridge.KindOf(err))
		}
		metrics.TransactionsSent.WithLabelValues(chain, method, result).Inc()
		metrics.SubmissionDuration.WithLabelValues(chain, method).Observe(time.Since(start).Seconds())
	}()

	opts, err := c.transactor(ctx, value)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare %s: %w", method, Classify(err))
	}

	tx, err := send(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to submit %s: %w", method, Classify(err))
	}

	c.logger.Info("Transaction submitted",
		zap.String("method", method),
		zap.String("tx_hash", tx.Hash().Hex()),
		zap.Uint64("nonce", tx.Nonce()))

	waitCtx := ctx
	if c.receiptTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, c.receiptTimeout)
		defer cancel()
	}

	mined, err := bind.WaitMined(waitCtx, c.client, tx)
	if err != nil {
		return nil, fmt.Errorf("%w: waiting for %s receipt %s: %v", bridge.ErrSubmissionFailed, method, tx.Hash().Hex(), err)
	}

	if mined.Status != types.ReceiptStatusSuccessful {
		reason := c.replay(ctx, tx, mined.BlockNumber)
		c.logger.Warn("Transaction reverted",
			zap.String("method", method),
			zap.String("tx_hash", tx.Hash().Hex()),
			zap.Error(reason))
		return nil, fmt.Errorf("%s reverted in %s: %w", method, tx.Hash().Hex(), reason)
	}

	c.logger.Info("Transaction mined",
		zap.String("method", method),
		zap.String("tx_hash", tx.Hash().Hex()),
		zap.Uint64("block_number", mined.BlockNumber.Uint64()),
		zap.Uint64("gas_used", mined.GasUsed))

	return &Receipt{TxHash: tx.Hash(), BlockNumber: mined.BlockNumber.Uint64()}, nil
}

// replay re-executes a reverted transaction at its block to recover the revert reason.
func (c *Client) replay(ctx context.Context, tx *types.Transaction, block *big.Int) error {
	msg := ethereum.CallMsg{
		From:  c.signer.Address(),
		To:    tx.To(),
		Gas:   tx.Gas(),
		Value: tx.Value(),
		Data:  tx.Data(),
	}
	if _, err := c.client.CallContract(ctx, msg, block); err != nil {
		return Classify(err)
	}
	return fmt.Errorf("%w: transaction reverted", bridge.ErrSubmissionFailed)
}
