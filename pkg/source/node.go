package source

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single RPC call when the caller sets no deadline
const DefaultTimeout = 30 * time.Second

// NodeClient reads raw headers and blocks over a node's debug JSON-RPC API.
type NodeClient struct {
	rpc      *rpc.Client
	endpoint string
	timeout  time.Duration
	logger   zerolog.Logger
}

// Endpoint builds the HTTP endpoint of a node from host and port.
func Endpoint(host string, port int) string {
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}

// NewNodeClient creates a client for the node at endpoint.
func NewNodeClient(endpoint string, timeout time.Duration, logger zerolog.Logger) (*NodeClient, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := &http.Client{Timeout: timeout}
	c, err := rpc.DialHTTPWithClient(endpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint %s: %w", endpoint, err)
	}

	logger.Debug().Str("endpoint", endpoint).Dur("timeout", timeout).Msg("RPC client ready")

	return &NodeClient{
		rpc:      c,
		endpoint: endpoint,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

// HeaderRLP returns the RLP encoded header of block number via debug_getHeaderRlp.
func (c *NodeClient) HeaderRLP(ctx context.Context, number uint64) ([]byte, error) {
	return c.call(ctx, "debug_getHeaderRlp", number, number)
}

// BlockRLP returns the RLP encoded block number via debug_getRawBlock.
func (c *NodeClient) BlockRLP(ctx context.Context, number uint64) ([]byte, error) {
	return c.call(ctx, "debug_getRawBlock", number, hexutil.EncodeUint64(number))
}

// Close closes the RPC client connection
func (c *NodeClient) Close() error {
	c.rpc.Close()
	return nil
}

func (c *NodeClient) call(ctx context.Context, method string, number uint64, param interface{}) ([]byte, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var result hexutil.Bytes
	if err := c.rpc.CallContext(ctx, &result, method, param); err != nil {
		return nil, fmt.Errorf("%w: %s block %d from %s: %w", ErrRemoteFetchFailed, method, number, c.endpoint, err)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%w: %s block %d from %s: empty result", ErrRemoteFetchFailed, method, number, c.endpoint)
	}

	c.logger.Debug().
		Str("method", method).
		Uint64("block", number).
		Int("bytes", len(result)).
		Msg("Fetched from node")

	return result, nil
}
