// Package relay bridges the vendor's streaming price feed to browser clients.
//
// Each downstream subscriber gets its own upstream connection: the expected
// concurrent viewer count is one (personal tool), so there is no shared
// fan-out. An upstream connection lives exactly as long as its subscriber;
// downstream disconnects cancel the upstream request through the request
// context, so an abandoned tab cannot leak a vendor connection.
package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mfreitas/tradejournal/config"
	"github.com/mfreitas/tradejournal/internal/logger"
)

// upstreamErrorLimit caps how much of a failed upstream response body is
// read back into the error message.
const upstreamErrorLimit = 64 * 1024

// Relay opens authenticated upstream pricing streams and pipes their chunks
// downstream wrapped in server-sent-event framing.
type Relay struct {
	cfg    config.OandaConfig
	client *http.Client
}

// New builds a Relay for the given vendor settings. A nil httpClient falls
// back to http.DefaultClient; the client must not set a timeout, since the
// stream is long-lived by design.
func New(cfg config.OandaConfig, httpClient *http.Client) *Relay {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Relay{cfg: cfg, client: httpClient}
}

// Open issues the upstream streaming request for the configured instrument
// list and returns the response body once the vendor has accepted it.
//
// The connection is tied to ctx: cancelling ctx aborts an in-flight dial and
// closes an established stream, which is what propagates a downstream
// disconnect to the vendor. Cancellation is idempotent by construction.
//
// Returns an error (never a body) when:
//   - the bearer token or stream URL is missing from configuration,
//   - the request cannot be issued or the dial fails,
//   - the vendor answers with a non-200 status.
func (r *Relay) Open(ctx context.Context) (io.ReadCloser, error) {
	if r.cfg.Token == "" {
		return nil, errors.New("relay: missing OANDA_API_TOKEN")
	}
	if r.cfg.StreamURL == "" {
		return nil, errors.New("relay: missing stream URL (set OANDA_STREAM_URL or OANDA_ACCOUNT_ID)")
	}

	u, err := url.Parse(r.cfg.StreamURL)
	if err != nil {
		return nil, fmt.Errorf("relay: invalid stream URL: %w", err)
	}
	q := u.Query()
	q.Set("instruments", strings.Join(r.cfg.Instruments, ","))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+r.cfg.Token)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("relay: upstream connect: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, upstreamErrorLimit))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("relay: upstream http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return resp.Body, nil
}

// WriteFlusher is the downstream half of a subscription: a writer that can
// push buffered bytes to the client immediately. gin's ResponseWriter
// satisfies it.
type WriteFlusher interface {
	io.Writer
	Flush()
}

// Pipe forwards upstream chunks to the downstream connection until the
// upstream ends, the downstream disconnects, or an error occurs.
//
// Each chunk is wrapped as one SSE frame ("data: <chunk>\n\n") exactly as it
// arrived; chunk boundaries are whatever the transport delivered, and no
// attempt is made to align them with the vendor's message boundaries.
// Consumers own reassembly (see the quotes package).
//
// Returns nil on clean termination (upstream EOF or ctx cancelled) and the
// transport error otherwise. There is no retry at this layer.
func Pipe(ctx context.Context, upstream io.Reader, downstream WriteFlusher) error {
	log := logger.With("relay")
	buf := make([]byte, 4096)

	for {
		n, err := upstream.Read(buf)
		if n > 0 {
			if _, werr := fmt.Fprintf(downstream, "data: %s\n\n", buf[:n]); werr != nil {
				// Downstream went away mid-write; upstream teardown happens
				// via ctx when the handler returns.
				log.Debug().Err(werr).Msg("downstream write failed")
				return nil
			}
			downstream.Flush()
		}
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				log.Info().Msg("stream closed")
				return nil
			}
			log.Error().Err(err).Msg("upstream read failed")
			return err
		}
	}
}
