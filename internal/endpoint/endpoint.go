package endpoint

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Candidate is one configured backend base URL. Lower priority values are
// tried first.
type Candidate struct {
	Label    string `toml:"label"`
	BaseURL  string `toml:"base_url"`
	Priority int    `toml:"priority"`
}

// Active is the endpoint chosen for the session. It is set once at session
// start and never re-evaluated until the next session. Degraded is true when
// no candidate answered the liveness probe and the least-preferred candidate
// was kept as a best-effort target.
type Active struct {
	Label    string
	BaseURL  string
	Degraded bool
}

// Resolver picks the session endpoint by probing candidates for liveness.
type Resolver struct {
	httpClient *http.Client
	logger     *slog.Logger
	timeout    time.Duration
}

const defaultProbeTimeout = 3 * time.Second

func NewResolver(client *http.Client, logger *slog.Logger, timeout time.Duration) *Resolver {
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &Resolver{httpClient: client, logger: logger, timeout: timeout}
}

// Resolve probes candidates sequentially in ascending priority order and
// accepts the first one that answers, so the remaining probes are skipped in
// the common case. Candidates without a base URL are never probed. When every
// probe fails, the candidate with the largest priority value is kept as a
// degraded fallback so the session always has some target.
func (r *Resolver) Resolve(ctx context.Context, candidates []Candidate) Active {
	ordered := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if strings.TrimSpace(c.BaseURL) == "" {
			continue
		}
		ordered = append(ordered, c)
	}
	if len(ordered) == 0 {
		r.logger.Warn("no endpoint candidates configured")
		return Active{Degraded: true}
	}

	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority < ordered[j].Priority })

	for _, c := range ordered {
		if r.probe(ctx, c.BaseURL) {
			r.logger.Info("selected endpoint", "label", c.Label, "base_url", c.BaseURL)
			return Active{Label: c.Label, BaseURL: c.BaseURL}
		}
		r.logger.Warn("endpoint probe failed", "label", c.Label, "base_url", c.BaseURL)
	}

	fallback := ordered[len(ordered)-1]
	r.logger.Warn("no backend reachable, continuing with degraded endpoint",
		"label", fallback.Label, "base_url", fallback.BaseURL)
	return Active{Label: fallback.Label, BaseURL: fallback.BaseURL, Degraded: true}
}

// probe issues a bounded reachability check against the candidate root.
// Any 2xx response counts as alive; timeouts count as failures.
func (r *Resolver) probe(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/", nil)
	if err != nil {
		return false
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
