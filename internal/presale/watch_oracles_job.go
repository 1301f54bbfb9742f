package presale

import (
	"context"
	"fmt"
	"math/big"
	"presale/internal/domain"
	"presale/internal/observability"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

const numWorkers = 5

type PayTokenLister interface {
	PayTokens(ctx context.Context) ([]domain.PayToken, error)
}

type OracleProber interface {
	Price(ctx context.Context, oracle common.Address) (domain.Price, time.Time, error)
}

type oracleProbe struct {
	Price     domain.Price
	UpdatedAt time.Time
	Err       error
}

// WatchOracles probes every registered oracle and publishes its health. The
// probed prices are only reported, never used for conversions.
func WatchOracles(ctx context.Context, execID string, lister PayTokenLister, prober OracleProber, metrics *observability.Metrics) error {
	start := time.Now()
	defer func() { metrics.OracleWatchLatency.Observe(time.Since(start).Seconds()) }()

	// STEP 1: getting registered pay tokens
	payTokens, err := lister.PayTokens(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pay tokens: %w", err)
	}
	if len(payTokens) == 0 {
		logrus.Infof("No pay tokens registered, nothing to watch; execID: %s", execID)
		return nil
	}

	// STEP 2: one probe per oracle, as native and wrapped native usually share a feed
	oracles := getUniqueOracles(payTokens)

	// STEP 3: probing in parallel
	probes := processInParallel(ctx, prober, oracles)

	// STEP 4: publishing per currency
	failed := report(payTokens, probes, metrics, time.Now())
	if failed > 0 {
		logrus.Warnf("%d of %d pay tokens have no usable oracle price; execID: %s", failed, len(payTokens), execID)
		return nil
	}
	logrus.Debugf("%d oracles healthy; execID: %s", len(oracles), execID)
	return nil
}

func getUniqueOracles(payTokens []domain.PayToken) []common.Address {
	seen := make(map[common.Address]struct{}, len(payTokens))
	res := make([]common.Address, 0, len(payTokens))
	for _, pt := range payTokens {
		if _, ok := seen[pt.Oracle]; ok {
			continue
		}
		seen[pt.Oracle] = struct{}{}
		res = append(res, pt.Oracle)
	}
	return res
}

// processInParallel runs workers which probe oracles from a shared queue.
func processInParallel(ctx context.Context, prober OracleProber, oracles []common.Address) map[common.Address]oracleProbe {
	workQueue := make(chan common.Address, len(oracles))
	for _, o := range oracles {
		workQueue <- o
	}
	close(workQueue)

	probes := make(map[common.Address]oracleProbe, len(oracles))
	mu := new(sync.Mutex)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			runWorker(ctx, workerID, workQueue, prober, probes, mu)
		}(i)
	}
	wg.Wait()
	return probes
}

func runWorker(ctx context.Context, workerID int, workQueue <-chan common.Address, prober OracleProber, probes map[common.Address]oracleProbe, mu *sync.Mutex) {
	for {
		select {
		case <-ctx.Done():
			return
		case oracle, ok := <-workQueue:
			if !ok {
				return
			}
			processOracle(ctx, workerID, oracle, prober, probes, mu)
		}
	}
}

// processOracle reads one oracle; the prober bounds the read with its own timeout.
func processOracle(ctx context.Context, workerID int, oracle common.Address, prober OracleProber, probes map[common.Address]oracleProbe, mu *sync.Mutex) {
	price, updatedAt, err := prober.Price(ctx, oracle)
	if err != nil {
		logrus.Warnf("Oracle %s probe failed in worker %d: %s", oracle.Hex(), workerID, err)
	}
	mu.Lock()
	probes[oracle] = oracleProbe{Price: price, UpdatedAt: updatedAt, Err: err}
	mu.Unlock()
}

// report updates gauges and returns how many pay tokens lack a usable price.
func report(payTokens []domain.PayToken, probes map[common.Address]oracleProbe, metrics *observability.Metrics, now time.Time) int {
	failed := 0
	for _, pt := range payTokens {
		currency, oracle := pt.Currency.Hex(), pt.Oracle.Hex()
		p, ok := probes[pt.Oracle]
		if !ok || p.Err != nil {
			// not probed at all means the run was canceled
			metrics.OracleUp.WithLabelValues(currency, oracle).Set(0)
			failed++
			continue
		}
		metrics.OracleUp.WithLabelValues(currency, oracle).Set(1)
		metrics.OraclePrice.WithLabelValues(currency, oracle).Set(priceToFloat(p.Price))
		if !p.UpdatedAt.IsZero() {
			metrics.OracleAgeSeconds.WithLabelValues(currency, oracle).Set(now.Sub(p.UpdatedAt).Seconds())
		}
	}
	return failed
}

func priceToFloat(p domain.Price) float64 {
	scale := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(p.Decimals)), nil))
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(p.Value.ToBig()), scale).Float64()
	return f
}
