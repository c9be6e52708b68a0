// Package cost predicts job billing the same way the ledger computes it, with fixed-point
// integer arithmetic and floor division.
package cost

import (
	"math"
	"math/big"
	"time"

	"github.com/gridlab/gridclient/pkg/models"
)

// PriceScale is the fixed-point scaling factor of provider prices.
var PriceScale = big.NewInt(1_000_000)

// Unlimited is reported as time left when a job costs nothing per minute.
const Unlimited = time.Duration(math.MaxInt64)

// CostPerMinute returns
// (tasks × (cpusPerTask × cpuPrice + memPerCpu × cpusPerTask × memPrice) + gpus × gpuPrice) / 1e6.
func CostPerMinute(def models.JobDefinition, prices models.ProviderPrices) *big.Int {
	cpusPerTask := new(big.Int).SetUint64(def.CPUsPerTask)

	cpuCost := new(big.Int).Mul(cpusPerTask, orZero(prices.CPUPricePerMin))

	memCost := new(big.Int).SetUint64(def.MemPerCPU)
	memCost.Mul(memCost, cpusPerTask)
	memCost.Mul(memCost, orZero(prices.MemPricePerMin))

	perTask := cpuCost.Add(cpuCost, memCost)
	total := perTask.Mul(perTask, new(big.Int).SetUint64(def.Tasks))

	gpuCost := new(big.Int).SetUint64(def.GPUs)
	gpuCost.Mul(gpuCost, orZero(prices.GPUPricePerMin))
	total.Add(total, gpuCost)

	// operands are non-negative so Quo truncation equals floor
	return total.Quo(total, PriceScale)
}

// ElapsedMinutes is floor(now/60s) - floor(start/60s). A job that has not started yet has run
// for zero minutes.
func ElapsedMinutes(job *models.Job, now time.Time) *big.Int {
	start := job.Time.Start
	if start == nil || start.Sign() <= 0 {
		return new(big.Int)
	}
	sixty := big.NewInt(60)
	nowMinutes := new(big.Int).Quo(big.NewInt(now.Unix()), sixty)
	startMinutes := new(big.Int).Quo(start, sixty)
	elapsed := nowMinutes.Sub(nowMinutes, startMinutes)
	if elapsed.Sign() < 0 {
		return new(big.Int)
	}
	return elapsed
}

// CurrentCost returns the settled final cost of a terminated job, or the cost accrued so far
// for a job that is still live.
func CurrentCost(job *models.Job, prices models.ProviderPrices, now time.Time) *big.Int {
	if job.Status.IsTerminated() {
		return new(big.Int).Set(orZero(job.Cost.FinalCost))
	}
	elapsed := ElapsedMinutes(job, now)
	return elapsed.Mul(elapsed, CostPerMinute(job.Definition, prices))
}

// Estimate is a point-in-time view of a job's billing.
type Estimate struct {
	// Known is false when the job has not been claimed by a provider and no prices are
	// available. The other fields are then zero and must not be read as "free".
	Known         bool          `json:"known"`
	CostPerMinute *big.Int      `json:"costPerMinute"`
	Cost          *big.Int      `json:"cost"`
	TimeLeft      time.Duration `json:"timeLeft"`
}

// EstimateJob computes cost, cost per minute and remaining run time before the job exhausts its
// maximum cost. prices may be nil for unclaimed jobs.
func EstimateJob(job *models.Job, prices *models.ProviderPrices, now time.Time) Estimate {
	if job.Status.IsTerminated() {
		e := Estimate{
			Known:         true,
			CostPerMinute: new(big.Int),
			Cost:          CurrentCost(job, models.ProviderPrices{}, now),
		}
		if prices != nil {
			e.CostPerMinute = CostPerMinute(job.Definition, *prices)
		}
		return e
	}
	if prices == nil {
		return Estimate{CostPerMinute: new(big.Int), Cost: new(big.Int)}
	}

	perMinute := CostPerMinute(job.Definition, *prices)
	current := CurrentCost(job, *prices, now)
	e := Estimate{
		Known:         true,
		CostPerMinute: perMinute,
		Cost:          current,
		TimeLeft:      Unlimited,
	}
	if perMinute.Sign() == 0 {
		return e
	}

	remaining := new(big.Int).Sub(orZero(job.Cost.MaxCost), current)
	if remaining.Sign() <= 0 {
		e.TimeLeft = 0
		return e
	}
	minutes := remaining.Quo(remaining, perMinute)
	if !minutes.IsInt64() || minutes.Int64() > int64(Unlimited/time.Minute) {
		return e
	}
	e.TimeLeft = time.Duration(minutes.Int64()) * time.Minute
	return e
}

var zero = new(big.Int)

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return zero
	}
	return v
}
