// Package difficulty implements DifficultyEngine: the legacy windowed
// retarget (v1), the outlier-robust retarget (v2), and the CLIF emergency
// divisor, grounded on original_source/lib/CryptoNoteCore/Currency.cpp's
// nextDifficulty/nextDifficultyV1/nextDifficultyV6/getClifDifficulty, and on
// the teacher's types.Difficulty (cryptonote/types) for 128-bit arithmetic
// and crypto.LongHasher/types.Difficulty.CheckPoW for proof-of-work
// checking.
package difficulty

import (
	"context"
	"math"
	"sort"

	"git.gammaspectra.live/P2Pool/consensuscore/crypto"
	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote"
	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/params"
	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/types"
	"git.gammaspectra.live/P2Pool/consensuscore/internal/logx"
)

// StatPeriod enumerates the long-horizon windows CLIF asks lazy_stats
// about.
type StatPeriod int

const (
	Hour StatPeriod = iota
	Day
	Week
	Month
	HalfYear
	Year
)

var allPeriods = []StatPeriod{Hour, Day, Week, Month, HalfYear, Year}

// LazyStatsProvider answers CLIF's long-horizon mean-difficulty queries. It
// may read from storage or block, at the host's discretion; the engine
// treats its results as opaque values.
type LazyStatsProvider interface {
	Mean(period StatPeriod, anchorTimestamp uint64) uint64
}

// Engine computes next-block difficulty against a fixed
// ConsensusParameters.
type Engine struct {
	params *params.ConsensusParameters
}

func New(p *params.ConsensusParameters) *Engine {
	return &Engine{params: p}
}

// NextDifficulty dispatches per §4.4's resolution order: fixed-difficulty
// override, CLIF, v2, v1. timestamps and cumulativeDifficulties must be
// aligned and in block order, oldest first.
func (e *Engine) NextDifficulty(height uint64, majorVersion uint8, timestamps []uint64, cumulativeDifficulties []types.Difficulty, nextBlockTime uint64, stats LazyStatsProvider) uint64 {
	p := e.params

	if p.FixedDifficulty != 0 {
		logx.Noticef("difficulty", "using fixed difficulty %d", p.FixedDifficulty)
		return p.FixedDifficulty
	}

	if len(timestamps) == 0 {
		return p.DefaultDifficulty
	}

	lastTimestamp := timestamps[len(timestamps)-1]

	if majorVersion >= 2 && nextBlockTime > lastTimestamp+p.ClifThreshold {
		lastDifficulty := uint64(1)
		if len(cumulativeDifficulties) >= 2 {
			n := len(cumulativeDifficulties)
			lastDifficulty = cumulativeDifficulties[n-1].Sub(cumulativeDifficulties[n-2]).Lo
		}
		currentSolveTime := nextBlockTime - lastTimestamp
		return e.clif(lastDifficulty, currentSolveTime, lastTimestamp, stats)
	}

	if majorVersion >= 2 {
		return e.v2(height, timestamps, cumulativeDifficulties)
	}
	return e.v1(timestamps, cumulativeDifficulties)
}

// v1 is the legacy windowed trimmed-mean retarget.
func (e *Engine) v1(timestamps []uint64, cumulativeDifficulties []types.Difficulty) uint64 {
	p := e.params

	window := int(p.DifficultyWindow)
	if len(timestamps) > window {
		timestamps = timestamps[len(timestamps)-window:]
		cumulativeDifficulties = cumulativeDifficulties[len(cumulativeDifficulties)-window:]
	}

	length := len(timestamps)
	if length <= 1 {
		return 1
	}

	sortedTimestamps := make([]uint64, length)
	copy(sortedTimestamps, timestamps)
	sort.Slice(sortedTimestamps, func(i, j int) bool { return sortedTimestamps[i] < sortedTimestamps[j] })

	cutBegin, cutEnd := 0, length
	cut := int(p.DifficultyCut)
	if length > window-2*cut {
		cutBegin = (length - (window - 2*cut) + 1) / 2
		cutEnd = length - (length-(window-2*cut))/2
	}

	timeSpan := sortedTimestamps[cutEnd-1] - sortedTimestamps[cutBegin]
	if timeSpan < 1 {
		timeSpan = 1
	}

	totalWork := cumulativeDifficulties[cutEnd-1].Sub(cumulativeDifficulties[cutBegin])

	result, ok := totalWork.MulDiv64Ceil(p.DifficultyTarget, timeSpan)
	if !ok {
		logx.Errorf("difficulty", "v1 retarget overflowed")
		return 0
	}
	return result.Lo
}

// v2 is the outlier-robust retarget.
func (e *Engine) v2(height uint64, timestamps []uint64, cumulativeDifficulties []types.Difficulty) uint64 {
	p := e.params

	if p.Testnet {
		return p.DefaultDifficulty
	}
	if len(timestamps) == 0 {
		return p.DefaultDifficulty
	}

	window := len(timestamps) - 1
	if window <= 0 {
		return p.DefaultDifficulty
	}

	if height < uint64(p.UpgradeHeightV2)+uint64(window) {
		return p.DefaultDifficulty
	}

	for i := 1; i < len(timestamps); i++ {
		if timestamps[i] < timestamps[i-1] {
			logx.Errorf("difficulty", "non-monotone timestamps in v2 retarget window")
			return p.DefaultDifficulty
		}
	}
	for i := 1; i < len(cumulativeDifficulties); i++ {
		if cumulativeDifficulties[i].Cmp(cumulativeDifficulties[i-1]) <= 0 {
			logx.Errorf("difficulty", "non-increasing cumulative difficulty in v2 retarget window")
			return p.DefaultDifficulty
		}
	}

	solveTimes := make([]float64, window)
	for i := 0; i < window; i++ {
		solveTimes[i] = float64(timestamps[i+1] - timestamps[i])
	}

	prevDifficulty := cumulativeDifficulties[len(cumulativeDifficulties)-1].Sub(cumulativeDifficulties[len(cumulativeDifficulties)-2]).Float64()

	mean, stddev := meanStddev(solveTimes)
	low := mean - stddev
	if low < 1 {
		low = 1
	}
	high := mean + stddev

	var validSum, invalidSum float64
	var validCount, invalidCount int
	for _, st := range solveTimes {
		if st >= low && st <= high {
			validSum += st
			validCount++
		} else {
			invalidSum += st
			invalidCount++
		}
	}

	if invalidCount == 0 {
		return uint64(math.Max(prevDifficulty, float64(p.DefaultDifficulty)))
	}

	windowTime := float64(timestamps[len(timestamps)-1] - timestamps[0])
	windowTarget := float64(p.DifficultyTarget) * float64(window)

	var next float64
	switch {
	case windowTime >= 0.97*windowTarget && windowTime <= 1.03*windowTarget:
		validMean := safeMean(validSum, validCount)
		invalidMean := safeMean(invalidSum, invalidCount)
		anchorMean := math.Max(validMean, invalidMean)
		coef := float64(p.DifficultyTarget) / anchorMean
		if anchorMean < float64(p.DifficultyTarget) {
			next = prevDifficulty*math.Min(1.01, coef) + 0.5
		} else {
			next = prevDifficulty*math.Max(0.99, coef) + 0.5
		}
	case windowTime < 0.97*windowTarget:
		next = prevDifficulty*1.02 + 0.5
	default:
		next = prevDifficulty*0.98 + 0.5
	}

	return uint64(math.Max(next, float64(p.DefaultDifficulty)))
}

func meanStddev(values []float64) (mean, stddev float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func safeMean(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// clif is the Chain Late-solve Intervention Function.
func (e *Engine) clif(lastDifficulty, currentSolveTime, lastTimestamp uint64, stats LazyStatsProvider) uint64 {
	p := e.params

	newDiff := lastDifficulty
	if newDiff <= p.DefaultDifficulty {
		return lastDifficulty
	}

	newDiff /= 2

	if stats != nil {
		for _, period := range allPeriods {
			mean := stats.Mean(period, lastTimestamp)
			if mean > 0 && mean < newDiff {
				newDiff = mean
			}
		}
	}

	// decrease_counter is how many whole difficulty_target multiples the
	// solve time overran clif_threshold by, plus one; the initial halving
	// above accounts for one of those decreases, so decrease_counter-1
	// further halvings follow.
	if currentSolveTime > p.ClifThreshold {
		correctionInterval := currentSolveTime - p.ClifThreshold
		decreaseCounter := correctionInterval/p.DifficultyTarget + 1
		for i := uint64(1); i < decreaseCounter; i++ {
			if newDiff <= p.DefaultDifficulty {
				break
			}
			newDiff /= 2
		}
	}

	if newDiff < p.DefaultDifficulty {
		newDiff = p.DefaultDifficulty
	}
	return newDiff
}

// CheckProofOfWork asks the LongHasher for the block's PoW hash and checks
// it against the difficulty target. majorVersion/height/hashingBlob are
// the inputs the hasher needs to pick an algorithm/seed.
func CheckProofOfWork(ctx context.Context, hasher crypto.LongHasher, majorVersion uint8, height uint64, hashingBlob []byte, target types.Difficulty) (bool, error) {
	hash, err := hasher.BlockLongHash(ctx, majorVersion, height, hashingBlob)
	if err != nil {
		return false, cryptonote.NewError(cryptonote.CryptoFailure, "block long hash failed: %v", err)
	}
	return types.DifficultyFromPoW(hash).Cmp(target) >= 0, nil
}
