package domain

import (
	"math/big"
	"strconv"
	"time"

	apperrors "github.com/ansu555/Moltiverse-cult/internal/platform/errors"
)

// Params holds the operator-tunable economic parameters.
type Params struct {
	// ProtocolFeeBps is skimmed from externally reported amounts (≤500).
	ProtocolFeeBps uint32
	// TickBurnRate is the fixed per-cycle operational cost.
	TickBurnRate *big.Int
	// DeathCooldown gates rebirth after a death.
	DeathCooldown time.Duration
	// RebirthMinFunding is the minimum new funding a rebirth requires.
	RebirthMinFunding *big.Int
	// HarvestCooldown gates successive yield harvests.
	HarvestCooldown time.Duration
	// YieldPerFollower is minted productivity per follower.
	YieldPerFollower *big.Int
	// YieldPerStakedUnit is minted productivity per whole staked token.
	YieldPerStakedUnit *big.Int
	// YieldAccuracyBonus is minted productivity per correct prophecy.
	YieldAccuracyBonus *big.Int
	// MaxYieldPerHarvest clamps a single harvest payout.
	MaxYieldPerHarvest *big.Int
	// ProphecyRewardPerCorrect is the fixed reward per correct prediction.
	ProphecyRewardPerCorrect *big.Int
	// FeeToPoolBps, FeeToYieldBps, and FeeToBurnBps split distributed fees
	// and must sum to exactly BpsDenominator.
	FeeToPoolBps  uint32
	FeeToYieldBps uint32
	FeeToBurnBps  uint32
}

// DefaultParams returns the launch parameter set.
func DefaultParams() Params {
	return Params{
		ProtocolFeeBps:           100, // 1%
		TickBurnRate:             big.NewInt(50_000_000_000_000), // 0.00005 token per tick
		DeathCooldown:            300 * time.Second,
		RebirthMinFunding:        new(big.Int).Set(Scale),
		HarvestCooldown:          60 * time.Second,
		YieldPerFollower:         big.NewInt(1_000_000_000_000_000), // 0.001 token
		YieldPerStakedUnit:       big.NewInt(10_000_000_000_000_000), // 0.01 token
		YieldAccuracyBonus:       big.NewInt(5_000_000_000_000_000), // 0.005 token
		MaxYieldPerHarvest:       new(big.Int).Mul(big.NewInt(10), Scale),
		ProphecyRewardPerCorrect: big.NewInt(100_000_000_000_000_000), // 0.1 token
		FeeToPoolBps:             4000,
		FeeToYieldBps:            3000,
		FeeToBurnBps:             3000,
	}
}

// Clone returns a deep copy of the parameter set.
func (p Params) Clone() Params {
	p.TickBurnRate = Clone(p.TickBurnRate)
	p.RebirthMinFunding = Clone(p.RebirthMinFunding)
	p.YieldPerFollower = Clone(p.YieldPerFollower)
	p.YieldPerStakedUnit = Clone(p.YieldPerStakedUnit)
	p.YieldAccuracyBonus = Clone(p.YieldAccuracyBonus)
	p.MaxYieldPerHarvest = Clone(p.MaxYieldPerHarvest)
	p.ProphecyRewardPerCorrect = Clone(p.ProphecyRewardPerCorrect)
	return p
}

// Validate checks every parameter constraint.
func (p Params) Validate() error {
	if err := ValidateProtocolFeeBps(p.ProtocolFeeBps); err != nil {
		return err
	}
	if err := ValidateFeeDistribution(p.FeeToPoolBps, p.FeeToYieldBps, p.FeeToBurnBps); err != nil {
		return err
	}
	for name, amount := range map[string]*big.Int{
		"tick burn rate":              p.TickBurnRate,
		"rebirth minimum funding":     p.RebirthMinFunding,
		"yield per follower":          p.YieldPerFollower,
		"yield per staked unit":       p.YieldPerStakedUnit,
		"yield accuracy bonus":        p.YieldAccuracyBonus,
		"max yield per harvest":       p.MaxYieldPerHarvest,
		"prophecy reward per correct": p.ProphecyRewardPerCorrect,
	} {
		if !ValidAmount(amount) {
			return apperrors.WithMetadata(apperrors.CodeInvalidParameter,
				name+" must be a non-negative amount",
				map[string]string{"Parameter": name})
		}
	}
	if p.DeathCooldown < 0 || p.HarvestCooldown < 0 {
		return apperrors.New(apperrors.CodeInvalidParameter, "cooldowns must be non-negative")
	}
	return nil
}

// ValidateProtocolFeeBps enforces the 5% protocol fee cap.
func ValidateProtocolFeeBps(bps uint32) error {
	if bps > MaxProtocolFeeBps {
		return apperrors.WithMetadata(apperrors.CodeInvalidParameter,
			"protocol fee exceeds the 500 bps cap",
			map[string]string{"Bps": formatUint(bps)})
	}
	return nil
}

// ValidateFeeDistribution requires the three split ratios to cover the
// distributed amount exactly.
func ValidateFeeDistribution(toPool, toYield, toBurn uint32) error {
	if uint64(toPool)+uint64(toYield)+uint64(toBurn) != BpsDenominator {
		return apperrors.WithMetadata(apperrors.CodeInvalidDistributionRatio,
			"fee distribution ratios must sum to 10000 bps",
			map[string]string{
				"ToPool":  formatUint(toPool),
				"ToYield": formatUint(toYield),
				"ToBurn":  formatUint(toBurn),
			})
	}
	return nil
}

func formatUint(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}
