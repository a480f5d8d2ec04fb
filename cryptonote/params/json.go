package params

import (
	"os"

	"github.com/goccy/go-json"
)

// LoadJSON reads a JSON-encoded ConsensusParameters from path and replays it
// through Builder so every per-setter validation Build normally enforces
// still runs on a hand-edited config file, and so the derived fields
// (Coin, FusionTxMaxSize, PrettyAmounts) are always recomputed rather than
// trusted from the file.
func LoadJSON(path string) (*ConsensusParameters, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var decoded ConsensusParameters
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}

	return NewBuilder().
		MoneySupply(decoded.MoneySupply).
		EmissionSpeedFactor(decoded.EmissionSpeedFactor).
		TailEmissionReward(decoded.TailEmissionReward).
		CoinVersion(decoded.CoinVersion).
		RewardBlocksWindow(decoded.RewardBlocksWindow).
		BlockGrantedFullRewardZone(decoded.BlockGrantedFullRewardZone).
		MaxBlockSizeGrowth(decoded.MaxBlockSizeInitial, decoded.MaxBlockSizeGrowthNum, decoded.MaxBlockSizeGrowthDen).
		MinedMoneyUnlockWindow(decoded.MinedMoneyUnlockWindow).
		DifficultyTarget(decoded.DifficultyTarget).
		DifficultyWindow(decoded.DifficultyWindow, decoded.DifficultyCut, decoded.DifficultyLag).
		ClifThreshold(decoded.ClifThreshold).
		UpgradeHeightV2(decoded.UpgradeHeightV2).
		DefaultDifficulty(decoded.DefaultDifficulty).
		FixedDifficulty(decoded.FixedDifficulty).
		GovernancePercent(decoded.GovernancePercent).
		GovernanceWindow(decoded.GovernanceHeightStart, decoded.GovernanceHeightEnd).
		GovernanceIdentity(decoded.Governance.Address, decoded.Governance.ViewSecretKey).
		FusionTxMinInputCount(decoded.FusionTxMinInputCount).
		FusionTxMinInOutRatio(decoded.FusionTxMinInOutRatio).
		Mixin(decoded.MinMixin, decoded.MaxMixin).
		MinimumFee(decoded.MinimumFee).
		DefaultDustThreshold(decoded.DefaultDustThreshold).
		NumberOfDecimalPlaces(decoded.NumberOfDecimalPlaces).
		UpgradeVotingThreshold(decoded.UpgradeVotingThreshold).
		UpgradeWindow(decoded.UpgradeWindow).
		Testnet(decoded.Testnet).
		Filenames(decoded.Filenames).
		Build()
}
