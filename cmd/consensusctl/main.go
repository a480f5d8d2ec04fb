// consensusctl hand-checks consensus numbers against a ConsensusParameters
// JSON file, without wiring a full node. Grounded on cmd/daemon/main.go's
// flag shape, minus the Redis/RPC machinery that package pulls in.
package main

import (
	"flag"
	"fmt"
	"os"

	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/amount"
	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/difficulty"
	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/params"
	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/reward"
	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/types"
	"git.gammaspectra.live/P2Pool/consensuscore/internal/logx"
)

func main() {
	configPath := flag.String("config", "", "path to a ConsensusParameters JSON file")
	flag.Parse()

	if *configPath == "" || flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	p, err := params.LoadJSON(*configPath)
	if err != nil {
		logx.Errorf("CONSENSUSCTL", "load config: %v", err)
		os.Exit(1)
	}

	switch cmd := flag.Arg(0); cmd {
	case "reward":
		runReward(p, flag.Args()[1:])
	case "difficulty":
		runDifficulty(p, flag.Args()[1:])
	case "amount":
		runAmount(p, flag.Args()[1:])
	default:
		logx.Errorf("CONSENSUSCTL", "unknown subcommand %q", cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: consensusctl -config <file> <reward|difficulty|amount> [args...]")
	fmt.Fprintln(os.Stderr, "  reward <major_version> <median_size> <current_size> <already_generated> <fee> <height> <block_target>")
	fmt.Fprintln(os.Stderr, "  difficulty <height> <major_version> <last_timestamp> <last_cumulative_difficulty> <next_block_time>")
	fmt.Fprintln(os.Stderr, "  amount format <atomic_units> | amount parse <decimal_string>")
}

func runReward(p *params.ConsensusParameters, args []string) {
	if len(args) != 7 {
		usage()
		os.Exit(2)
	}
	var majorVersion uint8
	var medianSize, currentSize, alreadyGenerated, fee, height, blockTarget uint64
	if _, err := fmt.Sscanf(args[0], "%d", &majorVersion); err != nil {
		logx.Errorf("CONSENSUSCTL", "bad major_version: %v", err)
		os.Exit(2)
	}
	fmt.Sscanf(args[1], "%d", &medianSize)
	fmt.Sscanf(args[2], "%d", &currentSize)
	fmt.Sscanf(args[3], "%d", &alreadyGenerated)
	fmt.Sscanf(args[4], "%d", &fee)
	fmt.Sscanf(args[5], "%d", &height)
	fmt.Sscanf(args[6], "%d", &blockTarget)

	e := reward.New(p)
	result, err := e.BlockReward(majorVersion, medianSize, currentSize, alreadyGenerated, fee, height, blockTarget)
	if err != nil {
		logx.Errorf("CONSENSUSCTL", "block reward: %v", err)
		os.Exit(1)
	}
	fmt.Printf("reward=%d emission_change=%d\n", result.Reward, result.EmissionChange)
}

func runDifficulty(p *params.ConsensusParameters, args []string) {
	if len(args) != 5 {
		usage()
		os.Exit(2)
	}
	var height uint64
	var majorVersion uint8
	var lastTimestamp, lastCumulativeDifficulty, nextBlockTime uint64
	fmt.Sscanf(args[0], "%d", &height)
	fmt.Sscanf(args[1], "%d", &majorVersion)
	fmt.Sscanf(args[2], "%d", &lastTimestamp)
	fmt.Sscanf(args[3], "%d", &lastCumulativeDifficulty)
	fmt.Sscanf(args[4], "%d", &nextBlockTime)

	e := difficulty.New(p)
	next := e.NextDifficulty(height, majorVersion,
		[]uint64{lastTimestamp},
		[]types.Difficulty{types.DifficultyFrom64(lastCumulativeDifficulty)},
		nextBlockTime, nil)
	fmt.Printf("next_difficulty=%d\n", next)
}

func runAmount(p *params.ConsensusParameters, args []string) {
	if len(args) != 2 {
		usage()
		os.Exit(2)
	}
	codec := amount.New(p)
	switch args[0] {
	case "format":
		var v uint64
		fmt.Sscanf(args[1], "%d", &v)
		fmt.Println(codec.FormatUnsigned(v))
	case "parse":
		v, ok := codec.Parse(args[1])
		if !ok {
			logx.Errorf("CONSENSUSCTL", "could not parse amount %q", args[1])
			os.Exit(1)
		}
		fmt.Println(v)
	default:
		usage()
		os.Exit(2)
	}
}
