package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quangh/eegchess/internal/board"
)

var perftCmd = &cobra.Command{
	Use:   "perft",
	Short: "Count legal move tree nodes for a position",
	Long: `Perft walks the legal move tree to the given depth and reports node
counts per depth, which is the standard way to verify a move generator
against known reference values. --divide additionally breaks the final
depth down per root move to localize a discrepancy.`,
	RunE: runPerft,
}

func init() {
	perftCmd.Flags().Int("depth", 4, "search depth")
	perftCmd.Flags().String("fen", board.StartFEN, "position to search from")
	perftCmd.Flags().Bool("divide", false, "print per-root-move node counts at the final depth")

	rootCmd.AddCommand(perftCmd)
}

func runPerft(cmd *cobra.Command, args []string) error {
	depth, _ := cmd.Flags().GetInt("depth")
	fen, _ := cmd.Flags().GetString("fen")
	divide, _ := cmd.Flags().GetBool("divide")

	pos, err := board.ParseFEN(fen)
	if err != nil {
		return fmt.Errorf("parse FEN: %w", err)
	}

	for d := 1; d <= depth; d++ {
		start := time.Now()
		nodes := perft(pos, d)
		fmt.Printf("depth %d: %12d nodes  (%v)\n", d, nodes, time.Since(start).Round(time.Millisecond))
	}

	if divide {
		fmt.Println()
		var total uint64
		for _, m := range pos.LegalMoves() {
			u := pos.MakeMove(m)
			nodes := perft(pos, depth-1)
			pos.UnmakeMove(m, u)
			total += nodes
			fmt.Printf("%-6s %12d\n", m, nodes)
		}
		fmt.Printf("total  %12d\n", total)
	}
	return nil
}

func perft(p *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := p.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		u := p.MakeMove(m)
		nodes += perft(p, depth-1)
		p.UnmakeMove(m, u)
	}
	return nodes
}
