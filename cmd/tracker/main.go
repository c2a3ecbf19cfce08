// Package main provides a CLI for managing and reporting on the pick
// history.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/config"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/database"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/logger"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/repository"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/tracker"
)

var (
	configFile string
	appLog     *logrus.Logger
	db         *database.DB
	tr         *tracker.Tracker
)

var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Manage the pick history",
	Long:  `Records picks, settles them against observed results, and reports aggregate performance.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new pick",
	RunE: func(cmd *cobra.Command, args []string) error {
		player, _ := cmd.Flags().GetString("player")
		category, _ := cmd.Flags().GetString("category")
		line, _ := cmd.Flags().GetFloat64("line")
		side, _ := cmd.Flags().GetString("side")
		odds, _ := cmd.Flags().GetInt("odds")
		stake, _ := cmd.Flags().GetFloat64("stake")
		safety, _ := cmd.Flags().GetInt("safety")
		confidence, _ := cmd.Flags().GetFloat64("confidence")

		id, err := tr.AddPick(cmd.Context(), models.PickRecord{
			Player:       player,
			PropCategory: category,
			Line:         line,
			Pick:         models.Recommendation(side),
			Odds:         odds,
			Stake:        stake,
			SafetyScore:  safety,
			Confidence:   confidence,
		})
		if err != nil {
			return err
		}

		fmt.Println(id)
		return nil
	},
}

var settleCmd = &cobra.Command{
	Use:   "settle <pick-id> <observed-value>",
	Short: "Settle a pick against its observed statistic",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid pick id: %w", err)
		}

		var observed float64
		if _, err := fmt.Sscanf(args[1], "%f", &observed); err != nil {
			return fmt.Errorf("invalid observed value: %w", err)
		}

		settled, err := tr.UpdatePickResult(cmd.Context(), id, observed)
		if err != nil {
			return err
		}

		return printJSON(settled)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregate performance statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(tr.GetPerformanceStats())
	},
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay the recorded pick window",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		return printJSON(tr.BacktestAlgorithm(days))
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Irreversibly wipe the pick history",
	RunE: func(cmd *cobra.Command, args []string) error {
		confirmed, _ := cmd.Flags().GetBool("yes")
		if !confirmed {
			return fmt.Errorf("clearing is irreversible, pass --yes to confirm")
		}
		return tr.ClearAll(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	addCmd.Flags().String("player", "", "Player name")
	addCmd.Flags().String("category", "", "Prop category")
	addCmd.Flags().Float64("line", 0, "Prop line")
	addCmd.Flags().String("side", "HIGHER", "Pick side: HIGHER or LOWER")
	addCmd.Flags().Int("odds", -110, "Quoted American odds")
	addCmd.Flags().Float64("stake", 0, "Stake amount")
	addCmd.Flags().Int("safety", 0, "Safety score at pick time")
	addCmd.Flags().Float64("confidence", 0, "Confidence at pick time")
	_ = addCmd.MarkFlagRequired("player")
	_ = addCmd.MarkFlagRequired("category")
	_ = addCmd.MarkFlagRequired("line")
	_ = addCmd.MarkFlagRequired("stake")

	backtestCmd.Flags().Int("days", 30, "Lookback window in days")
	clearCmd.Flags().Bool("yes", false, "Confirm the irreversible clear")

	rootCmd.AddCommand(addCmd, settleCmd, statsCmd, backtestCmd, clearCmd)
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup(ctx context.Context) error {
	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLog = logger.NewLogger("warn", cfg.App.Environment)

	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	tr, err = tracker.NewTracker(ctx, repository.NewPostgresPickStore(db), appLog)
	if err != nil {
		return fmt.Errorf("failed to load pick history: %w", err)
	}

	return nil
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
