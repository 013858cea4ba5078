// Package main provides the BioBoost bankroll command line interface.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/bioboost/internal/config"
	"github.com/yourusername/bioboost/internal/database"
	"github.com/yourusername/bioboost/internal/health"
	"github.com/yourusername/bioboost/internal/ledger"
	"github.com/yourusername/bioboost/internal/logger"
	"github.com/yourusername/bioboost/internal/metrics"
	"github.com/yourusername/bioboost/internal/models"
	"github.com/yourusername/bioboost/internal/parlay"
	"github.com/yourusername/bioboost/internal/repository"
	"github.com/yourusername/bioboost/internal/scheduler"
	"github.com/yourusername/bioboost/internal/scoring"
	"github.com/yourusername/bioboost/internal/staking"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	appLog     *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	initCmd.Flags().Float64Var(&initStart, "start", 1000, "Starting bankroll amount")

	updateCmd.Flags().StringVar(&updateSlip, "slip", "", "Slip identifier of the pending bet")
	updateCmd.Flags().StringVar(&updateResult, "result", "", "Settlement result: win or loss")
	updateCmd.Flags().Float64Var(&updateAmount, "amount", 0, "Override profit/loss amount (defaults to the recommended stake)")
	updateCmd.MarkFlagRequired("slip")
	updateCmd.MarkFlagRequired("result")

	historyCmd.Flags().StringVar(&historyScript, "script", "", "Filter by script")
	historyCmd.Flags().StringVar(&historyStack, "stack", "", "Filter by stack")
	historyCmd.Flags().StringVar(&historyType, "type", "", "Filter by entry type")
	historyCmd.Flags().StringVar(&historyResult, "result", "", "Filter by settlement result")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Keep only the most recent N matches")

	stakeCmd.Flags().Float64Var(&stakeOdds, "odds", 0, "Decimal odds (must exceed 1.0)")
	stakeCmd.Flags().Float64Var(&stakeProb, "prob", 0, "Base win probability estimate (0,1)")
	stakeCmd.Flags().IntVar(&stakeScore, "score", -1, "BioBoost score to enhance the probability with (0-100)")
	stakeCmd.Flags().StringVar(&stakeInjury, "injury", string(models.InjuryStatusHealthy), "Injury status: healthy, questionable, doubtful, out")
	stakeCmd.Flags().Float64Var(&stakeBankroll, "bankroll", 0, "Bankroll override (defaults to the ledger's current balance)")
	stakeCmd.Flags().BoolVar(&stakeForceMin, "force-minimum", false, "Floor a zero-Kelly stake to the minimum stake instead of suppressing it")
	stakeCmd.Flags().StringVar(&stakeSlip, "slip", "", "Record the recommendation in the ledger under this slip")
	stakeCmd.Flags().StringVar(&stakeScript, "script", "", "Script label for the ledger entry")
	stakeCmd.Flags().StringVar(&stakeStack, "stack", "", "Stack label for the ledger entry")
	stakeCmd.Flags().StringVar(&stakeBetType, "bet-type", string(models.BetTypePlayerProp), "Bet type for the ledger entry")
	stakeCmd.MarkFlagRequired("odds")
	stakeCmd.MarkFlagRequired("prob")

	scoreCmd.Flags().StringVar(&scorePlayer, "player", "", "Player identifier")
	scoreCmd.Flags().BoolVar(&scoreDemo, "demo", false, "Generate deterministic demo factors for the player")
	scoreCmd.Flags().Float64Var(&scoreSleep, "sleep", 7, "Sleep hours")
	scoreCmd.Flags().Float64Var(&scoreTestosterone, "testosterone", 50, "Testosterone proxy (0-100)")
	scoreCmd.Flags().Float64Var(&scoreCortisol, "cortisol", 50, "Cortisol proxy (0-100, lower is better)")
	scoreCmd.Flags().Float64Var(&scoreHydration, "hydration", 80, "Hydration percentage")
	scoreCmd.Flags().StringVar(&scoreInjury, "injury", string(models.InjuryStatusHealthy), "Injury status")
	scoreCmd.Flags().Float64Var(&scoreRecovery, "recovery", 100, "Injury recovery percentage")
	scoreCmd.MarkFlagRequired("player")

	correlateCmd.Flags().StringVar(&correlateFile, "picks-file", "", "Path to a JSON file holding an array of picks")
	correlateCmd.MarkFlagRequired("picks-file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(stakeCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(correlateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "bankroll",
	Short: "BioBoost wagering decision and bankroll ledger engine",
	Long: `Sizes fantasy football wagers with the fractional Kelly criterion,
enhances win probabilities with BioBoost physiological scores, analyzes
pick correlation, and keeps a persistent bankroll ledger.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog = logger.NewQuietLogger()
	return nil
}

// setupLedger builds the ledger service on top of the configured store. The
// returned cleanup closes the database pool when one was opened.
func setupLedger(ctx context.Context, log *logrus.Logger) (*ledger.Service, repository.LedgerRepository, func(), error) {
	svcConfig := ledger.Config{
		RetentionLimit: cfg.Bankroll.RetentionLimit,
		WriteTimeout:   cfg.WriteTimeout(),
	}

	if cfg.Bankroll.InMemory {
		repo := repository.NewMemoryLedgerRepository()
		return ledger.NewService(repo, svcConfig, log), repo, func() {}, nil
	}

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	repo := repository.NewPostgresLedgerRepository(db)
	return ledger.NewService(repo, svcConfig, log), repo, db.Close, nil
}

// newScoreCache builds the scoring pipeline from configuration: the weighted
// scorer wrapped in the memo cache with the configured TTL.
func newScoreCache(cfg *config.Config, log *logrus.Logger) *scoring.ScoreCache {
	scorer := scoring.NewScorer(scoring.Weights{
		Sleep:          cfg.Scoring.SleepWeight,
		Testosterone:   cfg.Scoring.TestosteroneWeight,
		Cortisol:       cfg.Scoring.CortisolWeight,
		Hydration:      cfg.Scoring.HydrationWeight,
		InjuryRecovery: cfg.Scoring.InjuryRecoveryWeight,
	}, log)
	return scoring.NewScoreCache(scorer, time.Duration(cfg.Scoring.CacheTTLSeconds)*time.Second)
}

var initStart float64

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the bankroll ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		svc, _, cleanup, err := setupLedger(ctx, appLog)
		if err != nil {
			return err
		}
		defer cleanup()

		state, err := svc.Initialize(ctx, decimal.NewFromFloat(initStart))
		if err != nil {
			return err
		}

		fmt.Printf("Bankroll initialized with %s on %s\n",
			state.StartingBalance.StringFixed(2),
			state.Created.Format("2006-01-02 15:04:05 MST"))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current bankroll status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		svc, _, cleanup, err := setupLedger(ctx, appLog)
		if err != nil {
			return err
		}
		defer cleanup()

		state, err := svc.GetStatus(ctx)
		if err != nil {
			return err
		}

		fmt.Println("\n╔════════════════════════════════════════╗")
		fmt.Println("║           Bankroll Status              ║")
		fmt.Println("╚════════════════════════════════════════╝")
		fmt.Printf("  Starting Balance: %s\n", state.StartingBalance.StringFixed(2))
		fmt.Printf("  Current Balance:  %s\n", state.CurrentBalance.StringFixed(2))
		fmt.Printf("  Net Profit:       %s\n", state.NetProfit().StringFixed(2))
		fmt.Printf("  ROI:              %.2f%%\n", state.ROI())
		fmt.Printf("  Settled Bets:     %d (%dW / %dL)\n", state.TotalBets, state.TotalWins, state.TotalLosses)
		fmt.Printf("  Win Rate:         %.1f%%\n", state.WinRate()*100)
		if streak := state.CurrentStreak(); streak > 0 {
			fmt.Printf("  Streak:           W%d\n", streak)
		} else if streak < 0 {
			fmt.Printf("  Streak:           L%d\n", -streak)
		}
		fmt.Printf("  Pending Bets:     %d\n", state.PendingCount())
		fmt.Printf("  Ledger Entries:   %d\n", len(state.Entries))
		fmt.Println()
		return nil
	},
}

var (
	updateSlip   string
	updateResult string
	updateAmount float64
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Settle a pending bet",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		svc, _, cleanup, err := setupLedger(ctx, appLog)
		if err != nil {
			return err
		}
		defer cleanup()

		var amount *decimal.Decimal
		if cmd.Flags().Changed("amount") {
			d := decimal.NewFromFloat(updateAmount)
			amount = &d
		}

		entry, err := svc.UpdateBetResult(ctx, updateSlip, models.BetResult(updateResult), amount)
		if err != nil {
			return err
		}

		state, err := svc.GetStatus(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Bet %s settled as %s: profit %s, balance %s\n",
			updateSlip, entry.Status, entry.Profit.StringFixed(2),
			state.CurrentBalance.StringFixed(2))
		return nil
	},
}

var (
	historyScript string
	historyStack  string
	historyType   string
	historyResult string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the bet journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		svc, _, cleanup, err := setupLedger(ctx, appLog)
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := svc.QueryHistory(ctx, ledger.HistoryFilter{
			Script: historyScript,
			Stack:  historyStack,
			Type:   models.EntryType(historyType),
			Result: models.BetStatus(historyResult),
			Limit:  historyLimit,
		})
		if err != nil {
			return err
		}

		fmt.Printf("\n%-20s %-20s %-12s %-10s %-10s %s\n",
			"TIMESTAMP", "TYPE", "SLIP", "STAKE", "STATUS", "PROFIT")
		for _, e := range result.Entries {
			stake := "-"
			if !e.RecommendedStake.IsZero() {
				stake = e.RecommendedStake.StringFixed(2)
			}
			profit := "-"
			if e.Profit != nil {
				profit = e.Profit.StringFixed(2)
			}
			status := string(e.Status)
			if status == "" {
				status = "-"
			}
			slip := e.Slip
			if slip == "" {
				slip = "-"
			}
			fmt.Printf("%-20s %-20s %-12s %-10s %-10s %s\n",
				e.Timestamp.Format("2006-01-02 15:04:05"),
				e.Type, slip, stake, status, profit)
		}

		s := result.Summary
		fmt.Printf("\n%d entries: %dW / %dL / %d pending, total profit %s, win rate %.1f%%\n\n",
			s.Count, s.Wins, s.Losses, s.Pending, s.TotalProfit.StringFixed(2), s.WinRate*100)
		return nil
	},
}

var (
	stakeOdds     float64
	stakeProb     float64
	stakeScore    int
	stakeInjury   string
	stakeBankroll float64
	stakeForceMin bool
	stakeSlip     string
	stakeScript   string
	stakeStack    string
	stakeBetType  string
)

var stakeCmd = &cobra.Command{
	Use:   "stake",
	Short: "Size a stake with the fractional Kelly criterion",
	Long: `Sizes a stake for the given odds and win probability. When a BioBoost
score is supplied, the probability is enhanced with the score and injury
status first. With --slip the recommendation is recorded as a pending bet.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		injury := models.InjuryStatus(stakeInjury)
		if !injury.IsValid() {
			return fmt.Errorf("invalid injury status: %s", stakeInjury)
		}

		probability := stakeProb
		if stakeScore >= 0 {
			enhancer := staking.NewEnhancer(appLog)
			probability = enhancer.Enhance(stakeProb, models.BioBoostScore(stakeScore), injury)
		}

		var (
			svc     *ledger.Service
			cleanup = func() {}
		)

		bankroll := decimal.NewFromFloat(stakeBankroll)
		if !cmd.Flags().Changed("bankroll") || stakeSlip != "" {
			var err error
			svc, _, cleanup, err = setupLedger(ctx, appLog)
			if err != nil {
				return err
			}
		}
		defer cleanup()

		if !cmd.Flags().Changed("bankroll") {
			state, err := svc.GetStatus(ctx)
			if err != nil {
				return fmt.Errorf("bankroll unavailable, pass --bankroll or run init: %w", err)
			}
			bankroll = state.CurrentBalance
		}

		calc := staking.NewCalculator(appLog)
		rec := calc.Stake(stakeOdds, probability, staking.Params{
			Bankroll:      bankroll,
			RiskTolerance: cfg.Bankroll.RiskTolerance,
			KellyCap:      cfg.Bankroll.KellyCap,
			MinStake:      decimal.NewFromFloat(cfg.Bankroll.MinStake),
			MaxStake:      decimal.NewFromFloat(cfg.Bankroll.MaxStake),
			ForceMinimum:  stakeForceMin,
		})

		fmt.Println("\n╔════════════════════════════════════════╗")
		fmt.Println("║         Stake Recommendation           ║")
		fmt.Println("╚════════════════════════════════════════╝")
		if stakeScore >= 0 {
			fmt.Printf("  Enhanced Probability: %.4f (base %.4f, score %d)\n", probability, stakeProb, stakeScore)
		}
		fmt.Printf("  Kelly Fraction:    %.4f\n", rec.KellyFraction)
		fmt.Printf("  Adjusted Fraction: %.4f\n", rec.AdjustedFraction)
		fmt.Printf("  Capped Fraction:   %.4f\n", rec.CappedFraction)
		fmt.Printf("  Expected Value:    %+.4f\n", rec.ExpectedValue)
		fmt.Printf("  Risk Level:        %s\n", rec.RiskLevel)
		if rec.Bettable {
			fmt.Printf("  Stake:             %s\n", rec.Stake.StringFixed(2))
		} else {
			fmt.Printf("  Stake:             none (%s)\n", rec.Reason)
		}
		fmt.Println()

		if stakeSlip == "" || !rec.Bettable {
			return nil
		}

		entry, err := svc.LogBetRecommendation(ctx, ledger.BetData{
			Slip:             stakeSlip,
			Script:           stakeScript,
			Stack:            stakeStack,
			BetType:          stakeBetType,
			Odds:             stakeOdds,
			RecommendedStake: rec.Stake,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Recorded pending bet %s (entry %s)\n", stakeSlip, entry.ID)
		return nil
	},
}

var (
	scorePlayer       string
	scoreDemo         bool
	scoreSleep        float64
	scoreTestosterone float64
	scoreCortisol     float64
	scoreHydration    float64
	scoreInjury       string
	scoreRecovery     float64
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute a player's BioBoost score",
	RunE: func(cmd *cobra.Command, args []string) error {
		var bundle models.FactorBundle
		if scoreDemo {
			bundle = scoring.NewDemoFactorProvider().Bundle(scorePlayer)
		} else {
			injury := models.InjuryStatus(scoreInjury)
			if !injury.IsValid() {
				return fmt.Errorf("invalid injury status: %s", scoreInjury)
			}
			bundle = models.FactorBundle{
				PlayerID:          scorePlayer,
				SleepHours:        scoreSleep,
				TestosteroneProxy: scoreTestosterone,
				CortisolProxy:     scoreCortisol,
				HydrationPct:      scoreHydration,
				InjuryStatus:      injury,
				InjuryRecoveryPct: scoreRecovery,
			}
		}

		score := newScoreCache(cfg, appLog).Score(bundle)

		fmt.Printf("\nBioBoost score for %s: %d\n", scorePlayer, score)
		if scoreDemo {
			fmt.Printf("  Sleep:        %.1f h\n", bundle.SleepHours)
			fmt.Printf("  Testosterone: %.1f\n", bundle.TestosteroneProxy)
			fmt.Printf("  Cortisol:     %.1f\n", bundle.CortisolProxy)
			fmt.Printf("  Hydration:    %.1f%%\n", bundle.HydrationPct)
			fmt.Printf("  Injury:       %s (%.0f%% recovered)\n", bundle.InjuryStatus, bundle.InjuryRecoveryPct)
		}
		fmt.Println()
		return nil
	},
}

var correlateFile string

var correlateCmd = &cobra.Command{
	Use:   "correlate",
	Short: "Analyze pick correlation and recommend a bet structure",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(correlateFile)
		if err != nil {
			return fmt.Errorf("failed to read picks file: %w", err)
		}

		var picks []models.Pick
		if err := json.Unmarshal(data, &picks); err != nil {
			return fmt.Errorf("failed to parse picks file: %w", err)
		}

		analyzer := parlay.NewAnalyzer(parlay.Thresholds{
			TwoLegMinEV:   cfg.Parlay.TwoLegMinEV,
			ThreeLegMinEV: cfg.Parlay.ThreeLegMinEV,
		}, appLog)

		result := analyzer.Analyze(picks)

		fmt.Println("\n╔════════════════════════════════════════╗")
		fmt.Println("║        Correlation Analysis            ║")
		fmt.Println("╚════════════════════════════════════════╝")
		fmt.Printf("  Picks:          %d (%d players, %d teams, %d games)\n",
			len(picks), result.DistinctPlayer, result.DistinctTeams, result.DistinctGames)
		fmt.Printf("  Correlation:    %s\n", result.Correlation)
		fmt.Printf("  Average EV:     %+.4f\n", result.AverageEV)
		fmt.Printf("  Recommendation: %s\n", result.Recommendation)
		fmt.Printf("  Reason:         %s\n\n", result.Reason)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ledger daemon with health checks, metrics and reconciliation",
	RunE: func(cmd *cobra.Command, args []string) error {
		appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
		appLog.WithFields(logrus.Fields{
			"version":     Version,
			"commit":      GitCommit,
			"environment": cfg.App.Environment,
		}).Info("BioBoost bankroll daemon starting")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		svc, repo, cleanup, err := setupLedger(ctx, appLog)
		if err != nil {
			return err
		}
		defer cleanup()

		metrics.InitRegistry()

		healthServer := health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Commit:      GitCommit,
			Port:        cfg.Health.Port,
			Logger:      appLog,
			DB:          repo,
			Ledger:      svc,
		})
		if err := healthServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start health server: %w", err)
		}

		var metricsServer *http.Server
		if cfg.Metrics.Enabled {
			mux := http.NewServeMux()
			mux.Handle(cfg.Metrics.Path, metrics.Handler())
			metricsServer = &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.Metrics.Port),
				Handler:      mux,
				ReadTimeout:  5 * time.Second,
				WriteTimeout: 10 * time.Second,
			}
			go func() {
				appLog.WithFields(logrus.Fields{
					"port": cfg.Metrics.Port,
					"path": cfg.Metrics.Path,
				}).Info("Metrics server starting")
				if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					appLog.WithError(err).Error("Metrics server error")
				}
			}()
		}

		sched := scheduler.NewScheduler(svc, appLog)
		if err := sched.ScheduleReconciliation(config.ReconcileSchedule); err != nil {
			return err
		}
		if err := sched.ScheduleGaugeRefresh(30); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}

		healthServer.SetReady(true)
		appLog.Info("BioBoost bankroll daemon running")

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		sig := <-sigChan
		appLog.WithField("signal", sig).Info("Shutdown signal received")

		healthServer.SetReady(false)
		cancel()

		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Error stopping scheduler")
		}
		if metricsServer != nil {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				appLog.WithError(err).Error("Error stopping metrics server")
			}
		}

		appLog.Info("BioBoost bankroll daemon shut down")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bankroll %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}
