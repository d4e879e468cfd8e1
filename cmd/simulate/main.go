// Command simulate runs simulated examinees with known abilities through the
// adaptive engine and reports how well the final estimates recover them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/remaimber-it/examprep/internal/adaptive"
	"github.com/remaimber-it/examprep/internal/domain/questionbank"
	"github.com/remaimber-it/examprep/internal/domain/session"
	"github.com/remaimber-it/examprep/internal/simulation"
	"github.com/remaimber-it/examprep/internal/store"
)

func main() {
	var (
		examinees    = flag.Int("examinees", 200, "number of simulated examinees")
		minTheta     = flag.Float64("min-theta", -2.5, "lowest true ability")
		maxTheta     = flag.Float64("max-theta", 2.5, "highest true ability")
		bankSize     = flag.Int("questions", 300, "synthetic bank size (ignored with -db)")
		topics       = flag.String("topics", "Mechanics,Optics,Thermodynamics,Electrostatics", "comma-separated synthetic topics")
		examType     = flag.String("exam-type", "JEE", "exam type")
		target       = flag.Int("target", 20, "questions per session")
		workers      = flag.Int("workers", 4, "concurrent sessions")
		seed         = flag.Int64("seed", 1, "random seed")
		engineConfig = flag.String("engine-config", "", "YAML engine tuning file")
		dbPath       = flag.String("db", "", "draw questions from this SQLite database instead of a synthetic bank")
		verbose      = flag.Bool("v", false, "print every examinee")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := adaptive.LoadConfig(*engineConfig)
	if err != nil {
		logger.Error("failed to load engine config", "error", err)
		os.Exit(1)
	}
	machine := adaptive.NewMachine(cfg)

	bank, err := loadBank(*dbPath, *bankSize, strings.Split(*topics, ","), *examType, *seed)
	if err != nil {
		logger.Error("failed to load question bank", "error", err)
		os.Exit(1)
	}
	if len(bank) == 0 {
		logger.Error("question bank is empty", "exam_type", *examType)
		os.Exit(1)
	}

	thetas := spread(*examinees, *minTheta, *maxTheta)
	start := time.Now()
	results := simulation.Batch(machine, thetas, bank, simulation.RunConfig{
		ExamType:        *examType,
		Type:            session.TypeAdaptive,
		TargetQuestions: *target,
		TimePerAnswer:   45 * time.Second,
	}, *workers, *seed)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Warn("simulation failed", "true_theta", r.TrueTheta, "error", r.Err)
			continue
		}
		if *verbose {
			fmt.Printf("theta=%+.2f estimate=%+.2f error=%.2f answered=%d correct=%d reason=%s\n",
				r.TrueTheta, r.Estimate, r.AbsError(), r.Attempted, r.Correct, r.Reason)
		}
	}

	st := simulation.Summarize(results)
	fmt.Printf("bank:       %d questions\n", len(bank))
	fmt.Printf("examinees:  %d (%d failed)\n", st.Runs+failed, failed)
	fmt.Printf("answered:   %.1f per session\n", st.Mean)
	fmt.Printf("rmse:       %.3f\n", st.RMSE)
	fmt.Printf("bias:       %+.3f\n", st.Bias)
	fmt.Printf("elapsed:    %s\n", time.Since(start).Round(time.Millisecond))
}

func loadBank(dbPath string, n int, topics []string, examType string, seed int64) ([]questionbank.Question, error) {
	if dbPath == "" {
		return simulation.SyntheticBank(n, topics, examType, seed), nil
	}
	db, err := store.NewSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.FindQuestions(context.Background(), nil, examType)
}

// spread returns n abilities evenly spaced over [lo, hi].
func spread(n int, lo, hi float64) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{(lo + hi) / 2}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	return out
}
